package source

import (
	"bytes"
	"io"
	"os"

	"github.com/DeedleFake/pagegen/internal/bufpool"
)

// readFile reads the whole file at path into a pooled buffer. The
// caller must return the buffer with bufpool.Put, even on error.
func readFile(path string) (*bytes.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := bufpool.Get()
	_, err = io.Copy(buf, file)
	return buf, err
}
