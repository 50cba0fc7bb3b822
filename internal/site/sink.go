package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// A Sink stores generated output.
type Sink interface {
	// WritePage stores the rendered page for slug.
	WritePage(ctx context.Context, slug string, content []byte) error

	// WriteSitemap stores the sitemap document.
	WriteSitemap(ctx context.Context, doc []byte) error
}

// PageFile is the name of the file each page is written to inside its
// slug directory.
const PageFile = "index.html"

// DirSink writes pages to Root/Prefix/<slug>/index.html and the sitemap
// to Root/Sitemap. Files are replaced atomically, so a reader never
// sees a partially written page.
type DirSink struct {
	Root    string
	Prefix  string
	Sitemap string
}

// PagePath returns the file a page for slug is written to.
func (s DirSink) PagePath(slug string) string {
	return filepath.Join(s.Root, filepath.FromSlash(s.Prefix), slug, PageFile)
}

// SitemapPath returns the file the sitemap is written to.
func (s DirSink) SitemapPath() string {
	return filepath.Join(s.Root, filepath.FromSlash(s.Sitemap))
}

func (s DirSink) WritePage(ctx context.Context, slug string, content []byte) error {
	path := s.PagePath(slug)
	err := writeFile(path, content)
	if err != nil {
		return fmt.Errorf("write page %q: %w", slug, err)
	}
	return nil
}

func (s DirSink) WriteSitemap(ctx context.Context, doc []byte) error {
	err := writeFile(s.SitemapPath(), doc)
	if err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

func writeFile(path string, content []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(content))
}
