// Package source loads the page records and the page template a
// build renders.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DeedleFake/pagegen/internal/bufpool"
	"github.com/DeedleFake/pagegen/tmpl"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingSlug is returned for a record without a non-empty
	// string slug.
	ErrMissingSlug = errors.New("record has no slug")

	// ErrDuplicateSlug is returned when two records share a slug.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrUnknownFormat is returned for a data file whose extension
	// doesn't name a supported format.
	ErrUnknownFormat = errors.New("unknown data format")
)

// SlugField is the record field that addresses a page.
const SlugField = "slug"

// Options configures LoadRecords.
type Options struct {
	// Table is the table read from SQLite sources.
	Table string
}

// LoadRecords reads the page records stored at path. The format is
// chosen by extension: .json holds an array of objects, .yaml or .yml
// a sequence of mappings, and .db, .sqlite or .sqlite3 a SQLite
// database with one row per record.
//
// Every record must carry a distinct, non-empty string slug.
func LoadRecords(ctx context.Context, path string, opts Options) ([]tmpl.Context, error) {
	var (
		records []tmpl.Context
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = decodeFile(path, json.Unmarshal)
	case ".yaml", ".yml":
		records, err = decodeFile(path, yaml.Unmarshal)
	case ".db", ".sqlite", ".sqlite3":
		records, err = loadSQLite(ctx, path, opts.Table)
	default:
		return nil, fmt.Errorf("load %q: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	err = Validate(records)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return records, nil
}

func decodeFile(path string, unmarshal func([]byte, any) error) ([]tmpl.Context, error) {
	buf, err := readFile(path)
	defer bufpool.Put(buf)
	if err != nil {
		return nil, err
	}

	var records []tmpl.Context
	err = unmarshal(buf.Bytes(), &records)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}

// Slug returns the slug of a record.
func Slug(record tmpl.Context) (string, bool) {
	slug, ok := record[SlugField].(string)
	return slug, ok && slug != ""
}

// Validate checks that every record has a slug and that no two
// records share one.
func Validate(records []tmpl.Context) error {
	seen := make(map[string]int, len(records))
	for i, record := range records {
		slug, ok := Slug(record)
		if !ok {
			return fmt.Errorf("record %d: %w", i, ErrMissingSlug)
		}
		if prev, ok := seen[slug]; ok {
			return fmt.Errorf("records %d and %d: %w %q", prev, i, ErrDuplicateSlug, slug)
		}
		seen[slug] = i
	}
	return nil
}
