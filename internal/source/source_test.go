package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DeedleFake/pagegen/tmpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecordsJSON(t *testing.T) {
	path := writeFile(t, "pages.json", `[
		{"slug": "small-mat", "title": "Small", "price": 19.5, "secondaryKeywords": ["a", "b"]},
		{"slug": "large-mat", "title": "Large", "specs": {"watts": 40}}
	]`)

	records, err := LoadRecords(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "small-mat", records[0]["slug"])
	assert.Equal(t, 19.5, records[0]["price"])
	assert.Equal(t, []any{"a", "b"}, records[0]["secondaryKeywords"])

	watts, ok := tmpl.Lookup(records[1], "specs.watts")
	assert.True(t, ok)
	assert.Equal(t, 40.0, watts)
}

func TestLoadRecordsYAML(t *testing.T) {
	path := writeFile(t, "pages.yml", `
- slug: one
  title: One
  features:
    - name: Heat
- slug: two
`)

	records, err := LoadRecords(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	name, ok := tmpl.Lookup(records[0], "features.0.name")
	assert.True(t, ok)
	assert.Equal(t, "Heat", name)
}

func TestLoadRecordsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE products (slug TEXT, title TEXT, watts INTEGER, tags TEXT);
		INSERT INTO products VALUES ('b-mat', 'B', 30, '["x","y"]');
		INSERT INTO products VALUES ('a-mat', 'A', NULL, '[not json');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	records, err := LoadRecords(context.Background(), path, Options{Table: "products"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "b-mat", records[0]["slug"])
	assert.Equal(t, int64(30), records[0]["watts"])
	assert.Equal(t, []any{"x", "y"}, records[0]["tags"])
	assert.Nil(t, records[1]["watts"])
	assert.Equal(t, "[not json", records[1]["tags"])
}

func TestLoadRecordsErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		err     error
	}{
		{"MissingSlug", "p.json", `[{"title": "x"}]`, ErrMissingSlug},
		{"NonStringSlug", "p.json", `[{"slug": 4}]`, ErrMissingSlug},
		{"EmptySlug", "p.json", `[{"slug": ""}]`, ErrMissingSlug},
		{"Duplicate", "p.json", `[{"slug": "a"}, {"slug": "a"}]`, ErrDuplicateSlug},
		{"Format", "p.csv", `slug`, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := LoadRecords(context.Background(), path, Options{})
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := LoadRecords(context.Background(), filepath.Join(t.TempDir(), "none.json"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeFile(t, "bad.json", `{"slug": "not-an-array"}`)
	_, err = LoadRecords(context.Background(), path, Options{})
	assert.Error(t, err)
}

func TestLoadTemplate(t *testing.T) {
	body, err := LoadTemplate("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, body)

	path := writeFile(t, "page.html", "<h1>{{title}}</h1>\n")
	body, err = LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>{{title}}</h1>\n", body)

	_, err = LoadTemplate(filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
