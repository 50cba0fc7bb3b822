// Package site generates the pages of a site from page records and
// hands them, along with the site's sitemap, to a Sink.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/DeedleFake/pagegen/internal/inspect"
	"github.com/DeedleFake/pagegen/internal/metrics"
	"github.com/DeedleFake/pagegen/internal/sitemap"
	"github.com/DeedleFake/pagegen/internal/source"
	"github.com/DeedleFake/pagegen/markdown"
	"github.com/DeedleFake/pagegen/tmpl"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultKeywordsField is the record field flattened into
	// KeywordsListField.
	DefaultKeywordsField = "secondaryKeywords"

	// KeywordsListField holds the comma-joined keywords of a record.
	KeywordsListField = "secondaryKeywordsList"

	// URLPathField holds the output address of a page.
	URLPathField = "urlPath"

	// HTMLSuffix is appended to the name of a markdown field to name
	// the field holding its HTML.
	HTMLSuffix = "HTML"

	keywordSep = ", "
)

// Builder renders page records against a shared template.
type Builder struct {
	// Template is the page template.
	Template string

	// Prefix is joined with each slug to form the page's output
	// address.
	Prefix string

	// BaseURL is the absolute URL of the site root, used for sitemap
	// locations.
	BaseURL string

	// KeywordsField names the sequence field flattened into
	// KeywordsListField. If empty, DefaultKeywordsField is used.
	KeywordsField string

	// MarkdownFields lists string fields whose markdown is converted
	// to HTML and exposed under the field's name plus HTMLSuffix.
	MarkdownFields []string

	// Workers limits the number of pages generated at once. If zero,
	// runtime.NumCPU is used.
	Workers int

	// Inspect enables checking each rendered page for leftover
	// template tags, which are logged as warnings.
	Inspect bool

	Sink    Sink
	Logger  *slog.Logger
	Metrics *metrics.Recorder

	// Now returns the build time. If nil, time.Now is used.
	Now func() time.Time
}

// Page is a rendered page.
type Page struct {
	Slug    string
	Path    string
	Content []byte

	// Leftovers holds unrendered template tags found in the page.
	// It's only populated when inspection is requested.
	Leftovers []string
}

// Result describes a finished build.
type Result struct {
	// Paths holds the output address of every page, in record order.
	Paths []string

	Sitemap []sitemap.Entry
	Bytes   int
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// URLPath returns the output address of the page for slug.
func (b *Builder) URLPath(slug string) string {
	if b.Prefix == "" {
		return slug
	}
	return b.Prefix + "/" + slug
}

// Enrich returns the scope a record is rendered against: the record
// itself, overlaid with the fields derived from it. The record is not
// modified.
func (b *Builder) Enrich(record tmpl.Context) (tmpl.Scope, error) {
	s, _ := source.Slug(record)

	keywordsField := b.KeywordsField
	if keywordsField == "" {
		keywordsField = DefaultKeywordsField
	}

	derived := make(map[string]any, len(b.MarkdownFields)+2)
	for _, field := range b.MarkdownFields {
		text, ok := record[field].(string)
		if !ok {
			continue
		}

		html, err := markdown.HTML(text)
		if err != nil {
			return nil, fmt.Errorf("markdown field %q: %w", field, err)
		}
		derived[field+HTMLSuffix] = html
	}

	keywords := ""
	if seq, ok := record[keywordsField].([]any); ok {
		keywords = tmpl.Join(seq, keywordSep)
	}
	derived[KeywordsListField] = keywords
	derived[URLPathField] = b.URLPath(s)

	return tmpl.Overlay(record, derived), nil
}

// Page renders a single record.
func (b *Builder) Page(record tmpl.Context) (Page, error) {
	s, ok := source.Slug(record)
	if !ok {
		return Page{}, source.ErrMissingSlug
	}
	if !slug.IsSlug(s) {
		b.logger().Warn("Slug is not URL-safe; using it verbatim", "slug", s)
	}

	scope, err := b.Enrich(record)
	if err != nil {
		return Page{}, fmt.Errorf("enrich %q: %w", s, err)
	}

	page := Page{
		Slug:    s,
		Path:    b.URLPath(s),
		Content: []byte(tmpl.Render(b.Template, scope)),
	}

	if b.Inspect {
		page.Leftovers, err = inspect.Leftovers(page.Content)
		if err != nil {
			return Page{}, fmt.Errorf("inspect %q: %w", s, err)
		}
		if len(page.Leftovers) > 0 {
			b.logger().Warn("Page contains unrendered template tags", "slug", s, "tags", page.Leftovers)
		}
	}

	return page, nil
}

// Build renders every record, writes each page to the sink, and then,
// once every page has been written, writes the sitemap. The first
// error aborts the build.
func (b *Builder) Build(ctx context.Context, records []tmpl.Context) (result Result, err error) {
	start := time.Now()
	defer func() { b.Metrics.Build(start, err) }()

	err = source.Validate(records)
	if err != nil {
		return Result{}, err
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make([]string, len(records))
	sizes := make([]int, len(records))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, record := range records {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			renderStart := time.Now()
			page, err := b.Page(record)
			if err != nil {
				return err
			}
			elapsed := time.Since(renderStart)

			err = b.Sink.WritePage(gctx, page.Slug, page.Content)
			if err != nil {
				return err
			}
			b.Metrics.Page(len(page.Content), elapsed)
			b.logger().Debug("Page written", "slug", page.Slug, "bytes", len(page.Content))

			paths[i] = page.Path
			sizes[i] = len(page.Content)
			return nil
		})
	}
	err = eg.Wait()
	if err != nil {
		return Result{}, err
	}

	entries := sitemap.Entries(b.BaseURL, paths, b.now())
	doc, err := sitemap.Marshal(entries)
	if err != nil {
		return Result{}, err
	}
	err = b.Sink.WriteSitemap(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	result = Result{Paths: paths, Sitemap: entries}
	for _, size := range sizes {
		result.Bytes += size
	}

	b.logger().Info(fmt.Sprintf("Generated %d programmatic page(s) and updated sitemap.", len(paths)),
		"pages", len(paths),
		"bytes", result.Bytes,
		"duration", time.Since(start))
	return result, nil
}
