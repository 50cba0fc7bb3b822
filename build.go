package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DeedleFake/pagegen/internal/config"
	"github.com/DeedleFake/pagegen/internal/inspect"
	"github.com/DeedleFake/pagegen/internal/metrics"
	"github.com/DeedleFake/pagegen/internal/multierr"
	"github.com/DeedleFake/pagegen/internal/site"
	"github.com/DeedleFake/pagegen/internal/source"
	"github.com/DeedleFake/pagegen/tmpl"
)

// load reads the records and the template named by cfg.
func load(ctx context.Context, cfg *config.Config) ([]tmpl.Context, string, error) {
	records, err := source.LoadRecords(ctx, cfg.Data, source.Options{Table: cfg.Table})
	if err != nil {
		return nil, "", err
	}

	body, err := source.LoadTemplate(cfg.Template)
	if err != nil {
		return nil, "", err
	}

	return records, body, nil
}

func newBuilder(cfg *config.Config, template string, logger *slog.Logger, rec *metrics.Recorder) *site.Builder {
	return &site.Builder{
		Template:       template,
		Prefix:         cfg.Prefix,
		BaseURL:        cfg.BaseURL,
		KeywordsField:  cfg.KeywordsField,
		MarkdownFields: cfg.MarkdownFields,
		Workers:        cfg.Workers,
		Inspect:        cfg.Inspect,
		Sink: site.DirSink{
			Root:    cfg.Root,
			Prefix:  cfg.Prefix,
			Sitemap: cfg.Sitemap,
		},
		Logger:  logger,
		Metrics: rec,
	}
}

func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec *metrics.Recorder) (result site.Result, err error) {
	defer func() {
		merr := rec.WriteTextfile(cfg.MetricsFile)
		if merr != nil {
			logger.Warn("Failed to write metrics", "path", cfg.MetricsFile, "error", merr)
		}
	}()

	start := time.Now()
	records, body, err := load(ctx, cfg)
	if err != nil {
		rec.Build(start, err)
		return site.Result{}, err
	}

	logger.Info("Starting build",
		"data", cfg.Data,
		"template", cfg.Template,
		"records", len(records),
		"root", cfg.Root)

	return newBuilder(cfg, body, logger, rec).Build(ctx, records)
}

// runCheck renders every page in memory and reports every page with
// unrendered template tags. Nothing is written.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	records, body, err := load(ctx, cfg)
	if err != nil {
		return err
	}

	b := newBuilder(cfg, body, logger, nil)
	b.Inspect = false

	me, _ := multierr.WithContext(ctx, cfg.Workers)
	for _, record := range records {
		me.Go(func() error {
			page, err := b.Page(record)
			if err != nil {
				return err
			}

			leftovers, err := inspect.Leftovers(page.Content)
			if err != nil {
				return fmt.Errorf("page %q: %w", page.Slug, err)
			}
			if len(leftovers) > 0 {
				return fmt.Errorf("page %q: unrendered template tags %q", page.Slug, leftovers)
			}
			return nil
		})
	}

	errs := me.Wait()
	for _, err := range errs {
		logger.Error("Check failed", "error", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d page(s) failed the check", len(errs), len(records))
	}

	logger.Info("All pages passed the check", "pages", len(records))
	return nil
}
