package main

import (
	"context"
	"log/slog"

	"github.com/DeedleFake/pagegen/internal/config"
	"github.com/DeedleFake/pagegen/internal/metrics"
	"github.com/DeedleFake/pagegen/internal/watch"
	"golang.org/x/sync/errgroup"
)

// runWatch builds once and then rebuilds whenever the data, template
// or configuration file changes. A rebuild reloads the configuration,
// so edits to it take effect, but the set of watched files is fixed
// at start.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec *metrics.Recorder, serve bool) error {
	_, err := runBuild(ctx, cfg, logger, rec)
	if err != nil {
		logger.Error("Initial build failed", "error", err)
	}

	w := &watch.Watcher{
		Files:  []string{cfg.Data, cfg.Template, CLI.Config},
		Logger: logger,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return w.Run(ctx, func(ctx context.Context) error {
			next, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = runBuild(ctx, next, logger, rec)
			return err
		})
	})
	if serve {
		eg.Go(func() error {
			return runServe(ctx, cfg.Addr, newServer(cfg.Root, rec), logger)
		})
	}
	return eg.Wait()
}
