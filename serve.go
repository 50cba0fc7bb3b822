package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/DeedleFake/pagegen/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// newServer returns a server for previewing the generated site under
// root. Build metrics are exposed at /metrics.
func newServer(root string, rec *metrics.Recorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(rec.Gatherer(), promhttp.HandlerOpts{})))
	e.StaticFS("/", os.DirFS(root))
	return e
}

// runServe serves e on addr until ctx is cancelled.
func runServe(ctx context.Context, addr string, e *echo.Echo, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("Serving site", "addr", addr)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server")
		return e.Shutdown(ctx)
	}
}
