// Package cli holds helpers shared by the generator's commands.
package cli

import (
	"context"
	"os"
	"os/signal"
)

// SignalContext returns a context that is cancelled when any of
// signals arrives or when the returned stop function is called,
// whichever happens first. The first signal is consumed; a second one
// gets the default behavior.
func SignalContext(ctx context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		defer signal.Stop(c)

		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
