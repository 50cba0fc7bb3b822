package cli

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by signal")
	}
}

func TestSignalContextStop(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), syscall.SIGUSR2)
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
