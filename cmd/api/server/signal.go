package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context cancelled on SIGINT or SIGTERM. The returned
// stop function releases the signal handlers; a second signal after stop
// terminates the process with the default behavior.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
