package runtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalContext is cancelled on SIGINT or SIGTERM. A second signal is not
// caught once stop has run, so it kills the process.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), shutdownSignals...)
}

// ShutdownContext bounds cleanup that runs after the signal context is done.
func ShutdownContext(grace time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), grace)
}
