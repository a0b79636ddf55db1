package runtime

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func NotifyContext(parent context.Context) (context.Context, func()) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Closer is a named resource released on shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// CloseAll releases resources in order, logging failures instead of
// stopping at the first one.
func CloseAll(log *slog.Logger, closers ...Closer) {
	for _, c := range closers {
		if c.Close == nil {
			continue
		}
		if err := c.Close(); err != nil {
			log.Warn("close failed", slog.String("resource", c.Name), slog.String("error", err.Error()))
			continue
		}
		log.Debug("closed", slog.String("resource", c.Name))
	}
}
