package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inconshreveable/log15"
)

// InterruptContext returns a context canceled on SIGINT or SIGTERM. Repeated
// interrupts after the first are counted down and the process exits on the last.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log15.Info("Got interrupt, shutting down...")
		cancel()
		for i := 3; i > 0; i-- {
			<-c
			if i > 1 {
				log15.Warn("Already shutting down, interrupt more to exit.", "times", i-1)
			}
		}
		os.Exit(130)
	}()
	return ctx, cancel
}
