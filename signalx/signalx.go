// Package signalx ties OS signals to context cancellation for
// interactive sessions.
package signalx

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Shutdown returns a context cancelled when any of the given signals
// arrives, defaulting to [os.Interrupt] and SIGTERM when none are named.
// A second signal exits the process immediately with a non-zero code,
// for sessions that hang during teardown. The returned stop function
// releases the signal registration and cancels the context; callers
// should defer it.
func Shutdown(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, signals...)
	quit := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(quit)
			cancel()
		})
	}
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case <-sigs:
			os.Exit(1)
		case <-quit:
		}
	}()
	return ctx, stop
}
