package common

import (
	"sync"
	"time"

	"github.com/MichaelAJay/go-logger"
)

// CleanupOptions defines options for periodic sweeps
type CleanupOptions struct {
	Interval time.Duration // time between sweeps; 0 disables the loop
	Logger   logger.Logger
}

// StartCleanup runs sweep every opts.Interval until the returned stop
// function is called. A panicking sweep is logged and the loop keeps going.
// Calling stop more than once is safe.
func StartCleanup(opts CleanupOptions, sweep func(now time.Time) int) (stop func()) {
	if opts.Interval <= 0 || sweep == nil {
		return func() {}
	}

	done := make(chan struct{})
	ticker := time.NewTicker(opts.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				runSweep(opts.Logger, sweep, now)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func runSweep(log logger.Logger, sweep func(time.Time) int, now time.Time) {
	defer func() {
		if r := recover(); r != nil && log != nil {
			log.Error("Cleanup sweep panicked", logger.Field{Key: "panic", Value: r})
		}
	}()
	if removed := sweep(now); removed > 0 && log != nil {
		log.Debug("Expired entries removed", logger.Field{Key: "count", Value: removed})
	}
}

// ExecuteHook runs a user-supplied hook in its own goroutine. Panics in the
// hook are recovered and logged so they never reach the caller.
func ExecuteHook(log logger.Logger, hook func()) {
	if hook == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil && log != nil {
				log.Error("Hook panicked", logger.Field{Key: "panic", Value: r})
			}
		}()
		hook()
	}()
}
