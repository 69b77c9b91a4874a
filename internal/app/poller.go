package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/memegen/internal/state"
)

const (
	defaultSyncInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartSync launches a background goroutine that pulls changes other
// processes wrote to the shared database into store. It returns immediately
// with a stop function that cancels the goroutine and waits for it to exit,
// after which the store's backend may be closed. Read failures back off
// exponentially up to maxBackoff.
func StartSync(ctx context.Context, store *state.Store, interval time.Duration, logger *log.Logger) (stop func()) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if syncOnce(ctx, store, logger) {
				failures = 0
			} else {
				failures++
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// syncOnce refreshes store once and reports whether the backend was readable.
func syncOnce(ctx context.Context, store *state.Store, logger *log.Logger) bool {
	changed, err := store.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Printf("state sync failed: %v", err)
		}
		return false
	}
	for _, key := range changed {
		logger.Printf("picked up external change to %s", key)
	}
	return true
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
