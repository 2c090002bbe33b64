package service

import (
	"context"
	"sync"
	"time"
)

// simulateLatency stands in for a network round trip. It returns early
// with the context error if ctx is cancelled first.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// inflight tracks at most one pending submission per key.
type inflight struct {
	mu      sync.Mutex
	pending map[string]bool
}

func (f *inflight) begin(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending == nil {
		f.pending = make(map[string]bool)
	}
	if f.pending[key] {
		return false
	}
	f.pending[key] = true
	return true
}

func (f *inflight) end(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.pending, key)
}

func (f *inflight) busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending[key]
}
