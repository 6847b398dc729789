package testutils

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/aretw0/peplab/pkg/ports"
)

// Health is a scripted ports.HealthChecker. It answers with its current
// status and counts every probe so tests can assert caching behaviour.
type Health struct {
	mu    sync.Mutex
	up    bool
	err   error
	calls atomic.Int64
}

var _ ports.HealthChecker = (*Health)(nil)

// NewHealth returns a checker reporting up.
func NewHealth(up bool) *Health {
	return &Health{up: up}
}

// Check implements ports.HealthChecker.
func (h *Health) Check(ctx context.Context) (bool, error) {
	h.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return false, h.err
	}
	return h.up, nil
}

// Set changes the reported status and clears any scripted error.
func (h *Health) Set(up bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.up = up
	h.err = nil
}

// Fail makes every following probe return err.
func (h *Health) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Calls returns how many probes were made.
func (h *Health) Calls() int {
	return int(h.calls.Load())
}
