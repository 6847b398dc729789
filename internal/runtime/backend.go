package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/peplab/internal/logging"
	"github.com/aretw0/peplab/pkg/domain"
	"github.com/aretw0/peplab/pkg/ports"
)

// BackendService gates navigation on the health of the backend API.
// The last probe result is cached and shared by every session, so it is safe
// for concurrent use.
type BackendService struct {
	checker ports.HealthChecker

	mu        sync.Mutex
	cached    bool
	known     bool
	checkedAt time.Time
	startedAt time.Time // start of the check that produced cached

	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// BackendOption configures a BackendService.
type BackendOption func(*BackendService)

// WithCacheTTL expires the cached probe result after ttl. Zero never expires it.
func WithCacheTTL(ttl time.Duration) BackendOption {
	return func(b *BackendService) {
		b.ttl = ttl
	}
}

// WithBackendLogger sets the logger used for probe results.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *BackendService) {
		b.logger = logger
	}
}

// WithProbeHooks registers callbacks fired after every probe.
func WithProbeHooks(hooks domain.LifecycleHooks) BackendOption {
	return func(b *BackendService) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithClock replaces time.Now, mostly for expiring the cache in tests.
func WithClock(now func() time.Time) BackendOption {
	return func(b *BackendService) {
		b.now = now
	}
}

// NewBackendService creates a gate over checker.
func NewBackendService(checker ports.HealthChecker, opts ...BackendOption) *BackendService {
	b := &BackendService{
		checker: checker,
		now:     time.Now,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// VerifyConnection probes the backend once and caches the result.
// A transport failure caches "disconnected" and returns a *domain.BackendConnectionError.
func (b *BackendService) VerifyConnection(ctx context.Context) (bool, error) {
	start := b.now()
	ok, err := b.checker.Check(ctx)
	elapsed := b.now().Sub(start)

	if err != nil {
		ok = false
		err = &domain.BackendConnectionError{Message: "failed to reach backend", Err: err}
	}

	b.mu.Lock()
	// A check that started before the cached one is stale.
	if !b.known || !start.Before(b.startedAt) {
		b.cached = ok
		b.known = true
		b.checkedAt = b.now()
		b.startedAt = start
	}
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("backend probe failed", "err", err, "duration", elapsed)
	} else {
		b.logger.Debug("backend probe", "connected", ok, "duration", elapsed)
	}

	if b.hooks.OnProbe != nil {
		b.hooks.OnProbe(ctx, &domain.ProbeEvent{
			EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventProbe},
			Connected: ok,
			Duration:  elapsed,
			Err:       err,
		})
	}
	return ok, err
}

// IsConnected returns the cached result while it is fresh and probes otherwise.
// Probe errors resolve to false.
func (b *BackendService) IsConnected(ctx context.Context) bool {
	b.mu.Lock()
	if b.known && (b.ttl <= 0 || b.now().Sub(b.checkedAt) < b.ttl) {
		ok := b.cached
		b.mu.Unlock()
		return ok
	}
	b.mu.Unlock()

	ok, _ := b.VerifyConnection(ctx)
	return ok
}

// Invalidate drops the cached result so the next IsConnected probes again.
func (b *BackendService) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.known = false
	b.checkedAt = time.Time{}
}

// LastChecked returns when the cached result was recorded and whether one exists.
func (b *BackendService) LastChecked() (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkedAt, b.known
}
