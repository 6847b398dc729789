package peplab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/peplab/internal/logging"
	"github.com/aretw0/peplab/internal/runtime"
	"github.com/aretw0/peplab/pkg/adapters/health"
	"github.com/aretw0/peplab/pkg/adapters/memory"
	"github.com/aretw0/peplab/pkg/catalog"
	"github.com/aretw0/peplab/pkg/domain"
	"github.com/aretw0/peplab/pkg/ports"
	"github.com/aretw0/peplab/pkg/session"
)

// Engine is the high-level entry point for the peplab navigation core.
// It owns the shared backend gate and hands out one orchestrator per session.
// Safe for concurrent use; calls for the same session are serialised.
type Engine struct {
	backend  *runtime.BackendService
	sessions *session.Manager

	checker      ports.HealthChecker
	store        ports.SessionStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	cacheTTL     time.Duration
	historyLimit int
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithHealthChecker injects the backend probe.
func WithHealthChecker(c ports.HealthChecker) Option {
	return func(e *Engine) {
		e.checker = c
	}
}

// WithBackendURL probes GET {url}/health with the given timeout.
func WithBackendURL(url string, timeout time.Duration) Option {
	return func(e *Engine) {
		e.checker = health.NewHTTPChecker(url, health.WithTimeout(timeout))
	}
}

// WithStore sets where session snapshots are kept (default: in memory).
func WithStore(s ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serialises sessions across replicas.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithCacheTTL expires the cached backend status (0 = never).
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.cacheTTL = ttl
	}
}

// WithHistoryLimit bounds each session's route history (0 = unbounded).
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) {
		e.historyLimit = limit
	}
}

// WithLifecycleHooks registers observability hooks. Calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Result is what a session looks like after one engine call.
type Result struct {
	Outcome domain.Outcome           `json:"outcome"`
	Context domain.NavigationContext `json:"context"`
	History []string                 `json:"history"`
	Diff    *domain.ContextDiff      `json:"diff,omitempty"`
	InitErr error                    `json:"-"`
}

// New initializes an Engine. A health checker is required.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		historyLimit: runtime.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.checker == nil {
		return nil, errors.New("a health checker or backend URL is required")
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.backend = runtime.NewBackendService(eng.checker,
		runtime.WithCacheTTL(eng.cacheTTL),
		runtime.WithBackendLogger(eng.logger),
		runtime.WithProbeHooks(eng.hooks),
	)

	sessOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(eng.locker), session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, eng.newOrchestrator, sessOpts...)

	return eng, nil
}

func (e *Engine) newOrchestrator(sessionID string) *runtime.Orchestrator {
	return runtime.NewOrchestrator(e.backend,
		runtime.WithSessionID(sessionID),
		runtime.WithHistoryLimit(e.historyLimit),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger.With("session_id", sessionID)),
		runtime.WithParentRoutes(catalog.ParentRoute),
	)
}

// Navigate applies target to the session, initializing it first if needed.
// Navigation rejections are reported in Result.Outcome; the error is only
// set when the session could not be loaded or saved.
func (e *Engine) Navigate(ctx context.Context, sessionID, target string) (Result, error) {
	var res Result
	err := e.sessions.WithSession(ctx, sessionID, func(ctx context.Context, o *runtime.Orchestrator) error {
		before := o.ApplicationContext(ctx)
		beforeHistory := o.Router().History()

		if !o.Initialized() {
			res.InitErr = o.InitializeApplication(ctx)
		}
		res.Outcome = o.HandleStateChange(ctx, target)

		res.Context = o.ApplicationContext(ctx)
		res.History = o.Router().History()
		res.Diff = domain.Diff(sessionID, &before, &res.Context, beforeHistory, res.History)
		return nil
	})
	return res, err
}

// Initialize runs the startup checks for the session. The returned error
// wraps domain.ErrInitialization when the backend is unavailable.
func (e *Engine) Initialize(ctx context.Context, sessionID string) (Result, error) {
	var res Result
	err := e.sessions.WithSession(ctx, sessionID, func(ctx context.Context, o *runtime.Orchestrator) error {
		before := o.ApplicationContext(ctx)
		beforeHistory := o.Router().History()

		res.InitErr = o.InitializeApplication(ctx)

		res.Context = o.ApplicationContext(ctx)
		res.History = o.Router().History()
		res.Diff = domain.Diff(sessionID, &before, &res.Context, beforeHistory, res.History)
		return res.InitErr
	})
	return res, err
}

// Context returns the current navigation context and history of the session.
func (e *Engine) Context(ctx context.Context, sessionID string) (Result, error) {
	var res Result
	err := e.sessions.WithSession(ctx, sessionID, func(ctx context.Context, o *runtime.Orchestrator) error {
		res.Context = o.ApplicationContext(ctx)
		res.History = o.Router().History()
		return nil
	})
	return res, err
}

// Reset forgets the session entirely.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
	}
	return nil
}

// Probe checks the backend now, bypassing the cache.
func (e *Engine) Probe(ctx context.Context) (bool, error) {
	return e.backend.VerifyConnection(ctx)
}

// Sessions exposes the session manager (listing, inspection).
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Backend exposes the shared backend gate.
func (e *Engine) Backend() *runtime.BackendService {
	return e.backend
}
