package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/peplab/internal/logging"
	"github.com/aretw0/peplab/pkg/domain"
)

// ParentRouteFunc resolves the back link of a route.
type ParentRouteFunc func(route string) string

// Orchestrator drives one session through the page hierarchy.
// It owns its StateManager and Router and shares the BackendService by reference.
// An Orchestrator is not safe for concurrent use; callers serialise per session.
type Orchestrator struct {
	backend *BackendService
	manager *StateManager
	router  *Router

	sessionID   string
	initialized bool
	parentRoute ParentRouteFunc

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time

	// recorded collects the routes navigated during the current request.
	recorded []string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithSessionID tags emitted events with the owning session.
func WithSessionID(id string) Option {
	return func(o *Orchestrator) {
		o.sessionID = id
	}
}

// WithHistoryLimit bounds the route history (0 = unbounded).
func WithHistoryLimit(limit int) Option {
	return func(o *Orchestrator) {
		o.router = NewRouter(WithRouterHistoryLimit(limit))
	}
}

// WithParentRoutes sets the back link resolver used by ApplicationContext.
func WithParentRoutes(fn ParentRouteFunc) Option {
	return func(o *Orchestrator) {
		o.parentRoute = fn
	}
}

// NewOrchestrator creates a session orchestrator bound to a shared backend gate.
func NewOrchestrator(backend *BackendService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend: backend,
		manager: NewStateManager(),
		router:  NewRouter(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.manager.Register(domain.KindInitialization, o.handleInitialization)
	return o
}

// SessionID returns the session this orchestrator belongs to.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Router exposes the route bookkeeping of the session.
func (o *Orchestrator) Router() *Router { return o.router }

// Manager exposes the current-state slot of the session.
func (o *Orchestrator) Manager() *StateManager { return o.manager }

// Backend returns the shared backend gate.
func (o *Orchestrator) Backend() *BackendService { return o.backend }

// Initialized reports whether InitializeApplication has succeeded.
func (o *Orchestrator) Initialized() bool { return o.initialized }

// Reset returns the orchestrator to its freshly constructed condition.
func (o *Orchestrator) Reset() {
	o.manager.Reset()
	o.router.reset()
	o.initialized = false
	o.recorded = nil
}

// InitializeApplication runs the startup checks once.
// On success the session lands on Home at "/". On failure the phase is left
// at failed and the error wraps domain.ErrInitialization; calling again retries.
func (o *Orchestrator) InitializeApplication(ctx context.Context) error {
	if o.initialized {
		return nil
	}

	cur := o.manager.Current()
	if cur == nil || cur.Kind() != domain.KindInitialization || !retryablePhase(cur) {
		cur = domain.NewState(domain.KindInitialization)
		o.setState(ctx, cur)
	}

	phases := newPhaseMachine(cur, o.emitPhase)
	if err := phases.fire(ctx, eventCheck); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInitialization, err)
	}

	handleErr := o.manager.Handle(ctx)
	connected := handleErr == nil && o.backend.IsConnected(ctx)

	if !connected {
		if err := phases.fire(ctx, eventFail); err != nil {
			o.logger.Error("failed to record initialization failure", "err", err)
		}
		cause := handleErr
		if cause == nil {
			cause = errors.New("backend reported unhealthy")
		}
		o.logger.Error("application initialization failed", "session_id", o.sessionID, "err", cause)
		return fmt.Errorf("%w: %w", domain.ErrInitialization, cause)
	}

	if err := phases.fire(ctx, eventComplete); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInitialization, err)
	}

	o.setState(ctx, domain.NewState(domain.KindHome))
	o.navigate("/")
	o.initialized = true
	o.logger.Info("application initialized", "session_id", o.sessionID)
	return nil
}

// handleInitialization is the StateManager handler for Initialization states.
func (o *Orchestrator) handleInitialization(ctx context.Context, _ *domain.State) error {
	_, err := o.backend.VerifyConnection(ctx)
	return err
}

func retryablePhase(s *domain.State) bool {
	v, err := s.Substate()
	if err != nil {
		return true
	}
	return v == domain.PhaseStart || v == domain.PhaseFailed
}

// HandleStateChange applies a navigation target such as "dashboard", "design",
// "mcmc" or "modeling/docking". Every call yields an Outcome; nothing is returned
// as an error and a rejected target leaves the session untouched.
func (o *Orchestrator) HandleStateChange(ctx context.Context, target string) domain.Outcome {
	out := o.handleStateChange(ctx, target)
	o.recorded = nil

	switch out.Status {
	case domain.OutcomeApplied:
		o.logger.Debug("navigation applied", "session_id", o.sessionID, "target", target, "routes", out.Routes)
	default:
		o.logger.Debug("navigation not applied", "session_id", o.sessionID, "target", target,
			"status", out.Status, "reason", out.ReasonText())
	}

	if o.hooks.OnOutcome != nil {
		o.hooks.OnOutcome(ctx, &domain.OutcomeEvent{
			EventBase: o.eventBase(domain.EventOutcome),
			Outcome:   out,
		})
	}
	return out
}

func (o *Orchestrator) handleStateChange(ctx context.Context, target string) domain.Outcome {
	out := domain.Outcome{Target: target}

	if !o.backend.IsConnected(ctx) {
		out.Status = domain.OutcomeBlocked
		out.Reason = domain.ErrBackendConnection
		return out
	}

	key := strings.ToLower(target)
	o.recorded = o.recorded[:0]

	var err error
	switch {
	case key == domain.KindHome.Name():
		o.setState(ctx, domain.NewState(domain.KindHome))
		o.navigateCurrent()
	case key == domain.KindDashboard.Name():
		o.setState(ctx, domain.NewState(domain.KindDashboard))
		o.navigateCurrent()
	default:
		if k, ok := domain.KindByName(key); ok && k.IsWorkflow() {
			err = o.enterHub(ctx, k)
			break
		}
		var method domain.Substate
		method, err = resolveMethod(key)
		if err == nil {
			err = o.selectMethod(ctx, method)
		}
	}

	if err != nil {
		out.Status = domain.OutcomeRejected
		out.Reason = err
		return out
	}
	out.Status = domain.OutcomeApplied
	out.Routes = append([]string(nil), o.recorded...)
	return out
}

// resolveMethod maps a lower-cased target to a workflow method.
// Bare values are matched against design methods first, then analysis methods.
// A "hub/method" target addresses any workflow explicitly.
func resolveMethod(key string) (domain.Substate, error) {
	if hub, method, ok := strings.Cut(key, "/"); ok {
		k, found := domain.KindByName(hub)
		if !found || !k.IsWorkflow() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTarget, key)
		}
		v, err := domain.ParseSubstate(k, method)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownTarget, err)
		}
		return v, nil
	}

	for _, k := range []domain.Kind{domain.KindDesign, domain.KindAnalysis} {
		if v, err := domain.ParseSubstate(k, key); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTarget, key)
}

// enterHub moves to a fresh workflow hub under the Dashboard.
func (o *Orchestrator) enterHub(ctx context.Context, k domain.Kind) error {
	o.ensureDashboard(ctx)
	if err := o.descend(ctx, domain.NewState(k)); err != nil {
		return err
	}
	o.navigateCurrent()
	return nil
}

// selectMethod ensures the method's hub is current, then sets the method.
func (o *Orchestrator) selectMethod(ctx context.Context, method domain.Substate) error {
	// The hub is validated up front so a bad value never moves the session.
	if err := domain.NewState(method.Kind()).SetSubstate(method); err != nil {
		return err
	}

	if cur := o.manager.Current(); cur == nil || cur.Kind() != method.Kind() {
		if err := o.enterHub(ctx, method.Kind()); err != nil {
			return err
		}
	}

	cur := o.manager.Current()
	if err := cur.SetSubstate(method); err != nil {
		return err
	}
	o.navigateCurrent()
	return nil
}

// ensureDashboard replaces the current state with a fresh Dashboard unless one is already current.
func (o *Orchestrator) ensureDashboard(ctx context.Context) {
	if cur := o.manager.Current(); cur != nil && cur.Kind() == domain.KindDashboard {
		return
	}
	o.setState(ctx, domain.NewState(domain.KindDashboard))
	o.navigateCurrent()
}

// ApplicationContext returns a fresh view of the session for renderers.
// An empty slot is healed with a new Initialization state; backend status is read live.
func (o *Orchestrator) ApplicationContext(ctx context.Context) domain.NavigationContext {
	cur := o.manager.Current()
	if cur == nil {
		cur = domain.NewState(domain.KindInitialization)
		o.manager.SetState(cur)
	}

	nc := domain.NavigationContext{
		CurrentRoute:  o.router.CurrentRoute(),
		CurrentState:  cur.Name(),
		BackendStatus: domain.StatusFromConnected(o.backend.IsConnected(ctx)),
		StatePath:     o.manager.CurrentPath(),
		Initialized:   o.initialized,
		Navigations:   o.router.Navigations(),
	}
	if v, err := cur.Substate(); err == nil {
		nc.Substate = v.String()
	}
	if o.parentRoute != nil {
		nc.ParentRoute = o.parentRoute(nc.CurrentRoute)
	}
	return nc
}

// Snapshot captures the session so it can be stored and restored elsewhere.
func (o *Orchestrator) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		SessionID:   o.sessionID,
		History:     o.router.History(),
		Navigations: o.router.Navigations(),
		Initialized: o.initialized,
		UpdatedAt:   o.now(),
	}
	for _, s := range o.manager.Lineage() {
		node := domain.NodeSnapshot{Kind: s.Kind()}
		if v, err := s.Substate(); err == nil {
			node.Substate = v.String()
		}
		snap.Nodes = append(snap.Nodes, node)
	}
	return snap
}

// Restore replaces the session with the contents of snap.
func (o *Orchestrator) Restore(snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}

	states := make([]*domain.State, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		if !n.Kind.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownKind, n.Kind)
		}
		s := domain.NewState(n.Kind)
		if n.Substate != "" {
			v, err := domain.ParseSubstate(n.Kind, n.Substate)
			if err != nil {
				return err
			}
			if err := s.SetSubstate(v); err != nil {
				return err
			}
		}
		states = append(states, s)
	}

	o.manager.Reset()
	for _, s := range states {
		if err := o.manager.Descend(s); err != nil {
			return err
		}
	}
	o.router.restore(snap.History, snap.Navigations)
	o.initialized = snap.Initialized
	if snap.SessionID != "" {
		o.sessionID = snap.SessionID
	}
	return nil
}

func (o *Orchestrator) setState(ctx context.Context, s *domain.State) {
	from := o.manager.Current()
	o.manager.SetState(s)
	o.emitTransition(ctx, from, s)
}

func (o *Orchestrator) descend(ctx context.Context, s *domain.State) error {
	from := o.manager.Current()
	if err := o.manager.Descend(s); err != nil {
		return err
	}
	o.emitTransition(ctx, from, s)
	return nil
}

func (o *Orchestrator) navigateCurrent() {
	if cur := o.manager.Current(); cur != nil {
		o.navigate(cur.Route())
	}
}

func (o *Orchestrator) navigate(route string) {
	o.router.NavigateTo(route)
	o.recorded = append(o.recorded, route)
}

func (o *Orchestrator) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: o.now(), Type: t, SessionID: o.sessionID}
}

func (o *Orchestrator) emitTransition(ctx context.Context, from, to *domain.State) {
	if o.hooks.OnTransition == nil {
		return
	}
	ev := &domain.TransitionEvent{
		EventBase: o.eventBase(domain.EventTransition),
		To:        to.Name(),
		Route:     to.Route(),
	}
	if from != nil {
		ev.From = from.Name()
	}
	o.hooks.OnTransition(ctx, ev)
}

func (o *Orchestrator) emitPhase(ctx context.Context, from, to domain.InitializationPhase) {
	o.logger.Debug("initialization phase", "session_id", o.sessionID, "from", from, "to", to)
	if o.hooks.OnPhase == nil {
		return
	}
	o.hooks.OnPhase(ctx, &domain.PhaseEvent{
		EventBase: o.eventBase(domain.EventPhase),
		From:      from,
		To:        to,
	})
}
