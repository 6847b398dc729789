package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/peplab/internal/runtime"
	"github.com/aretw0/peplab/internal/testutils"
	"github.com/aretw0/peplab/pkg/domain"
)

func newOrchestrator(t *testing.T, up bool, opts ...runtime.Option) (*runtime.Orchestrator, *testutils.Health) {
	t.Helper()
	h := testutils.NewHealth(up)
	return runtime.NewOrchestrator(runtime.NewBackendService(h), opts...), h
}

func TestHandleStateChange_BlockedWhenDisconnected(t *testing.T) {
	ctx := context.Background()
	targets := []string{"home", "dashboard", "design", "analysis", "modeling", "optimization",
		"combinatoric", "data_analysis", "modeling/docking", "bogus"}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			o, _ := newOrchestrator(t, false)
			out := o.HandleStateChange(ctx, target)

			assert.Equal(t, domain.OutcomeBlocked, out.Status)
			assert.ErrorIs(t, out.Reason, domain.ErrBackendConnection)
			assert.Equal(t, []string{"/"}, o.Router().History())
			assert.Nil(t, o.Manager().Current())
		})
	}
}

func TestHandleStateChange_DesignFromInitialization(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)

	out := o.HandleStateChange(ctx, "design")

	assert.True(t, out.Applied())
	assert.Equal(t, []string{"/dashboard", "/design"}, out.Routes)
	assert.Equal(t, []string{"/", "/dashboard", "/design"}, o.Router().History())

	nc := o.ApplicationContext(ctx)
	assert.Equal(t, "design", nc.CurrentState)
	assert.Equal(t, []string{"dashboard", "design"}, nc.StatePath)
	assert.Empty(t, nc.Substate)
}

func TestHandleStateChange_HubFromDashboard(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.True(t, o.HandleStateChange(ctx, "dashboard").Applied())

	out := o.HandleStateChange(ctx, "Design")

	assert.Equal(t, []string{"/design"}, out.Routes)
	assert.Equal(t, []string{"/", "/dashboard", "/design"}, o.Router().History())
}

func TestHandleStateChange_MethodFromDashboard(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.True(t, o.HandleStateChange(ctx, "dashboard").Applied())

	out := o.HandleStateChange(ctx, "mcmc")

	assert.Equal(t, []string{"/design", "/design/mcmc"}, out.Routes)
	assert.Equal(t, "/design/mcmc", o.Router().CurrentRoute())
}

func TestHandleStateChange_MethodOnCurrentHub(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.True(t, o.HandleStateChange(ctx, "design").Applied())

	out := o.HandleStateChange(ctx, "combinatoric")
	assert.Equal(t, []string{"/design/combinatoric"}, out.Routes)

	cur := o.Manager().Current()
	v, err := cur.Substate()
	require.NoError(t, err)
	assert.Equal(t, domain.DesignCombinatoric, v)

	// Switching method stays on the same hub node.
	out = o.HandleStateChange(ctx, "fractal")
	assert.Equal(t, []string{"/design/fractal"}, out.Routes)
	assert.Equal(t, []string{"dashboard", "design"}, o.Manager().CurrentPath())
}

func TestHandleStateChange_HubTargetReentersThroughDashboard(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.True(t, o.HandleStateChange(ctx, "genetic").Applied())

	out := o.HandleStateChange(ctx, "design")
	assert.Equal(t, []string{"/dashboard", "/design"}, out.Routes)
	assert.False(t, o.Manager().Current().HasSubstate(), "a fresh hub carries no method")
}

func TestHandleStateChange_SharedValuesPreferDesign(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		target string
		route  string
	}{
		{"genetic", "/design/genetic"},
		{"mcmc", "/design/mcmc"},
		{"machine_learning", "/analysis/machine_learning"},
		{"data_analysis", "/analysis/data_analysis"},
		{"optimization/genetic", "/optimization/genetic"},
		{"modeling/machine_learning", "/modeling/machine_learning"},
		{"ANALYSIS/Simulation", "/analysis/simulation"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			o, _ := newOrchestrator(t, true)
			out := o.HandleStateChange(ctx, tt.target)
			require.True(t, out.Applied(), out.ReasonText())
			assert.Equal(t, tt.route, o.Router().CurrentRoute())
		})
	}
}

func TestHandleStateChange_Hubs(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		target string
		routes []string
		state  string
	}{
		{"home", []string{"/"}, "home"},
		{"dashboard", []string{"/dashboard"}, "dashboard"},
		{"analysis", []string{"/dashboard", "/analysis"}, "analysis"},
		{"modeling", []string{"/dashboard", "/modeling"}, "modeling"},
		{"optimization", []string{"/dashboard", "/optimization"}, "optimization"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			o, _ := newOrchestrator(t, true)
			out := o.HandleStateChange(ctx, tt.target)
			assert.Equal(t, tt.routes, out.Routes)
			assert.Equal(t, tt.state, o.ApplicationContext(ctx).CurrentState)
		})
	}
}

func TestHandleStateChange_RejectsUnknownTargets(t *testing.T) {
	ctx := context.Background()
	targets := []string{"", "bogus", "initialization", "design/", "design/docking", "settings/mcmc", " design"}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			o, _ := newOrchestrator(t, true)
			require.True(t, o.HandleStateChange(ctx, "analysis").Applied())
			before := o.Router().History()

			out := o.HandleStateChange(ctx, target)

			assert.Equal(t, domain.OutcomeRejected, out.Status)
			assert.ErrorIs(t, out.Reason, domain.ErrUnknownTarget)
			assert.Empty(t, out.Routes)
			assert.Equal(t, before, o.Router().History())
			assert.Equal(t, domain.KindAnalysis, o.Manager().Current().Kind())
		})
	}
}

func TestHandleStateChange_HistoryLength(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.True(t, o.HandleStateChange(ctx, "design").Applied())

	for i := 0; i < 20; i++ {
		o.HandleStateChange(ctx, "random")
	}
	// "/" + "/dashboard" + "/design" + 20 method selections
	assert.Len(t, o.Router().History(), 23)
}

func TestHandleStateChange_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true, runtime.WithHistoryLimit(4))

	for i := 0; i < 10; i++ {
		o.HandleStateChange(ctx, "dashboard")
	}
	assert.Len(t, o.Router().History(), 4)
}

func TestApplicationContext_NeverInitialized(t *testing.T) {
	ctx := context.Background()

	o, _ := newOrchestrator(t, false)
	nc := o.ApplicationContext(ctx)
	assert.Equal(t, "initialization", nc.CurrentState)
	assert.Equal(t, "/", nc.CurrentRoute)
	assert.Equal(t, domain.BackendInactive, nc.BackendStatus)
	assert.Equal(t, "start", nc.Substate)
	assert.False(t, nc.Initialized)

	o2, _ := newOrchestrator(t, true)
	assert.Equal(t, domain.BackendActive, o2.ApplicationContext(ctx).BackendStatus)
}

func TestApplicationContext_ParentRoute(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true, runtime.WithParentRoutes(func(route string) string {
		return "back:" + route
	}))
	o.HandleStateChange(ctx, "analysis")
	assert.Equal(t, "back:/analysis", o.ApplicationContext(ctx).ParentRoute)
}

func TestInitializeApplication_Success(t *testing.T) {
	ctx := context.Background()
	var phases []domain.InitializationPhase
	o, h := newOrchestrator(t, true, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) { phases = append(phases, e.To) },
	}))

	require.NoError(t, o.InitializeApplication(ctx))
	assert.True(t, o.Initialized())
	assert.Equal(t, "home", o.ApplicationContext(ctx).CurrentState)
	assert.Equal(t, []string{"/", "/"}, o.Router().History())
	assert.Equal(t, []domain.InitializationPhase{domain.PhaseChecking, domain.PhaseComplete}, phases)

	// Idempotent once successful.
	require.NoError(t, o.InitializeApplication(ctx))
	assert.Equal(t, 1, h.Calls())
	assert.Len(t, o.Router().History(), 2)
}

func TestInitializeApplication_FailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	o, h := newOrchestrator(t, false)

	err := o.InitializeApplication(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInitialization)
	assert.False(t, o.Initialized())

	nc := o.ApplicationContext(ctx)
	assert.Equal(t, "initialization", nc.CurrentState)
	assert.Equal(t, "failed", nc.Substate)

	h.Set(true)
	o.Backend().Invalidate()
	require.NoError(t, o.InitializeApplication(ctx))
	assert.True(t, o.Initialized())
}

func TestInitializeApplication_NetworkError(t *testing.T) {
	ctx := context.Background()
	o, h := newOrchestrator(t, true)
	h.Fail(errors.New("dial tcp: connection refused"))

	err := o.InitializeApplication(ctx)
	assert.ErrorIs(t, err, domain.ErrInitialization)
	assert.ErrorIs(t, err, domain.ErrBackendConnection)
	assert.Equal(t, "failed", o.ApplicationContext(ctx).Substate)
}

func TestOrchestrator_Hooks(t *testing.T) {
	ctx := context.Background()
	var transitions []string
	var outcomes []domain.OutcomeStatus
	o, _ := newOrchestrator(t, true,
		runtime.WithSessionID("s1"),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
				assert.Equal(t, "s1", e.SessionID)
				transitions = append(transitions, e.From+">"+e.To)
			},
			OnOutcome: func(_ context.Context, e *domain.OutcomeEvent) {
				outcomes = append(outcomes, e.Status)
			},
		}))

	o.HandleStateChange(ctx, "design")
	o.HandleStateChange(ctx, "nope")

	assert.Equal(t, []string{">dashboard", "dashboard>design"}, transitions)
	assert.Equal(t, []domain.OutcomeStatus{domain.OutcomeApplied, domain.OutcomeRejected}, outcomes)
}

func TestOrchestrator_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	src, _ := newOrchestrator(t, true, runtime.WithSessionID("abc"))
	require.NoError(t, src.InitializeApplication(ctx))
	require.True(t, src.HandleStateChange(ctx, "modeling/docking").Applied())

	snap := src.Snapshot()
	assert.Equal(t, "abc", snap.SessionID)
	assert.Equal(t, []domain.NodeSnapshot{
		{Kind: domain.KindDashboard, Substate: "overview"},
		{Kind: domain.KindModeling, Substate: "docking"},
	}, snap.Nodes)

	dst, _ := newOrchestrator(t, true)
	require.NoError(t, dst.Restore(snap))
	assert.Equal(t, src.ApplicationContext(ctx), dst.ApplicationContext(ctx))
	assert.Equal(t, src.Router().History(), dst.Router().History())
	assert.True(t, dst.Initialized())
	assert.Equal(t, "abc", dst.SessionID())
}

func TestOrchestrator_RestoreRejectsBadSnapshot(t *testing.T) {
	o, _ := newOrchestrator(t, true)
	err := o.Restore(&domain.Snapshot{Nodes: []domain.NodeSnapshot{{Kind: domain.KindDesign, Substate: "docking"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidSubstate)

	err = o.Restore(&domain.Snapshot{Nodes: []domain.NodeSnapshot{{Kind: "BogusState"}}})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestOrchestrator_Reset(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, true)
	require.NoError(t, o.InitializeApplication(ctx))
	o.HandleStateChange(ctx, "design")

	o.Reset()

	assert.False(t, o.Initialized())
	assert.Nil(t, o.Manager().Current())
	assert.Equal(t, []string{"/"}, o.Router().History())
}
