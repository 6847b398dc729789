package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/peplab/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "state_transition",
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
				"route", e.Route,
			)
		},
		OnPhase: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.InfoContext(ctx, "initialization_phase",
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
			)
		},
		OnProbe: func(ctx context.Context, e *domain.ProbeEvent) {
			attrs := []any{"connected", e.Connected, "duration", e.Duration}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.DebugContext(ctx, "backend_probe", attrs...)
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			logger.InfoContext(ctx, "navigation",
				"session_id", e.SessionID,
				"target", e.Target,
				"status", e.Status,
				"routes", e.Routes,
			)
		},
	}
}
