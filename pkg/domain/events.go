package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventPhase      EventType = "phase"
	EventProbe      EventType = "probe"
	EventOutcome    EventType = "outcome"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TransitionEvent is emitted whenever the current state is replaced or descended into.
type TransitionEvent struct {
	EventBase
	From  string `json:"from"`
	To    string `json:"to"`
	Route string `json:"route"`
}

// PhaseEvent is emitted when the initialization phase changes.
type PhaseEvent struct {
	EventBase
	From InitializationPhase `json:"from"`
	To   InitializationPhase `json:"to"`
}

// ProbeEvent is emitted after each backend health probe.
type ProbeEvent struct {
	EventBase
	Connected bool          `json:"connected"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// OutcomeEvent is emitted once per navigation request.
type OutcomeEvent struct {
	EventBase
	Outcome
}

// LifecycleHooks defines callbacks for navigation observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnPhase      func(context.Context, *PhaseEvent)
	OnProbe      func(context.Context, *ProbeEvent)
	OnOutcome    func(context.Context, *OutcomeEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnPhase:      chain(h.OnPhase, other.OnPhase),
		OnProbe:      chain(h.OnProbe, other.OnProbe),
		OnOutcome:    chain(h.OnOutcome, other.OnOutcome),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
