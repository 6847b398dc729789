package runtime

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/aretw0/peplab/pkg/domain"
)

const (
	eventCheck    = "check"
	eventComplete = "complete"
	eventFail     = "fail"
)

// phaseMachine drives the substate of an Initialization state through
// start -> checking -> {complete | failed}. A failed run may be checked again.
type phaseMachine struct {
	state *domain.State
	fsm   *fsm.FSM
}

func newPhaseMachine(s *domain.State, onChange func(ctx context.Context, from, to domain.InitializationPhase)) *phaseMachine {
	initial := domain.PhaseStart
	if cur, err := s.Substate(); err == nil {
		if p, ok := cur.(domain.InitializationPhase); ok {
			initial = p
		}
	}

	pm := &phaseMachine{state: s}
	pm.fsm = fsm.NewFSM(
		initial.String(),
		fsm.Events{
			{Name: eventCheck, Src: []string{domain.PhaseStart.String(), domain.PhaseFailed.String()}, Dst: domain.PhaseChecking.String()},
			{Name: eventComplete, Src: []string{domain.PhaseChecking.String()}, Dst: domain.PhaseComplete.String()},
			{Name: eventFail, Src: []string{domain.PhaseChecking.String()}, Dst: domain.PhaseFailed.String()},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				to := domain.InitializationPhase(e.Dst)
				// Every fsm state is a member of the phase set.
				_ = s.SetSubstate(to)
				if onChange != nil {
					onChange(ctx, domain.InitializationPhase(e.Src), to)
				}
			},
		},
	)
	return pm
}

// fire runs a phase event and reports an invalid transition as an error.
func (pm *phaseMachine) fire(ctx context.Context, event string) error {
	if err := pm.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("initialization phase %s -> %s: %w", pm.fsm.Current(), event, err)
	}
	return nil
}

func (pm *phaseMachine) current() domain.InitializationPhase {
	return domain.InitializationPhase(pm.fsm.Current())
}
