package domain

import (
	"fmt"
	"strings"
)

// State represents one workflow page a session can be on.
// The Substate, when set, always belongs to the closed set of the State's Kind.
type State struct {
	kind     Kind
	substate Substate
}

// NewState creates a fresh State of kind k with its default substate, if any.
// Initialization starts at PhaseStart, Home at HomeMain and Dashboard at DashboardOverview.
func NewState(k Kind) *State {
	s := &State{kind: k}
	switch k {
	case KindInitialization:
		s.substate = PhaseStart
	case KindHome:
		s.substate = HomeMain
	case KindDashboard:
		s.substate = DashboardOverview
	}
	return s
}

// Kind returns the page variant.
func (s *State) Kind() Kind {
	return s.kind
}

// Name returns the display name of the state ("design").
func (s *State) Name() string {
	return s.kind.Name()
}

// HasSubstate reports whether a substate has been assigned.
func (s *State) HasSubstate() bool {
	return s.substate != nil
}

// Substate returns the assigned substate or ErrNoSubstate.
func (s *State) Substate() (Substate, error) {
	if s.substate == nil {
		return nil, ErrNoSubstate
	}
	return s.substate, nil
}

// SetSubstate assigns v after checking it belongs to the closed set of the State's Kind.
// On failure the previous substate is kept.
func (s *State) SetSubstate(v Substate) error {
	if v == nil || v.Kind() != s.kind || !v.Valid() {
		return fmt.Errorf("%w: %v for %s", ErrInvalidSubstate, v, s.kind)
	}
	s.substate = v
	return nil
}

// Route returns the path for this page: /{hub}[/{substate}].
// Home and Dashboard collapse their default substate to the bare hub route.
func (s *State) Route() string {
	switch s.kind {
	case KindInitialization:
		return "/"
	case KindHome:
		if s.substate != nil && s.substate != HomeMain {
			return "/" + s.substate.String()
		}
		return "/"
	case KindDashboard:
		if s.substate != nil && s.substate != DashboardOverview {
			return "/dashboard/" + s.substate.String()
		}
		return "/dashboard"
	}

	base := s.kind.BaseRoute()
	if s.substate != nil {
		return base + "/" + s.substate.String()
	}
	return base
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	next := *s
	return &next
}

func (s *State) String() string {
	label := "none"
	if s.substate != nil {
		label = s.substate.String()
	}
	return fmt.Sprintf("%s State: %s", titleCase(s.kind.Name()), label)
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
