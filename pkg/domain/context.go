package domain

import "time"

// BackendStatus is the display form of the backend probe result.
type BackendStatus string

const (
	BackendActive   BackendStatus = "active"
	BackendInactive BackendStatus = "inactive"
)

// StatusFromConnected maps a probe result to its display form.
func StatusFromConnected(connected bool) BackendStatus {
	if connected {
		return BackendActive
	}
	return BackendInactive
}

// NavigationContext is the read-only snapshot handed to renderers.
// It is produced fresh on every read and never mutated in place.
type NavigationContext struct {
	CurrentRoute  string        `json:"current_route"`
	CurrentState  string        `json:"current_state"`
	BackendStatus BackendStatus `json:"backend_status"`

	// Substate is the canonical value of the current substate, empty when none is set.
	Substate string `json:"substate,omitempty"`
	// StatePath lists state names from the root to the current state.
	StatePath []string `json:"state_path,omitempty"`
	// ParentRoute is the back link for the current page.
	ParentRoute string `json:"parent_route,omitempty"`
	Initialized bool   `json:"initialized"`
	// Navigations counts every route recorded by the session, evicted ones included.
	Navigations uint64 `json:"navigations"`
}

// NodeSnapshot is the serialisable form of one State.
type NodeSnapshot struct {
	Kind     Kind   `json:"kind"`
	Substate string `json:"substate,omitempty"`
}

// Snapshot is the serialisable image of one session: the state path from
// the root to the current node, the route history and the initialization flag.
type Snapshot struct {
	SessionID   string         `json:"session_id"`
	Nodes       []NodeSnapshot `json:"nodes"`
	History     []string       `json:"history"`
	Navigations uint64         `json:"navigations,omitempty"`
	Initialized bool           `json:"initialized"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CurrentRoute returns the last recorded route, or "/" for an empty history.
func (s *Snapshot) CurrentRoute() string {
	if len(s.History) == 0 {
		return "/"
	}
	return s.History[len(s.History)-1]
}

// Clone returns a deep copy so stores can isolate callers from their internal data.
func (s *Snapshot) Clone() *Snapshot {
	next := *s
	next.Nodes = append([]NodeSnapshot(nil), s.Nodes...)
	next.History = append([]string(nil), s.History...)
	return &next
}
