package domain

import "slices"

// ContextDiff represents the changes between two navigation contexts.
// It is designed to be serialized to JSON for partial updates on the client.
type ContextDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentRoute  *string        `json:"current_route,omitempty"`
	CurrentState  *string        `json:"current_state,omitempty"`
	Substate      *string        `json:"substate,omitempty"`
	BackendStatus *BackendStatus `json:"backend_status,omitempty"`
	Initialized   *bool          `json:"initialized,omitempty"`

	// HistoryParams contains routes appended since the old context was taken.
	HistoryParams *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the route history.
type HistoryDelta struct {
	Appended []string `json:"appended"`
}

// Diff calculates the difference between two contexts and their route histories.
// If old is nil, it returns a diff representing the entire new context (initial load).
// It returns nil when nothing changed.
func Diff(sessionID string, old, new *NavigationContext, oldHistory, newHistory []string) *ContextDiff {
	if new == nil {
		return nil
	}

	diff := &ContextDiff{SessionID: sessionID}

	if old == nil || old.CurrentRoute != new.CurrentRoute {
		diff.CurrentRoute = &new.CurrentRoute
	}
	if old == nil || old.CurrentState != new.CurrentState {
		diff.CurrentState = &new.CurrentState
	}
	if old == nil || old.Substate != new.Substate {
		diff.Substate = &new.Substate
	}
	if old == nil || old.BackendStatus != new.BackendStatus {
		diff.BackendStatus = &new.BackendStatus
	}
	if old == nil || old.Initialized != new.Initialized {
		diff.Initialized = &new.Initialized
	}

	if old != nil && new.Navigations > 0 && new.Navigations >= old.Navigations {
		diff.HistoryParams = HistorySince(newHistory, new.Navigations-old.Navigations)
	} else {
		diff.HistoryParams = DiffHistory(oldHistory, newHistory)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// HistorySince returns the last n routes of history. A bounded history may
// hold fewer than n, in which case all of it is returned.
func HistorySince(history []string, n uint64) *HistoryDelta {
	if n == 0 || len(history) == 0 {
		return nil
	}
	if n >= uint64(len(history)) {
		return &HistoryDelta{Appended: slices.Clone(history)}
	}
	return &HistoryDelta{Appended: slices.Clone(history[uint64(len(history))-n:])}
}

// DiffHistory assumes append-only behavior for the route history.
// A bounded history may drop its oldest entries, so the old tail is aligned
// against the new history before computing the appended suffix.
func DiffHistory(old, new []string) *HistoryDelta {
	if len(new) == 0 {
		return nil
	}
	if len(old) == 0 {
		return &HistoryDelta{Appended: slices.Clone(new)}
	}

	// Find the longest suffix of old that is a prefix of new.
	for start := 0; start < len(old); start++ {
		tail := old[start:]
		if len(tail) <= len(new) && slices.Equal(tail, new[:len(tail)]) {
			if len(new) == len(tail) {
				return nil
			}
			return &HistoryDelta{Appended: slices.Clone(new[len(tail):])}
		}
	}
	return &HistoryDelta{Appended: slices.Clone(new)}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *ContextDiff) IsEmpty() bool {
	return d.CurrentRoute == nil &&
		d.CurrentState == nil &&
		d.Substate == nil &&
		d.BackendStatus == nil &&
		d.Initialized == nil &&
		d.HistoryParams == nil
}
