package domain

// OutcomeStatus classifies the result of a navigation request.
type OutcomeStatus string

const (
	OutcomeApplied  OutcomeStatus = "applied"  // State changed and routes were recorded
	OutcomeRejected OutcomeStatus = "rejected" // Target matched nothing or failed validation
	OutcomeBlocked  OutcomeStatus = "blocked"  // Backend unavailable, navigation refused
)

// Outcome is the result of a navigation request. Rejections are reported here
// instead of being returned as errors.
type Outcome struct {
	Target string        `json:"target"`
	Status OutcomeStatus `json:"status"`
	// Routes lists every route recorded by the router while applying the target, in order.
	Routes []string `json:"routes,omitempty"`
	Reason error    `json:"-"`
}

// Applied reports whether the navigation changed the session.
func (o Outcome) Applied() bool {
	return o.Status == OutcomeApplied
}

// ReasonText returns the rejection reason as text, or "" when there is none.
func (o Outcome) ReasonText() string {
	if o.Reason == nil {
		return ""
	}
	return o.Reason.Error()
}
