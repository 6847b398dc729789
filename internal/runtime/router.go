package runtime

import "slices"

// DefaultHistoryLimit bounds the route history kept by a Router.
const DefaultHistoryLimit = 512

// Router records the routes a session has visited.
// CurrentRoute is always the last history entry. Entries are never deduplicated.
type Router struct {
	current string
	history []string
	limit   int
	total   uint64
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterHistoryLimit bounds the history. The oldest entries are evicted first.
// A limit of 0 keeps every entry.
func WithRouterHistoryLimit(limit int) RouterOption {
	return func(r *Router) {
		if limit >= 0 {
			r.limit = limit
		}
	}
}

// NewRouter creates a Router positioned at "/".
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		current: "/",
		history: []string{"/"},
		limit:   DefaultHistoryLimit,
		total:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NavigateTo records route as the current one.
func (r *Router) NavigateTo(route string) {
	r.current = route
	r.total++
	r.history = append(r.history, route)
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = slices.Delete(r.history, 0, len(r.history)-r.limit)
	}
}

// CurrentRoute returns the last route navigated to.
func (r *Router) CurrentRoute() string {
	return r.current
}

// History returns a copy of the recorded routes, oldest first.
func (r *Router) History() []string {
	return slices.Clone(r.history)
}

// Navigations counts every route ever recorded, including evicted ones.
func (r *Router) Navigations() uint64 {
	return r.total
}

// Limit returns the configured history bound (0 = unbounded).
func (r *Router) Limit() int {
	return r.limit
}

// restore replaces the history wholesale, used when rehydrating a session.
// total is raised to at least the number of entries given.
func (r *Router) restore(history []string, total uint64) {
	if len(history) == 0 {
		history = []string{"/"}
	}
	r.total = max(total, uint64(len(history)))
	r.history = slices.Clone(history)
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	r.current = r.history[len(r.history)-1]
}

func (r *Router) reset() {
	r.current = "/"
	r.history = []string{"/"}
	r.total = 1
}
