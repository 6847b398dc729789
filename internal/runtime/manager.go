package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/peplab/pkg/domain"
)

// StateHandler runs the per-kind behaviour of the current state.
type StateHandler func(ctx context.Context, s *domain.State) error

// StateManager holds the single current-state slot of a session.
// The slot lives inside an arena tree so that hub entries keep their parent
// (dashboard -> design) without owning back-references.
type StateManager struct {
	tree     *domain.Tree
	current  domain.NodeID
	handlers map[domain.Kind]StateHandler
}

// NewStateManager creates an empty manager.
func NewStateManager() *StateManager {
	return &StateManager{
		tree:     domain.NewTree(),
		current:  domain.NoNode,
		handlers: make(map[domain.Kind]StateHandler),
	}
}

// Register installs the handler run by Handle when the current state is of kind k.
func (m *StateManager) Register(k domain.Kind, h StateHandler) {
	m.handlers[k] = h
}

// SetState replaces the slot with s, discarding the previous hierarchy.
func (m *StateManager) SetState(s *domain.State) {
	m.tree = domain.NewTree()
	m.current = m.tree.Add(s)
}

// Descend attaches s under the current state and makes it current.
// With an empty slot it behaves like SetState.
func (m *StateManager) Descend(s *domain.State) error {
	if m.current == domain.NoNode {
		m.SetState(s)
		return nil
	}
	id, err := m.tree.AddChild(m.current, s)
	if err != nil {
		return fmt.Errorf("failed to descend into %s: %w", s.Kind(), err)
	}
	m.current = id
	return nil
}

// Current returns the current state, or nil when the slot is empty.
func (m *StateManager) Current() *domain.State {
	if m.current == domain.NoNode {
		return nil
	}
	s, err := m.tree.State(m.current)
	if err != nil {
		return nil
	}
	return s
}

// CurrentPath returns the state names from the root of the hierarchy to the current state.
func (m *StateManager) CurrentPath() []string {
	if m.current == domain.NoNode {
		return nil
	}
	return m.tree.Path(m.current)
}

// Lineage returns the states from the root to the current one.
func (m *StateManager) Lineage() []*domain.State {
	if m.current == domain.NoNode {
		return nil
	}
	ids := m.tree.Ancestry(m.current)
	out := make([]*domain.State, 0, len(ids))
	for _, id := range ids {
		if s, err := m.tree.State(id); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Handle runs the handler registered for the current state's kind.
// An empty slot or a kind without a handler is a no-op.
func (m *StateManager) Handle(ctx context.Context) error {
	s := m.Current()
	if s == nil {
		return nil
	}
	h, ok := m.handlers[s.Kind()]
	if !ok {
		return nil
	}
	return h(ctx, s)
}

// Reset clears the slot. Registered handlers are kept.
func (m *StateManager) Reset() {
	m.tree = domain.NewTree()
	m.current = domain.NoNode
}
