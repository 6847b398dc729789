package domain

import (
	"fmt"
	"slices"
)

// NodeID indexes a State inside a Tree.
type NodeID int

// NoNode is the parent of a root node.
const NoNode NodeID = -1

type treeNode struct {
	state    *State
	parent   NodeID
	children []NodeID
}

// Tree is an arena of States. Parents are indices, never owning references,
// so an ancestor path is always computed by walking integers.
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes []treeNode
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add stores s as a new root node.
func (t *Tree) Add(s *State) NodeID {
	t.nodes = append(t.nodes, treeNode{state: s, parent: NoNode})
	return NodeID(len(t.nodes) - 1)
}

// AddChild stores s as the last child of parent.
func (t *Tree) AddChild(parent NodeID, s *State) (NodeID, error) {
	if !t.has(parent) {
		return NoNode, fmt.Errorf("%w: %d", ErrUnknownNode, parent)
	}
	id := t.Add(s)
	t.nodes[id].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// SetParent moves child under parent. Passing NoNode detaches it.
// Any assignment that would make child its own ancestor fails with ErrCycle.
func (t *Tree) SetParent(child, parent NodeID) error {
	if !t.has(child) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, child)
	}
	if parent != NoNode {
		if !t.has(parent) {
			return fmt.Errorf("%w: %d", ErrUnknownNode, parent)
		}
		for cur := parent; cur != NoNode; cur = t.nodes[cur].parent {
			if cur == child {
				return fmt.Errorf("%w: node %d cannot descend from %d", ErrCycle, parent, child)
			}
		}
	}

	if old := t.nodes[child].parent; old != NoNode {
		siblings := t.nodes[old].children
		if i := slices.Index(siblings, child); i >= 0 {
			t.nodes[old].children = slices.Delete(siblings, i, i+1)
		}
	}

	t.nodes[child].parent = parent
	if parent != NoNode {
		t.nodes[parent].children = append(t.nodes[parent].children, child)
	}
	return nil
}

// State returns the State stored at id.
func (t *Tree) State(id NodeID) (*State, error) {
	if !t.has(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return t.nodes[id].state, nil
}

// Parent returns the parent of id, or false for roots and unknown ids.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if !t.has(id) || t.nodes[id].parent == NoNode {
		return NoNode, false
	}
	return t.nodes[id].parent, true
}

// Children returns a copy of the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.has(id) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// Ancestry returns the ids from the root down to id (inclusive).
func (t *Tree) Ancestry(id NodeID) []NodeID {
	if !t.has(id) {
		return nil
	}
	var path []NodeID
	for cur := id; cur != NoNode; cur = t.nodes[cur].parent {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// Path returns the state names from the root down to id ("dashboard", "design").
func (t *Tree) Path(id NodeID) []string {
	ids := t.Ancestry(id)
	if ids == nil {
		return nil
	}
	names := make([]string, len(ids))
	for i, n := range ids {
		names[i] = t.nodes[n].state.Name()
	}
	return names
}

func (t *Tree) has(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
