package paramstate

import (
	"github.com/vango-dev/routestate/pkg/reactive"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// Tree is a built param-state tree.
type Tree struct {
	root *State
}

// Build validates root and builds its param-state tree. Each call returns a
// fresh tree; Build may be called concurrently on the same configuration.
func Build(root routeconfig.Node) (*Tree, error) {
	if err := routeconfig.Validate(root); err != nil {
		return nil, err
	}
	st := newState()
	fill(st, root)
	return &Tree{root: st}, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(root routeconfig.Node) *Tree {
	t, err := Build(root)
	if err != nil {
		panic(err)
	}
	return t
}

// fill adds the contribution of n to st.
func fill(st *State, n routeconfig.Node) {
	switch v := n.(type) {
	case routeconfig.Branch:
		for _, e := range v {
			sub := newState()
			if e.Node != nil {
				fill(sub, e.Node)
			}
			st.children = append(st.children, child{key: e.Key, state: sub})
		}
	case *routeconfig.Param:
		st.slots = append(st.slots, newSlot(v))
		if v.Child != nil {
			// Param continuations merge into the same level.
			fill(st, v.Child)
		}
	}
}

// Root returns the top-level state.
func (t *Tree) Root() *State { return t.root }

// Lookup follows child keys from the root.
func (t *Tree) Lookup(keys ...string) (*State, bool) {
	st := t.root
	for _, k := range keys {
		next, ok := st.Child(k)
		if !ok {
			return nil, false
		}
		st = next
	}
	return st, true
}

// Snapshot returns a JSON-friendly copy of the whole tree.
func (t *Tree) Snapshot() map[string]any {
	return t.root.Snapshot()
}

// Reset unsets every slot in the tree.
func (t *Tree) Reset(b *reactive.Batch) {
	t.root.Reset(b)
}

// SlotNames returns every slot name reachable in the tree, depth-first.
func (t *Tree) SlotNames() []string {
	var names []string
	t.root.walk(nil, func(_ []string, st *State) {
		for _, sl := range st.slots {
			names = append(names, sl.name)
		}
	})
	return names
}

// ChildKeys returns every child key reachable in the tree, depth-first.
func (t *Tree) ChildKeys() []string {
	var keys []string
	t.root.walk(nil, func(path []string, _ *State) {
		if len(path) > 0 {
			keys = append(keys, path[len(path)-1])
		}
	})
	return keys
}

// Walk visits every state depth-first with the child keys leading to it.
func (t *Tree) Walk(fn func(keys []string, st *State)) {
	t.root.walk(nil, fn)
}
