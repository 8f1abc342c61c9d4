package paramstate

import (
	"github.com/vango-dev/routestate/pkg/reactive"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// Slot holds the current value of one param. A nil value means unset.
type Slot struct {
	name   string
	def    routeconfig.ParamDef
	signal *reactive.Signal[routeconfig.Value]
}

func newSlot(p *routeconfig.Param) *Slot {
	return &Slot{
		name:   p.Name,
		def:    p.Def,
		signal: reactive.NewSignal[routeconfig.Value](nil),
	}
}

// Name returns the param name.
func (s *Slot) Name() string { return s.name }

// Def returns the param definition.
func (s *Slot) Def() routeconfig.ParamDef { return s.def }

// Get returns the current value; ok is false when the slot is unset.
func (s *Slot) Get() (v routeconfig.Value, ok bool) {
	v = s.signal.Get()
	return v, v != nil
}

// Set stores v, deferring notifications to b when b is non-nil.
// Passing nil unsets the slot. Reports whether the value changed.
func (s *Slot) Set(b *reactive.Batch, v routeconfig.Value) bool {
	return s.signal.SetIn(b, v)
}

// Subscribe registers l for changes of this slot.
func (s *Slot) Subscribe(l reactive.Listener) (unsubscribe func()) {
	return s.signal.Subscribe(l)
}

// State is one level of the param-state tree.
type State struct {
	slots    []*Slot
	children []child
}

type child struct {
	key   string
	state *State
}

func newState() *State {
	return &State{}
}

// Slot returns the slot named name at this level.
func (s *State) Slot(name string) (*Slot, bool) {
	for _, sl := range s.slots {
		if sl.name == name {
			return sl, true
		}
	}
	return nil, false
}

// Slots returns the slots at this level in configuration order.
func (s *State) Slots() []*Slot {
	out := make([]*Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Value returns the value of slot name; ok is false when the slot is
// unset or does not exist.
func (s *State) Value(name string) (routeconfig.Value, bool) {
	sl, found := s.Slot(name)
	if !found {
		return nil, false
	}
	return sl.Get()
}

// Child returns the nested state under key.
func (s *State) Child(key string) (*State, bool) {
	for _, c := range s.children {
		if c.key == key {
			return c.state, true
		}
	}
	return nil, false
}

// Keys returns the child keys in configuration order.
func (s *State) Keys() []string {
	keys := make([]string, len(s.children))
	for i, c := range s.children {
		keys[i] = c.key
	}
	return keys
}

// IsEmpty reports whether the state has neither slots nor children.
func (s *State) IsEmpty() bool {
	return len(s.slots) == 0 && len(s.children) == 0
}

// Reset unsets every slot in this state and below.
func (s *State) Reset(b *reactive.Batch) {
	for _, sl := range s.slots {
		sl.Set(b, nil)
	}
	for _, c := range s.children {
		c.state.Reset(b)
	}
}

// Snapshot returns a JSON-friendly copy of the state: slots map to their
// value (nil when unset) and children map to nested snapshots.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, len(s.slots)+len(s.children))
	for _, sl := range s.slots {
		v, _ := sl.Get()
		out[sl.name] = v
	}
	for _, c := range s.children {
		out[c.key] = c.state.Snapshot()
	}
	return out
}

// walk visits every state depth-first with the keys leading to it.
func (s *State) walk(path []string, fn func(path []string, st *State)) {
	fn(path, s)
	for _, c := range s.children {
		next := append(append([]string(nil), path...), c.key)
		c.state.walk(next, fn)
	}
}
