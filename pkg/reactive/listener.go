package reactive

// Listener is anything that can be notified when a signal changes.
type Listener interface {
	// MarkDirty notifies the listener that a signal it watches changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// funcListener adapts a function to Listener.
type funcListener struct {
	id uint64
	fn func()
}

func (l *funcListener) MarkDirty() { l.fn() }
func (l *funcListener) ID() uint64 { return l.id }

// ListenerFunc wraps fn in a Listener with a fresh ID.
// Each call returns a distinct listener, even for the same fn.
func ListenerFunc(fn func()) Listener {
	return &funcListener{id: nextID(), fn: fn}
}
