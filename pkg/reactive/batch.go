package reactive

import "sync"

// Batch collects listener notifications from several signal writes and
// delivers them once on Commit.
//
// A Batch is committed at most once; writes queued after Commit are
// delivered by the next Commit call.
type Batch struct {
	mu      sync.Mutex
	pending []Listener
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) queue(ls ...Listener) {
	b.mu.Lock()
	b.pending = append(b.pending, ls...)
	b.mu.Unlock()
}

// Pending returns the number of queued notifications, duplicates included.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Commit deduplicates queued listeners by ID and notifies each once,
// in first-queued order. It returns the number of listeners notified.
func (b *Batch) Commit() int {
	b.mu.Lock()
	updates := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(updates) == 0 {
		return 0
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))
	for _, l := range updates {
		id := l.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, l)
		}
	}

	for _, l := range unique {
		l.MarkDirty()
	}
	return len(unique)
}

// Run executes fn with a fresh batch and commits it when fn returns.
func Run(fn func(b *Batch)) {
	b := NewBatch()
	defer b.Commit()
	fn(b)
}
