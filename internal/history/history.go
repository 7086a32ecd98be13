// Package history implements the linear, branch-discarding undo/redo stack
// for the prompt. Because descending into a table cell is realized as a
// filter edit, undo doubles as navigation back up the document hierarchy.
package history

// History keeps an ordered sequence of snapshots and an index of the
// current one. It is never empty: it is constructed around a seed snapshot.
type History[T any] struct {
	entries []T
	pos     int
	equal   func(a, b T) bool
}

// New returns a history seeded with the given snapshot. equal decides
// whether a pushed snapshot differs from the current one; pushes of equal
// snapshots are ignored so repeated no-op edits do not pollute the stack.
func New[T any](seed T, equal func(a, b T) bool) *History[T] {
	return &History[T]{entries: []T{seed}, pos: 0, equal: equal}
}

// Current returns the active snapshot.
func (h *History[T]) Current() T { return h.entries[h.pos] }

// Len returns the number of stored snapshots.
func (h *History[T]) Len() int { return len(h.entries) }

// CanUndo reports whether an earlier snapshot exists.
func (h *History[T]) CanUndo() bool { return h.pos > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History[T]) CanRedo() bool { return h.pos < len(h.entries)-1 }

// Push appends v after the current snapshot and makes it current,
// discarding any redo tail. Pushing a snapshot equal to the current one is
// a no-op and reports false.
func (h *History[T]) Push(v T) bool {
	if h.equal(h.Current(), v) {
		return false
	}
	h.entries = append(h.entries[:h.pos+1], v)
	h.pos++
	return true
}

// Undo steps back one snapshot and returns the new current one. The live
// state is passed in so that edits made since the last push are recorded
// before stepping back; undoing them first restores that divergent state
// instead of skipping it. At the start of history it returns the first
// snapshot unchanged.
func (h *History[T]) Undo(current T) T {
	if !h.equal(current, h.Current()) {
		h.Push(current)
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.Current()
}

// Redo steps forward one snapshot and returns the new current one. At the
// end of history it returns the last snapshot unchanged.
func (h *History[T]) Redo() T {
	if h.pos < len(h.entries)-1 {
		h.pos++
	}
	return h.Current()
}
