package sketch

// DefaultHistoryLimit bounds the undo stack.
const DefaultHistoryLimit = 100

// History is a snapshot undo/redo stack over one sketch.
type History struct {
	sk    *Sketch
	limit int
	undo  []*Sketch
	redo  []*Sketch
}

// NewHistory creates an undo stack for sk keeping at most limit snapshots.
func NewHistory(sk *Sketch, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{sk: sk, limit: limit}
}

// Remember snapshots the sketch. Call it before mutating.
func (h *History) Remember() {
	h.undo = append(h.undo, h.sk.clone())
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
}

// Undo restores the last remembered snapshot. It reports false when there is
// nothing to undo.
func (h *History) Undo() bool {
	n := len(h.undo)
	if n == 0 {
		return false
	}
	h.redo = append(h.redo, h.sk.clone())
	h.sk.restore(h.undo[n-1])
	h.undo = h.undo[:n-1]
	return true
}

// Redo re-applies the last undone change.
func (h *History) Redo() bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	h.undo = append(h.undo, h.sk.clone())
	h.sk.restore(h.redo[n-1])
	h.redo = h.redo[:n-1]
	return true
}

// Depth reports the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
