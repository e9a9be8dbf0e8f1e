package control

// History manages undo/redo stacks of applied parameter changes.
type History struct {
	undoStack []Result
	redoStack []Result
	maxDepth  int
}

// NewHistory creates a new history with the given max undo depth
func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Result, 0, maxDepth),
		redoStack: make([]Result, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Record pushes a change onto the undo stack and forgets any redo.
func (h *History) Record(r Result) {
	if h.maxDepth <= 0 {
		return
	}
	h.undoStack = append(h.undoStack, r)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

// Undo restores the old value of the last change.
func (h *History) Undo(t *Table, s *State) (Result, bool) {
	if len(h.undoStack) == 0 {
		return Result{}, false
	}
	r := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	if !restore(t, s, r.ID, r.Old) {
		return Result{}, false
	}
	h.redoStack = append(h.redoStack, r)
	return Result{ID: r.ID, Class: r.Class, Old: r.New, New: r.Old}, true
}

// Redo reapplies the last undone change.
func (h *History) Redo(t *Table, s *State) (Result, bool) {
	if len(h.redoStack) == 0 {
		return Result{}, false
	}
	r := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	if !restore(t, s, r.ID, r.New) {
		return Result{}, false
	}
	h.undoStack = append(h.undoStack, r)
	return r, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func restore(t *Table, s *State, id ParamID, v Value) bool {
	p, err := t.Lookup(id)
	if err != nil {
		return false
	}
	_, err = p.Set(s, v)
	return err == nil
}
