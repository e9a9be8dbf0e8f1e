package control

import (
	"fmt"
)

// Command is a discrete mutation of the State, applied on the frame thread.
type Command interface {
	Apply(st *Store) (Result, error)
	String() string
}

// Result describes what a command did to one parameter.
type Result struct {
	ID    ParamID
	Class Class
	Old   Value
	New   Value
}

func (r Result) Changed() bool {
	return r.ID != "" && r.Old != r.New
}

type SetFloat struct {
	ID    ParamID
	Value float32
}

func (c SetFloat) Apply(st *Store) (Result, error) { return st.set(c.ID, FloatValue(c.Value)) }
func (c SetFloat) String() string                  { return fmt.Sprintf("set %s=%g", c.ID, c.Value) }

type SetInt struct {
	ID    ParamID
	Value int
}

func (c SetInt) Apply(st *Store) (Result, error) { return st.set(c.ID, IntValue(c.Value)) }
func (c SetInt) String() string                  { return fmt.Sprintf("set %s=%d", c.ID, c.Value) }

type SetBool struct {
	ID    ParamID
	Value bool
}

func (c SetBool) Apply(st *Store) (Result, error) { return st.set(c.ID, BoolValue(c.Value)) }
func (c SetBool) String() string                  { return fmt.Sprintf("set %s=%t", c.ID, c.Value) }

// SetValue returns the typed set command matching v's kind.
func SetValue(id ParamID, v Value) Command {
	switch v.Kind {
	case KindInt:
		return SetInt{ID: id, Value: v.Int}
	case KindBool:
		return SetBool{ID: id, Value: v.Bool}
	}
	return SetFloat{ID: id, Value: v.Float}
}

// Toggle flips a bool parameter.
type Toggle struct {
	ID ParamID
}

func (c Toggle) Apply(st *Store) (Result, error) {
	p, err := st.table.Lookup(c.ID)
	if err != nil {
		return Result{}, err
	}
	if p.Kind != KindBool {
		return Result{}, fmt.Errorf("toggle %s: %w", c.ID, ErrKindMismatch)
	}
	return st.set(c.ID, BoolValue(!p.Get(&st.state).Bool))
}

func (c Toggle) String() string { return "toggle " + string(c.ID) }

// Step nudges a numeric parameter by Delta slider steps and clamps the
// result to the parameter's range, the way a slider would.
type Step struct {
	ID    ParamID
	Delta int
}

func (c Step) Apply(st *Store) (Result, error) {
	p, err := st.table.Lookup(c.ID)
	if err != nil {
		return Result{}, err
	}
	step := p.Range.Step
	if step == 0 {
		step = 1
	}
	cur := p.Get(&st.state)
	switch p.Kind {
	case KindFloat:
		cur.Float += float32(float64(c.Delta) * step)
	case KindInt:
		cur.Int += c.Delta * max(int(step), 1)
	default:
		return Result{}, fmt.Errorf("step %s: %w", c.ID, ErrKindMismatch)
	}
	return st.set(c.ID, p.Clamp(cur))
}

func (c Step) String() string { return fmt.Sprintf("step %s by %d", c.ID, c.Delta) }

// Undo reverts the most recent recorded change. With nothing to undo it
// returns a zero Result.
type Undo struct{}

func (Undo) Apply(st *Store) (Result, error) {
	r, _ := st.history.Undo(st.table, &st.state)
	return r, nil
}

func (Undo) String() string { return "undo" }

// Redo reapplies the most recently undone change.
type Redo struct{}

func (Redo) Apply(st *Store) (Result, error) {
	r, _ := st.history.Redo(st.table, &st.state)
	return r, nil
}

func (Redo) String() string { return "redo" }
