// Package tuning turns keyboard input and an edited TOML file into control
// commands. Neither source touches control.State; both only emit commands
// for the frame loop to apply.
package tuning

import (
	"fmt"

	"shader-scene/control"
)

// KeyPress mirrors window.KeyEvent so this package stays free of GLFW.
type KeyPress struct {
	Key    int
	Repeat bool
	Shift  bool
	Ctrl   bool
}

// Bindings assigns key codes to actions. A zero code is unbound.
type Bindings struct {
	// Toggles flips a bool parameter on a key press.
	Toggles map[int]control.ParamID

	Next, Prev int // cycle the selected parameter
	Inc, Dec   int // step the selected parameter
	Flip       int // toggle the selected parameter when it is a bool
	Undo, Redo int // with ctrl held
}

// ShiftSteps is how many slider steps Inc and Dec move with shift held.
const ShiftSteps = 10

// Keymap is the keyboard stand-in for a slider panel. One parameter is
// selected at a time and the arrow keys step it within its range.
type Keymap struct {
	bindings Bindings
	params   []*control.Param
	selected int
	onSelect func(p *control.Param)
}

// NewKeymap checks that every toggle binding names a bool parameter of t.
func NewKeymap(t *control.Table, b Bindings) (*Keymap, error) {
	for key, id := range b.Toggles {
		p, err := t.Lookup(id)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", key, err)
		}
		if p.Kind != control.KindBool {
			return nil, fmt.Errorf("key %d toggles %s (%s): %w", key, id, p.Kind, control.ErrKindMismatch)
		}
	}
	return &Keymap{bindings: b, params: t.Params()}, nil
}

func (k *Keymap) Selected() *control.Param {
	return k.params[k.selected]
}

// OnSelect registers fn to run whenever the selection moves.
func (k *Keymap) OnSelect(fn func(p *control.Param)) {
	k.onSelect = fn
}

// Commands maps one key press to the commands it should queue. Selection
// changes are handled here and produce no command.
func (k *Keymap) Commands(ev KeyPress) []control.Command {
	if ev.Key == 0 {
		return nil
	}
	b := k.bindings
	if ev.Ctrl {
		switch ev.Key {
		case b.Undo:
			if ev.Shift {
				return []control.Command{control.Redo{}}
			}
			return []control.Command{control.Undo{}}
		case b.Redo:
			return []control.Command{control.Redo{}}
		}
		return nil
	}

	switch ev.Key {
	case b.Next:
		k.move(1)
		return nil
	case b.Prev:
		k.move(-1)
		return nil
	case b.Inc:
		return k.step(ev, 1)
	case b.Dec:
		return k.step(ev, -1)
	case b.Flip:
		if p := k.Selected(); p.Kind == control.KindBool && !ev.Repeat {
			return []control.Command{control.Toggle{ID: p.ID}}
		}
		return nil
	}
	if id, ok := b.Toggles[ev.Key]; ok && !ev.Repeat {
		return []control.Command{control.Toggle{ID: id}}
	}
	return nil
}

func (k *Keymap) step(ev KeyPress, dir int) []control.Command {
	p := k.Selected()
	if p.Kind == control.KindBool {
		if ev.Repeat {
			return nil
		}
		return []control.Command{control.Toggle{ID: p.ID}}
	}
	if ev.Shift {
		dir *= ShiftSteps
	}
	return []control.Command{control.Step{ID: p.ID, Delta: dir}}
}

func (k *Keymap) move(dir int) {
	n := len(k.params)
	k.selected = ((k.selected+dir)%n + n) % n
	if k.onSelect != nil {
		k.onSelect(k.Selected())
	}
}
