package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-scene/control"
)

const (
	keyW = iota + 10
	keyB
	keyTab
	keyQ
	keyUp
	keyDown
	keySpace
	keyZ
	keyY
)

func testBindings() Bindings {
	return Bindings{
		Toggles: map[int]control.ParamID{
			keyW: control.MeshWireframe,
			keyB: control.MeshBackface,
		},
		Next: keyTab, Prev: keyQ,
		Inc: keyUp, Dec: keyDown,
		Flip: keySpace,
		Undo: keyZ, Redo: keyY,
	}
}

func newKeymap(t *testing.T) *Keymap {
	t.Helper()
	k, err := NewKeymap(control.Standard(), testBindings())
	require.NoError(t, err)
	return k
}

func TestNewKeymapRejectsBadToggles(t *testing.T) {
	b := testBindings()
	b.Toggles[keySpace] = control.BloomStrength
	_, err := NewKeymap(control.Standard(), b)
	assert.ErrorIs(t, err, control.ErrKindMismatch)

	b = testBindings()
	b.Toggles[keySpace] = "mesh.nope"
	_, err = NewKeymap(control.Standard(), b)
	assert.ErrorIs(t, err, control.ErrUnknownParam)
}

func TestToggleKeys(t *testing.T) {
	k := newKeymap(t)

	assert.Equal(t, []control.Command{control.Toggle{ID: control.MeshWireframe}},
		k.Commands(KeyPress{Key: keyW}))
	assert.Nil(t, k.Commands(KeyPress{Key: keyW, Repeat: true}))
	assert.Nil(t, k.Commands(KeyPress{Key: 999}))
	assert.Nil(t, k.Commands(KeyPress{}))
}

func TestUndoRedo(t *testing.T) {
	k := newKeymap(t)

	assert.Equal(t, []control.Command{control.Undo{}}, k.Commands(KeyPress{Key: keyZ, Ctrl: true}))
	assert.Equal(t, []control.Command{control.Redo{}}, k.Commands(KeyPress{Key: keyZ, Ctrl: true, Shift: true}))
	assert.Equal(t, []control.Command{control.Redo{}}, k.Commands(KeyPress{Key: keyY, Ctrl: true}))
	// ctrl suppresses plain bindings
	assert.Nil(t, k.Commands(KeyPress{Key: keyW, Ctrl: true}))
}

func TestSelectionAndStep(t *testing.T) {
	k := newKeymap(t)
	var seen []control.ParamID
	k.OnSelect(func(p *control.Param) { seen = append(seen, p.ID) })

	require.Equal(t, control.MeshResolution, k.Selected().ID)
	assert.Equal(t, []control.Command{control.Step{ID: control.MeshResolution, Delta: 1}},
		k.Commands(KeyPress{Key: keyUp}))
	assert.Equal(t, []control.Command{control.Step{ID: control.MeshResolution, Delta: -ShiftSteps}},
		k.Commands(KeyPress{Key: keyDown, Shift: true, Repeat: true}))

	assert.Nil(t, k.Commands(KeyPress{Key: keyTab}))
	assert.Nil(t, k.Commands(KeyPress{Key: keyTab}))
	assert.Equal(t, control.MeshWireframe, k.Selected().ID)

	// arrows on a bool selection toggle it, once per press
	assert.Equal(t, []control.Command{control.Toggle{ID: control.MeshWireframe}},
		k.Commands(KeyPress{Key: keyUp}))
	assert.Nil(t, k.Commands(KeyPress{Key: keyUp, Repeat: true}))
	assert.Equal(t, []control.Command{control.Toggle{ID: control.MeshWireframe}},
		k.Commands(KeyPress{Key: keySpace}))

	// wraps backwards past the first parameter
	k.Commands(KeyPress{Key: keyQ})
	k.Commands(KeyPress{Key: keyQ})
	k.Commands(KeyPress{Key: keyQ})
	assert.Equal(t, control.SceneShowAxis, k.Selected().ID)

	assert.Equal(t, []control.ParamID{
		control.MeshResolutionMultiplier,
		control.MeshWireframe,
		control.MeshResolutionMultiplier,
		control.MeshResolution,
		control.SceneShowAxis,
	}, seen)
}

func TestFlipIgnoresNumericSelection(t *testing.T) {
	k := newKeymap(t)
	assert.Nil(t, k.Commands(KeyPress{Key: keySpace}))
}

func TestKeyCommandsApplyThroughStore(t *testing.T) {
	k := newKeymap(t)
	st := control.NewStore(control.Default(), control.Standard(), 10)

	ch := st.ApplyAll(k.Commands(KeyPress{Key: keyDown}), quietLogger())
	assert.True(t, ch.Topology)
	assert.Equal(t, 127, st.State().Mesh.Resolution)

	// clamped to the top of the range
	st.ApplyAll(k.Commands(KeyPress{Key: keyUp, Shift: true}), quietLogger())
	assert.Equal(t, 128, st.State().Mesh.Resolution)

	st.ApplyAll(k.Commands(KeyPress{Key: keyZ, Ctrl: true}), quietLogger())
	assert.Equal(t, 127, st.State().Mesh.Resolution)
}
