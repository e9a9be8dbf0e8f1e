package tuning

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-scene/control"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestReloadQueuesOnlyChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	q := control.NewQueue()
	src := NewFileSource(path, control.Standard(), q, control.Default(), quietLogger())

	writeFile(t, path, `
[mesh]
resolution = 128
wireframe = true

[bloom]
strength = 1.5
`)
	n, err := src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []control.Command{
		control.SetBool{ID: control.MeshWireframe, Value: true},
		control.SetFloat{ID: control.BloomStrength, Value: 1.5},
	}, q.Drain())

	// unchanged file, nothing new
	n, err = src.Reload()
	require.NoError(t, err)
	assert.Zero(t, n)

	// dropping a key keeps the last reading
	writeFile(t, path, "[shader.zDisplacement]\nbyWorldY = 0.5\n")
	n, err = src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []control.Command{
		control.SetFloat{ID: control.DisplacementParam('z', "byWorldY"), Value: 0.5},
	}, q.Drain())
}

func TestReloadRejectsBadFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	q := control.NewQueue()
	src := NewFileSource(path, control.Standard(), q, control.Default(), quietLogger())

	_, err := src.Reload()
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, "[mesh]\nresolushun = 4\n")
	_, err = src.Reload()
	assert.Error(t, err)

	writeFile(t, path, "[mesh\n")
	_, err = src.Reload()
	assert.Error(t, err)
	assert.Zero(t, q.Len())

	// a later good file still diffs against the original base
	writeFile(t, path, "[mesh]\nresolution = 4\n")
	n, err := src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReloadRejectsNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	st := control.NewStore(control.Default(), control.Standard(), 8)
	q := control.NewQueue()
	src := NewFileSource(path, st.Table(), q, st.Snapshot(), quietLogger())

	writeFile(t, path, "[shader.xDisplacement]\nbyLocalX = nan\n")
	_, err := src.Reload()
	assert.ErrorIs(t, err, control.ErrNotFinite)
	_, err = src.Reload()
	assert.ErrorIs(t, err, control.ErrNotFinite)
	assert.Zero(t, q.Len())

	writeFile(t, path, "[bloom]\nstrength = inf\n")
	_, err = src.Reload()
	assert.ErrorIs(t, err, control.ErrNotFinite)
	assert.Zero(t, q.Len())
	assert.False(t, st.History().CanUndo())

	// fixing the file recovers and queues only the real change
	writeFile(t, path, "[shader.xDisplacement]\nbyLocalX = 0.5\n")
	n, err := src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = src.Reload()
	require.NoError(t, err)
	ch := st.ApplyAll(q.Drain(), quietLogger())
	assert.Equal(t, 1, ch.Applied)
	assert.Equal(t, float32(0.5), st.State().Shader.XDisplacement.ByLocalX)
}

func TestDiffAppliesThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	q := control.NewQueue()
	st := control.NewStore(control.Default(), control.Standard(), 10)
	src := NewFileSource(path, st.Table(), q, st.Snapshot(), quietLogger())

	writeFile(t, path, "[camera]\nuseFreeCam = true\nspeed = 1.0\n\n[scene]\nshowAxis = true\n")
	_, err := src.Reload()
	require.NoError(t, err)

	ch := st.ApplyAll(q.Drain(), quietLogger())
	assert.Equal(t, 3, ch.Applied)
	assert.True(t, ch.Helpers)
	assert.False(t, ch.Topology)
	assert.True(t, st.State().Camera.UseFreeCam)
	assert.Equal(t, float32(1), st.State().Camera.Speed)
}

func TestRunWatchesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.toml")
	writeFile(t, path, "[mesh]\nwireframe = true\n")

	q := control.NewQueue()
	src := NewFileSource(path, control.Standard(), q, control.Default(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	require.Eventually(t, func() bool { return q.Len() == 1 }, 5*time.Second, 10*time.Millisecond)
	q.Drain()

	writeFile(t, path, "[mesh]\nwireframe = true\nbackface = true\n")
	require.Eventually(t, func() bool { return q.Len() > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, q.Drain(), control.Command(control.SetBool{ID: control.MeshBackface, Value: true}))

	// other files in the directory are ignored
	writeFile(t, filepath.Join(dir, "other.toml"), "[mesh]\nresolution = 2\n")
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, q.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunNeedsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "tuning.toml")
	src := NewFileSource(path, control.Standard(), control.NewQueue(), control.Default(), quietLogger())

	err := src.Run(context.Background())
	assert.Error(t, err)
}
