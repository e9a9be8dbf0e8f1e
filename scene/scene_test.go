package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSceneAddRemove(t *testing.T) {
	s := NewScene()
	n := NewMeshNode(CreateBox(1, 1, 1, 1, 1, 1))

	s.AddNode(n)
	assert.True(t, s.Contains(n))
	assert.Len(t, s.GetVisibleNodes(), 1)

	assert.True(t, s.RemoveNode(n))
	assert.False(t, s.Contains(n))
	assert.Nil(t, n.Parent)

	// Second removal is a no-op.
	assert.False(t, s.RemoveNode(n))
	assert.Empty(t, s.GetVisibleNodes())
}

func TestSceneHiddenNodes(t *testing.T) {
	s := NewScene()
	a := NewMeshNode(CreateAxes(1))
	a.Visible = false
	s.AddNode(a)
	s.AddNode(NewNode("empty"))

	assert.Empty(t, s.GetVisibleNodes())
	assert.Same(t, s.Root, a.Parent)
}
