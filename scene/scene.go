package scene

import (
	"shader-scene/core"
)

// Scene holds the node graph, the active camera and the clear colour.
type Scene struct {
	Root       *Node
	Camera     *Camera
	Background core.Color
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Background: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

// RemoveNode detaches node from the root. Removing a node that is not
// attached is a no-op and returns false.
func (s *Scene) RemoveNode(node *Node) bool {
	return s.Root.RemoveChild(node)
}

// Contains reports whether node is a direct child of the root.
func (s *Scene) Contains(node *Node) bool {
	for _, c := range s.Root.Children {
		if c == node {
			return true
		}
	}
	return false
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}
