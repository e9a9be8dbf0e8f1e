package scene

// Side selects which triangle faces are rasterised.
type Side int

const (
	FrontSide Side = iota
	DoubleSide
)

func (s Side) String() string {
	if s == DoubleSide {
		return "double"
	}
	return "front"
}

// Shading picks the GPU program a mesh is drawn with.
type Shading int

const (
	// ShadingDisplaced runs the displacement program with the live uniform set.
	ShadingDisplaced Shading = iota
	// ShadingVertexColor draws raw vertex colours, used by helpers.
	ShadingVertexColor
)

// ShaderMaterial describes how a mesh is rasterised. Uniform values are
// owned by the renderer, not by the material.
type ShaderMaterial struct {
	Name      string
	Shading   Shading
	Wireframe bool
	Side      Side
}

func NewShaderMaterial(name string, wireframe bool, side Side) *ShaderMaterial {
	return &ShaderMaterial{
		Name:      name,
		Shading:   ShadingDisplaced,
		Wireframe: wireframe,
		Side:      side,
	}
}

func vertexColorMaterial(name string) *ShaderMaterial {
	return &ShaderMaterial{Name: name, Shading: ShadingVertexColor, Side: DoubleSide}
}
