package scene

import (
	"shader-scene/core"
	"shader-scene/math"
)

const (
	axisX = iota
	axisY
	axisZ
)

// CreateBox generates an axis-aligned box centred on the origin with each
// face subdivided into a grid. Segment counts below 1 are raised to 1.
// Faces are emitted in +X, -X, +Y, -Y, +Z, -Z order, wound counter-clockwise
// when seen from outside.
func CreateBox(width, height, depth float32, widthSegments, heightSegments, depthSegments int) *Mesh {
	widthSegments = max(widthSegments, 1)
	heightSegments = max(heightSegments, 1)
	depthSegments = max(depthSegments, 1)

	b := &boxBuilder{}
	b.face(axisZ, axisY, axisX, -1, -1, depth, height, width, depthSegments, heightSegments)
	b.face(axisZ, axisY, axisX, 1, -1, depth, height, -width, depthSegments, heightSegments)
	b.face(axisX, axisZ, axisY, 1, 1, width, depth, height, widthSegments, depthSegments)
	b.face(axisX, axisZ, axisY, 1, -1, width, depth, -height, widthSegments, depthSegments)
	b.face(axisX, axisY, axisZ, 1, -1, width, height, depth, widthSegments, heightSegments)
	b.face(axisX, axisY, axisZ, -1, -1, width, height, -depth, widthSegments, heightSegments)

	return CreateMeshFromData("Box", b.vertices, b.indices)
}

type boxBuilder struct {
	vertices []core.Vertex
	indices  []uint32
}

// face emits one (gridX+1)*(gridY+1) vertex grid spanning the u/v axes at
// w = depth/2, with its normal along the sign of depth.
func (b *boxBuilder) face(u, v, w int, udir, vdir, width, height, depth float32, gridX, gridY int) {
	segW := width / float32(gridX)
	segH := height / float32(gridY)
	halfW := width / 2
	halfH := height / 2
	halfD := depth / 2

	normalSign := float32(1)
	if depth < 0 {
		normalSign = -1
	}

	base := uint32(len(b.vertices))
	for iy := 0; iy <= gridY; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix <= gridX; ix++ {
			x := float32(ix)*segW - halfW

			var pos, normal math.Vec3
			setAxis(&pos, u, x*udir)
			setAxis(&pos, v, y*vdir)
			setAxis(&pos, w, halfD)
			setAxis(&normal, w, normalSign)

			b.vertices = append(b.vertices, core.Vertex{
				Position: pos,
				Normal:   normal,
				UV:       math.Vec2{X: float32(ix) / float32(gridX), Y: 1 - float32(iy)/float32(gridY)},
				Color:    core.ColorWhite,
			})
		}
	}

	row := uint32(gridX + 1)
	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := base + uint32(ix) + row*uint32(iy)
			bl := base + uint32(ix) + row*uint32(iy+1)
			c := base + uint32(ix+1) + row*uint32(iy+1)
			d := base + uint32(ix+1) + row*uint32(iy)

			b.indices = append(b.indices, a, bl, d)
			b.indices = append(b.indices, bl, c, d)
		}
	}
}

func setAxis(v *math.Vec3, axis int, value float32) {
	switch axis {
	case axisX:
		v.X = value
	case axisY:
		v.Y = value
	default:
		v.Z = value
	}
}

// CreateAxes builds a line mesh with one segment of the given length along
// each positive axis: X red, Y green, Z blue.
func CreateAxes(length float32) *Mesh {
	var vertices []core.Vertex
	var indices []uint32

	addLine := func(a, b math.Vec3, c core.Color) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: math.Vec3Up, Color: c},
			core.Vertex{Position: b, Normal: math.Vec3Up, Color: c},
		)
		indices = append(indices, base, base+1)
	}

	addLine(math.Vec3Zero, math.Vec3{X: length}, core.ColorRed)
	addLine(math.Vec3Zero, math.Vec3{Y: length}, core.ColorGreen)
	addLine(math.Vec3Zero, math.Vec3{Z: length}, core.ColorBlue)

	m := CreateMeshFromData("Axes", vertices, indices)
	m.DrawMode = DrawLines
	m.Material = vertexColorMaterial("AxesMaterial")
	return m
}
