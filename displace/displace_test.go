package displace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shader-scene/core"
	"shader-scene/math"
)

const tol = 1e-5

func TestDisplaceZeroInfluenceIsIdentity(t *testing.T) {
	p := Params{
		X: AxisDisplacement{ByLocalX: 3, ByWorldZ: 2},
		Y: AxisDisplacement{ByLocalY: 1},
		Z: AxisDisplacement{ByWorldX: 7},
	}
	local := math.NewVec3(1, -2, 3)
	assert.Equal(t, local, Displace(p, local, math.NewVec3(4, 5, 6)))
}

func TestDisplacePerAxis(t *testing.T) {
	p := Params{
		X: AxisDisplacement{ByLocalX: 0.84, Influence: 1.15},
		Y: AxisDisplacement{ByLocalX: 0.95, Influence: 1.15},
		Z: AxisDisplacement{ByLocalX: 1.13, Influence: 1.31},
	}
	local := math.NewVec3(2, 1, -1)
	got := Displace(p, local, local)

	assert.InDelta(t, 2+0.84*2*1.15, got.X, tol)
	assert.InDelta(t, 1+0.95*2*1.15, got.Y, tol)
	assert.InDelta(t, -1+1.13*2*1.31, got.Z, tol)
}

func TestDisplaceWorldTerms(t *testing.T) {
	p := Params{Y: AxisDisplacement{ByWorldX: 1, ByWorldY: 2, ByWorldZ: 3, Influence: 0.5}}
	got := Displace(p, math.Vec3Zero, math.NewVec3(1, 1, 1))

	assert.Equal(t, float32(0), got.X)
	assert.InDelta(t, 3, got.Y, tol)
	assert.Equal(t, float32(0), got.Z)
}

func TestDisplaceDeterministic(t *testing.T) {
	p := Params{
		X: AxisDisplacement{ByLocalY: 0.3, ByWorldZ: 1.7, Influence: 0.9},
		Z: AxisDisplacement{ByLocalX: 1.1, Influence: 2},
	}
	local := math.NewVec3(0.25, 7, -3)
	world := math.NewVec3(1, 2, 3)

	first := Displace(p, local, world)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Displace(p, local, world))
	}
}

func TestShade(t *testing.T) {
	base := core.Color{R: 1, G: 0.5, B: 0.25, A: 1}
	forward := math.NewVec3(0, 0, -1)

	tests := []struct {
		name     string
		normal   math.Vec3
		power    float32
		lighting bool
		want     float32
	}{
		{"facing", math.NewVec3(0, 0, 1), 5, true, 1},
		{"away", math.NewVec3(0, 0, -1), 5, true, 0},
		{"grazing", math.NewVec3(0, 1, 1), 2, true, 0.5},
		{"unlit", math.NewVec3(0, 0, -1), 5, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shade(base, tt.normal, forward, tt.power, tt.lighting)
			assert.InDelta(t, base.R*tt.want, got.R, tol)
			assert.InDelta(t, base.G*tt.want, got.G, tol)
			assert.Equal(t, base.A, got.A)
		})
	}
}

func TestBaseColorInRange(t *testing.T) {
	for _, tm := range []float32{0, 1.5, 100} {
		c := BaseColor(tm, math.NewVec3(64, -64, 12))
		for _, ch := range []float32{c.R, c.G, c.B} {
			assert.GreaterOrEqual(t, ch, float32(0))
			assert.LessOrEqual(t, ch, float32(1))
		}
	}
}
