package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec3(t *testing.T, expected, actual Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tol, "X")
	assert.InDelta(t, expected.Y, actual.Y, tol, "Y")
	assert.InDelta(t, expected.Z, actual.Z, tol, "Z")
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, NewVec3(4, 10, 18), v1.MulVec(v2))
	assert.Equal(t, float32(32), v1.Dot(v2))

	// Right x Up = Front in a right-handed system
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	assert.Equal(t, NewVec3(1, 0, 0), NewVec3(3, 0, 0).Normalize())
	assert.InDelta(t, 1, NewVec3(1, 2, 3).Normalize().Length(), tol)
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestVec3IsFinite(t *testing.T) {
	assert.True(t, NewVec3(1, -2, 3).IsFinite())
	assert.False(t, NewVec3(math32.NaN(), 0, 0).IsFinite())
	assert.False(t, NewVec3(0, math32.Inf(1), 0).IsFinite())
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)
	assert.Equal(t, translation, m.MulPoint(Vec3Zero))
	assert.Equal(t, Mat4Identity(), Mat4Identity().Mul(Mat4Identity()))
}

func TestQuaternionFromBasis(t *testing.T) {
	// Basis of a camera at +X looking at the origin.
	right := NewVec3(0, 0, -1)
	up := Vec3Up
	back := Vec3Right

	q := QuaternionFromBasis(right, up, back)
	assertVec3(t, right, q.RotateVector(Vec3Right))
	assertVec3(t, up, q.RotateVector(Vec3Up))
	assertVec3(t, back, q.RotateVector(Vec3Front))
	assertVec3(t, NewVec3(-1, 0, 0), q.RotateVector(Vec3Back))
}

func TestQuaternionToMat4MatchesRotateVector(t *testing.T) {
	// Camera at (3,4,5) looking at the origin.
	back := NewVec3(3, 4, 5).Normalize()
	right := Vec3Up.Cross(back).Normalize()
	q := QuaternionFromBasis(right, back.Cross(right), back)
	v := NewVec3(0.3, -2, 5)
	assertVec3(t, q.RotateVector(v), q.ToMat4().MulPoint(v))
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
