// Package uniform maps control state onto the named uniform values the
// displacement program reads.
package uniform

import (
	"sort"
	"strconv"

	"shader-scene/control"
	"shader-scene/displace"
	"shader-scene/math"
)

type Type int

const (
	TypeFloat Type = iota
	TypeBool
	TypeVec3
)

// String is the GLSL spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeVec3:
		return "vec3"
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

type Value struct {
	Type  Type
	Float float32
	Bool  bool
	Vec3  math.Vec3
}

const (
	Time           = "time"
	CameraForward  = "cameraForward"
	DotPower       = "dotPower"
	VertexLighting = "vertexLighting"
)

var axisTerms = [...]string{"ByLocalX", "ByLocalY", "ByLocalZ", "ByWorldX", "ByWorldY", "ByWorldZ", "Influence"}

// DisplacementName is the uniform for one displacement weight, e.g.
// DisplacementName('z', "Influence") is "zDisplacementInfluence".
func DisplacementName(axis byte, term string) string {
	return string(axis) + "Displacement" + term
}

// Set is the uniform table shared with the GPU program. Entries are created
// once by NewSet and only ever overwritten.
type Set struct {
	values map[string]Value
}

// NewSet returns a set holding every uniform the program declares, zeroed.
func NewSet() *Set {
	s := &Set{values: make(map[string]Value, 4+3*len(axisTerms))}
	s.values[Time] = Value{Type: TypeFloat}
	s.values[CameraForward] = Value{Type: TypeVec3}
	s.values[DotPower] = Value{Type: TypeFloat}
	s.values[VertexLighting] = Value{Type: TypeBool}
	for _, axis := range []byte{'x', 'y', 'z'} {
		for _, term := range axisTerms {
			s.values[DisplacementName(axis, term)] = Value{Type: TypeFloat}
		}
	}
	return s
}

func (s *Set) SetFloat(name string, v float32) {
	s.values[name] = Value{Type: TypeFloat, Float: v}
}

func (s *Set) SetBool(name string, v bool) {
	s.values[name] = Value{Type: TypeBool, Bool: v}
}

func (s *Set) SetVec3(name string, v math.Vec3) {
	s.values[name] = Value{Type: TypeVec3, Vec3: v}
}

func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Set) Len() int {
	return len(s.values)
}

// Names returns the uniform names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every entry in sorted name order.
func (s *Set) Each(fn func(name string, v Value)) {
	for _, name := range s.Names() {
		fn(name, s.values[name])
	}
}

// Derived carries the per-frame values that do not live in control state.
type Derived struct {
	Time          float32
	CameraForward math.Vec3
}

// Sync overwrites every entry of set from state and d. Calling it twice
// with the same inputs leaves the set unchanged.
func Sync(set *Set, state *control.State, d Derived) {
	set.SetFloat(Time, d.Time)
	set.SetVec3(CameraForward, d.CameraForward)
	set.SetFloat(DotPower, state.Shader.DotPower)
	set.SetBool(VertexLighting, state.Shader.VertexLighting)
	writeAxis(set, 'x', state.Shader.XDisplacement)
	writeAxis(set, 'y', state.Shader.YDisplacement)
	writeAxis(set, 'z', state.Shader.ZDisplacement)
}

func writeAxis(set *Set, axis byte, a displace.AxisDisplacement) {
	weights := [len(axisTerms)]float32{a.ByLocalX, a.ByLocalY, a.ByLocalZ, a.ByWorldX, a.ByWorldY, a.ByWorldZ, a.Influence}
	for i, term := range axisTerms {
		set.SetFloat(DisplacementName(axis, term), weights[i])
	}
}

// GLSLTypes maps every uniform name to its GLSL type, the form
// shaders.CheckUniforms expects.
func (s *Set) GLSLTypes() map[string]string {
	types := make(map[string]string, len(s.values))
	for name, v := range s.values {
		types[name] = v.Type.String()
	}
	return types
}
