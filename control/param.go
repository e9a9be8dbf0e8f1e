package control

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
)

// ParamID is the stable dotted name of a tunable field, e.g. "bloom.radius".
type ParamID string

type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Class tells the frame loop what a change to the parameter requires.
type Class int

const (
	// ShaderOnly values are read fresh every frame by the uniform, camera
	// and bloom syncs; changing them needs no extra work.
	ShaderOnly Class = iota
	// TopologyAffecting values require the mesh to be rebuilt.
	TopologyAffecting
	// HelperVisibility values add or remove scene helpers.
	HelperVisibility
)

func (c Class) String() string {
	switch c {
	case ShaderOnly:
		return "shader"
	case TopologyAffecting:
		return "topology"
	case HelperVisibility:
		return "helper"
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Value is a tagged parameter value. The zero Value is a float 0.
type Value struct {
	Kind  Kind
	Float float32
	Int   int
	Bool  bool
}

func FloatValue(f float32) Value { return Value{Kind: KindFloat, Float: f} }
func IntValue(i int) Value       { return Value{Kind: KindInt, Int: i} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
}

// Range is the slider range a UI source clamps to. Bounded is false for
// parameters with only a step, such as the resolution multiplier.
type Range struct {
	Min, Max float64
	Step     float64
	Bounded  bool
}

// Param binds an ID to one field of State.
type Param struct {
	ID    ParamID
	Kind  Kind
	Class Class
	Range Range

	floatField func(*State) *float32
	intField   func(*State) *int
	boolField  func(*State) *bool

	// intFloor is the smallest int the field may ever hold, regardless of
	// who sets it. Only meaningful when hasFloor is set.
	intFloor int
	hasFloor bool
}

func (p *Param) Get(s *State) Value {
	switch p.Kind {
	case KindInt:
		return IntValue(*p.intField(s))
	case KindBool:
		return BoolValue(*p.boolField(s))
	}
	return FloatValue(*p.floatField(s))
}

// Set stores v and returns the value actually held afterwards.
func (p *Param) Set(s *State, v Value) (Value, error) {
	if v.Kind != p.Kind {
		return Value{}, fmt.Errorf("%s: want %s, got %s: %w", p.ID, p.Kind, v.Kind, ErrKindMismatch)
	}
	switch p.Kind {
	case KindInt:
		if p.hasFloor && v.Int < p.intFloor {
			v.Int = p.intFloor
		}
		*p.intField(s) = v.Int
	case KindBool:
		*p.boolField(s) = v.Bool
	default:
		if math32.IsNaN(v.Float) || math32.IsInf(v.Float, 0) {
			return Value{}, fmt.Errorf("%s: %v: %w", p.ID, v.Float, ErrNotFinite)
		}
		*p.floatField(s) = v.Float
	}
	return v, nil
}

// Clamp limits a numeric value to the parameter's range. Unbounded params
// and bools are returned unchanged.
func (p *Param) Clamp(v Value) Value {
	if !p.Range.Bounded {
		return v
	}
	switch v.Kind {
	case KindFloat:
		v.Float = float32(min(max(float64(v.Float), p.Range.Min), p.Range.Max))
	case KindInt:
		v.Int = int(min(max(float64(v.Int), p.Range.Min), p.Range.Max))
	}
	return v
}

func (p *Param) validate() error {
	var have []Kind
	if p.floatField != nil {
		have = append(have, KindFloat)
	}
	if p.intField != nil {
		have = append(have, KindInt)
	}
	if p.boolField != nil {
		have = append(have, KindBool)
	}
	if len(have) != 1 || have[0] != p.Kind {
		return fmt.Errorf("param %q: kind %s does not match its accessor", p.ID, p.Kind)
	}
	if p.Range.Bounded && p.Range.Min > p.Range.Max {
		return fmt.Errorf("param %q: range min %g > max %g", p.ID, p.Range.Min, p.Range.Max)
	}
	if p.Range.Step < 0 {
		return fmt.Errorf("param %q: negative step", p.ID)
	}
	return nil
}

func floatParam(id ParamID, class Class, r Range, field func(*State) *float32) Param {
	return Param{ID: id, Kind: KindFloat, Class: class, Range: r, floatField: field}
}

func intParam(id ParamID, class Class, r Range, field func(*State) *int) Param {
	return Param{ID: id, Kind: KindInt, Class: class, Range: r, intField: field}
}

func boolParam(id ParamID, class Class, field func(*State) *bool) Param {
	return Param{ID: id, Kind: KindBool, Class: class, boolField: field}
}

func bounded(lo, hi, step float64) Range {
	return Range{Min: lo, Max: hi, Step: step, Bounded: true}
}
