package control

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"shader-scene/displace"
)

const (
	MeshResolution           ParamID = "mesh.resolution"
	MeshResolutionMultiplier ParamID = "mesh.resolutionMultiplier"
	MeshWireframe            ParamID = "mesh.wireframe"
	MeshBackface             ParamID = "mesh.backface"

	ShaderDotPower       ParamID = "shader.dotPower"
	ShaderVertexLighting ParamID = "shader.vertexLighting"

	CameraUseFreeCam ParamID = "camera.useFreeCam"
	CameraSpeed      ParamID = "camera.speed"
	CameraXMultiply  ParamID = "camera.xMultiply"
	CameraYMultiply  ParamID = "camera.yMultiply"
	CameraZMultiply  ParamID = "camera.zMultiply"

	BloomStrength  ParamID = "bloom.strength"
	BloomRadius    ParamID = "bloom.radius"
	BloomThreshold ParamID = "bloom.threshold"

	SceneShowAxis ParamID = "scene.showAxis"
)

// DisplacementTerms lists the per-axis field names in uniform order.
var DisplacementTerms = []string{"byLocalX", "byLocalY", "byLocalZ", "byWorldX", "byWorldY", "byWorldZ", "influence"}

// DisplacementParam names one displacement weight, e.g.
// DisplacementParam('y', "byWorldZ") is "shader.yDisplacement.byWorldZ".
func DisplacementParam(axis byte, term string) ParamID {
	return ParamID(fmt.Sprintf("shader.%cDisplacement.%s", axis, term))
}

// Table is an immutable, validated set of parameters.
type Table struct {
	params []*Param
	byID   map[ParamID]*Param
}

// NewTable validates params and indexes them by ID.
func NewTable(params []Param) (*Table, error) {
	t := &Table{byID: make(map[ParamID]*Param, len(params))}
	for i := range params {
		p := new(Param)
		*p = params[i]
		if p.ID == "" {
			return nil, fmt.Errorf("param %d: empty id", i)
		}
		if _, dup := t.byID[p.ID]; dup {
			return nil, fmt.Errorf("param %q: duplicate id", p.ID)
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		t.byID[p.ID] = p
		t.params = append(t.params, p)
	}
	return t, nil
}

func (t *Table) Lookup(id ParamID) (*Param, error) {
	p, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownParam)
	}
	return p, nil
}

// Check reports every float parameter in s that holds NaN or an infinity.
func (t *Table) Check(s *State) error {
	var errs []error
	for _, p := range t.params {
		if p.Kind != KindFloat {
			continue
		}
		if f := *p.floatField(s); math32.IsNaN(f) || math32.IsInf(f, 0) {
			errs = append(errs, fmt.Errorf("%s: %v: %w", p.ID, f, ErrNotFinite))
		}
	}
	return errors.Join(errs...)
}

// Params returns the parameters in declaration order.
func (t *Table) Params() []*Param {
	return t.params
}

var standard = mustTable(standardParams())

// Standard returns the table covering every field of State.
func Standard() *Table {
	return standard
}

func mustTable(params []Param) *Table {
	t, err := NewTable(params)
	if err != nil {
		panic(err)
	}
	return t
}

func standardParams() []Param {
	params := []Param{
		{
			ID: MeshResolution, Kind: KindInt, Class: TopologyAffecting,
			Range:    bounded(1, 128, 1),
			intField: func(s *State) *int { return &s.Mesh.Resolution },
			intFloor: 1, hasFloor: true,
		},
		floatParam(MeshResolutionMultiplier, TopologyAffecting, Range{Step: 0.25},
			func(s *State) *float32 { return &s.Mesh.ResolutionMultiplier }),
		boolParam(MeshWireframe, TopologyAffecting, func(s *State) *bool { return &s.Mesh.Wireframe }),
		boolParam(MeshBackface, TopologyAffecting, func(s *State) *bool { return &s.Mesh.Backface }),

		floatParam(ShaderDotPower, ShaderOnly, bounded(1, 32, 1),
			func(s *State) *float32 { return &s.Shader.DotPower }),
		boolParam(ShaderVertexLighting, ShaderOnly, func(s *State) *bool { return &s.Shader.VertexLighting }),
	}

	axes := []struct {
		name byte
		axis func(*State) *displace.AxisDisplacement
	}{
		{'x', func(s *State) *displace.AxisDisplacement { return &s.Shader.XDisplacement }},
		{'y', func(s *State) *displace.AxisDisplacement { return &s.Shader.YDisplacement }},
		{'z', func(s *State) *displace.AxisDisplacement { return &s.Shader.ZDisplacement }},
	}
	for _, a := range axes {
		for _, term := range DisplacementTerms {
			params = append(params, floatParam(DisplacementParam(a.name, term), ShaderOnly,
				bounded(0, 2, 0.01), axisField(a.axis, term)))
		}
	}

	params = append(params,
		boolParam(CameraUseFreeCam, ShaderOnly, func(s *State) *bool { return &s.Camera.UseFreeCam }),
		floatParam(CameraSpeed, ShaderOnly, bounded(0, 2, 0.02),
			func(s *State) *float32 { return &s.Camera.Speed }),
		floatParam(CameraXMultiply, ShaderOnly, bounded(0, 10, 0.1),
			func(s *State) *float32 { return &s.Camera.XMultiply }),
		floatParam(CameraYMultiply, ShaderOnly, bounded(0, 10, 0.1),
			func(s *State) *float32 { return &s.Camera.YMultiply }),
		floatParam(CameraZMultiply, ShaderOnly, bounded(0, 10, 0.1),
			func(s *State) *float32 { return &s.Camera.ZMultiply }),

		floatParam(BloomStrength, ShaderOnly, bounded(0, 3, 0.05),
			func(s *State) *float32 { return &s.Bloom.Strength }),
		floatParam(BloomRadius, ShaderOnly, bounded(0, 3, 0.05),
			func(s *State) *float32 { return &s.Bloom.Radius }),
		floatParam(BloomThreshold, ShaderOnly, bounded(0, 3, 0.05),
			func(s *State) *float32 { return &s.Bloom.Threshold }),

		boolParam(SceneShowAxis, HelperVisibility, func(s *State) *bool { return &s.Scene.ShowAxis }),
	)
	return params
}

func axisField(axis func(*State) *displace.AxisDisplacement, term string) func(*State) *float32 {
	switch term {
	case "byLocalX":
		return func(s *State) *float32 { return &axis(s).ByLocalX }
	case "byLocalY":
		return func(s *State) *float32 { return &axis(s).ByLocalY }
	case "byLocalZ":
		return func(s *State) *float32 { return &axis(s).ByLocalZ }
	case "byWorldX":
		return func(s *State) *float32 { return &axis(s).ByWorldX }
	case "byWorldY":
		return func(s *State) *float32 { return &axis(s).ByWorldY }
	case "byWorldZ":
		return func(s *State) *float32 { return &axis(s).ByWorldZ }
	case "influence":
		return func(s *State) *float32 { return &axis(s).Influence }
	}
	// Leaves the accessor nil so table validation fails.
	return nil
}
