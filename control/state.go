// Package control holds the live tuning state of the scene and the
// command machinery that mutates it.
package control

import (
	"shader-scene/displace"
)

type MeshControl struct {
	Resolution           int     `toml:"resolution"`
	ResolutionMultiplier float32 `toml:"resolutionMultiplier"`
	Wireframe            bool    `toml:"wireframe"`
	Backface             bool    `toml:"backface"`
}

type ShaderControl struct {
	DotPower       float32                   `toml:"dotPower"`
	VertexLighting bool                      `toml:"vertexLighting"`
	XDisplacement  displace.AxisDisplacement `toml:"xDisplacement"`
	YDisplacement  displace.AxisDisplacement `toml:"yDisplacement"`
	ZDisplacement  displace.AxisDisplacement `toml:"zDisplacement"`
}

// Displacement returns the per-axis weights in the form displace expects.
func (s ShaderControl) Displacement() displace.Params {
	return displace.Params{X: s.XDisplacement, Y: s.YDisplacement, Z: s.ZDisplacement}
}

type CameraControl struct {
	UseFreeCam bool    `toml:"useFreeCam"`
	Speed      float32 `toml:"speed"`
	XMultiply  float32 `toml:"xMultiply"`
	YMultiply  float32 `toml:"yMultiply"`
	ZMultiply  float32 `toml:"zMultiply"`
}

type BloomControl struct {
	Strength  float32 `toml:"strength"`
	Radius    float32 `toml:"radius"`
	Threshold float32 `toml:"threshold"`
}

type SceneControl struct {
	ShowAxis bool `toml:"showAxis"`
}

// State is every tunable value. It is read and written on the frame thread
// only; other goroutines go through a Queue.
type State struct {
	Mesh   MeshControl   `toml:"mesh"`
	Shader ShaderControl `toml:"shader"`
	Camera CameraControl `toml:"camera"`
	Bloom  BloomControl  `toml:"bloom"`
	Scene  SceneControl  `toml:"scene"`
}

func Default() State {
	return State{
		Mesh: MeshControl{
			Resolution:           128,
			ResolutionMultiplier: 1,
		},
		Shader: ShaderControl{
			DotPower:       5,
			VertexLighting: true,
			XDisplacement:  displace.AxisDisplacement{ByLocalX: 0.84, Influence: 1.15},
			YDisplacement:  displace.AxisDisplacement{ByLocalX: 0.95, Influence: 1.15},
			ZDisplacement:  displace.AxisDisplacement{ByLocalX: 1.13, Influence: 1.31},
		},
		Camera: CameraControl{
			Speed:     0.38,
			XMultiply: 2.4,
			YMultiply: 7.9,
			ZMultiply: 3.9,
		},
		Bloom: BloomControl{
			Strength:  0.6,
			Radius:    1.05,
			Threshold: 0,
		},
	}
}
