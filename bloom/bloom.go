// Package bloom forwards the bloom controls to the post-process stage.
package bloom

import "shader-scene/control"

// Stage is a bloom post-process pass.
type Stage interface {
	SetBloomStrength(v float32)
	SetBloomRadius(v float32)
	SetBloomThreshold(v float32)
}

// Sync copies the three values verbatim. Range handling is up to the stage.
func Sync(stage Stage, bc control.BloomControl) {
	stage.SetBloomStrength(bc.Strength)
	stage.SetBloomRadius(bc.Radius)
	stage.SetBloomThreshold(bc.Threshold)
}
