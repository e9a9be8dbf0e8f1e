package bloom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shader-scene/control"
)

type recordingStage struct {
	strength, radius, threshold float32
	calls                       int
}

func (s *recordingStage) SetBloomStrength(v float32)  { s.strength = v; s.calls++ }
func (s *recordingStage) SetBloomRadius(v float32)    { s.radius = v; s.calls++ }
func (s *recordingStage) SetBloomThreshold(v float32) { s.threshold = v; s.calls++ }

func TestSyncVerbatim(t *testing.T) {
	tests := []struct {
		name string
		bc   control.BloomControl
	}{
		{"defaults", control.BloomControl{Strength: 0.6, Radius: 1.05, Threshold: 0}},
		{"out of range", control.BloomControl{Strength: 9, Radius: -1, Threshold: 4.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &recordingStage{}
			Sync(stage, tt.bc)
			assert.Equal(t, tt.bc.Strength, stage.strength)
			assert.Equal(t, tt.bc.Radius, stage.radius)
			assert.Equal(t, tt.bc.Threshold, stage.threshold)
			assert.Equal(t, 3, stage.calls)
		})
	}
}
