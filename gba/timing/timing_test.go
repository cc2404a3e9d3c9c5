package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetFPSMatchesKnownHardwareRate(t *testing.T) {
	fps := TargetFPS()
	assert.InDelta(t, 59.7275, fps, 0.001)
}

func TestFrameDurationRoundTrips(t *testing.T) {
	d := FrameDuration()
	assert.Greater(t, d.Seconds(), 0.0)
	assert.Less(t, d.Seconds(), 1.0)
}

func TestNoOpLimiterNeverBlocks(t *testing.T) {
	l := NewNoOpLimiter()
	l.WaitForNextFrame()
	l.Reset()
}
