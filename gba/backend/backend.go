// Package backend defines the display/input/audio-sink boundary a driver
// implements. The core never imports a concrete backend; cmd/gogba wires
// one in. File loading, argument parsing, and windowing toolkit choice are
// all out of scope for the core and live entirely behind this interface.
package backend

import (
	"github.com/arn-dahl/gogba/gba/debug"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
	"github.com/arn-dahl/gogba/gba/video"
)

// InputEvent is a single reported input transition, independent of which
// physical key or controller produced it.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig configures a Backend at Init time.
type BackendConfig struct {
	Title         string
	Scale         int
	VSync         bool
	Fullscreen    bool
	ShowDebug     bool
	DebugProvider DebugDataProvider
	AudioProvider AudioProvider
}

// AudioProvider is the sample-producing surface a backend's audio sink
// pulls from every Update; gba/audio.Mixer satisfies it directly.
type AudioProvider interface {
	GetSamples(count int) []float32
}

// DebugDataProvider lets a backend pull a point-in-time memory snapshot
// for an on-screen or separate debug view.
type DebugDataProvider interface {
	ExtractDebugData() *debug.Snapshot
}

// Backend renders a Framebuffer and reports input for one frame at a time.
// Update is called once per frame with the frame just composited.
type Backend interface {
	Init(config BackendConfig) error
	Update(frame *video.Framebuffer) ([]InputEvent, error)
	Cleanup() error
}
