// Package gba ties the processor core, frame compositor, audio mixer,
// and memory bus into a single steppable console.
package gba

import (
	"log/slog"

	"github.com/arn-dahl/gogba/gba/audio"
	"github.com/arn-dahl/gogba/gba/cpu"
	"github.com/arn-dahl/gogba/gba/debug"
	"github.com/arn-dahl/gogba/gba/membus"
	"github.com/arn-dahl/gogba/gba/timing"
	"github.com/arn-dahl/gogba/gba/video"
)

// Console owns the processor, compositor, mixer, and the bus connecting
// them, and drives them forward one CPU step at a time.
type Console struct {
	cpu   *cpu.CPU
	video *video.Compositor
	audio *audio.Mixer
	bus   *membus.Bus

	cycles     uint64
	frameCount uint64
}

func newConsole(bus *membus.Bus) *Console {
	return &Console{
		cpu:   cpu.New(bus),
		video: video.NewCompositor(bus),
		audio: audio.New(),
		bus:   bus,
	}
}

// New returns a console with no firmware or cartridge loaded; the bus
// regions stay zeroed until LoadFirmware/LoadCartridge are called.
func New() *Console {
	return newConsole(membus.New())
}

// NewWithFiles loads firmware and cartridge images and returns a console
// ready to run. Either path may be empty to leave that region zeroed.
func NewWithFiles(firmwarePath, cartridgePath string) (*Console, error) {
	bus := membus.New()

	if firmwarePath != "" {
		if err := bus.LoadFirmware(firmwarePath); err != nil {
			return nil, err
		}
	}
	if cartridgePath != "" {
		if err := bus.LoadCartridge(cartridgePath); err != nil {
			return nil, err
		}
	}

	return newConsole(bus), nil
}

// Bus returns the console's memory bus, for backends that need direct
// access (keypad events, debug snapshots).
func (c *Console) Bus() *membus.Bus { return c.bus }

// CPU returns the console's processor core.
func (c *Console) CPU() *cpu.CPU { return c.cpu }

// Audio returns the console's audio mixer.
func (c *Console) Audio() *audio.Mixer { return c.audio }

// Step executes a single CPU instruction, advances the compositor and
// mixer by the cycles it took, and returns that cycle count.
func (c *Console) Step() int {
	cycles := c.cpu.Step()

	for i := 0; i < cycles; i++ {
		c.cycles++
		c.video.Tick(c.cycles)
	}
	c.audio.Tick(c.bus, cycles)

	return cycles
}

// RunUntilFrame steps the console until the compositor finishes a
// complete frame, and returns it.
func (c *Console) RunUntilFrame() *video.Framebuffer {
	startFrame := c.cycles / timing.CyclesPerFrame

	for c.cycles/timing.CyclesPerFrame == startFrame {
		c.Step()
	}

	c.frameCount++
	if c.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", c.frameCount, "pc", c.cpu.R(15))
	}

	return c.video.Framebuffer()
}

// ExtractDebugData captures a point-in-time register and memory
// snapshot, satisfying backend.DebugDataProvider.
func (c *Console) ExtractDebugData() *debug.Snapshot {
	return debug.Capture(c.cpu, c.bus)
}

// FrameCount returns the number of complete frames rendered so far.
func (c *Console) FrameCount() uint64 { return c.frameCount }

// Cycles returns the total number of CPU cycles executed so far.
func (c *Console) Cycles() uint64 { return c.cycles }
