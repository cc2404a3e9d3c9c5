// Package debug collects raw, point-in-time memory and register dumps for
// a backend's debug view. It never interprets or disassembles anything:
// presentation is the backend's job.
package debug

import (
	"time"

	"github.com/arn-dahl/gogba/gba/cpu"
	"github.com/arn-dahl/gogba/gba/membus"
)

// Snapshot is a raw copy of the registers and memory regions a debug
// view wants to inspect, taken at a single point in time so a slow
// renderer doesn't read a moving target.
type Snapshot struct {
	Timestamp time.Time

	PC, CPSR uint32
	GeneralRegs [16]uint32

	IWRAM   []byte
	Palette []byte
	VRAM    []byte
	OAM     []byte
	IO      []byte
}

// Capture copies the current register file and memory regions out of c
// and bus into a Snapshot. The returned slices are independent copies;
// mutating them does not affect the running console.
func Capture(c *cpu.CPU, bus *membus.Bus) *Snapshot {
	s := &Snapshot{
		Timestamp: time.Now(),
		PC:        c.Regs.Get(c.Mode(), 15),
		CPSR:      uint32(c.Regs.CPSR()),
	}
	for i := uint8(0); i < 16; i++ {
		s.GeneralRegs[i] = c.Regs.Get(c.Mode(), i)
	}

	s.IWRAM = cloneBytes(bus.IWRAM())
	s.Palette = cloneBytes(bus.Palette())
	s.VRAM = cloneBytes(bus.VRAM())
	s.OAM = cloneBytes(bus.OAM())
	s.IO = cloneBytes(bus.IO())

	return s
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
