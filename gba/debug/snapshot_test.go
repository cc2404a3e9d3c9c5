package debug

import (
	"testing"

	"github.com/arn-dahl/gogba/gba/cpu"
	"github.com/arn-dahl/gogba/gba/membus"
	"github.com/stretchr/testify/assert"
)

func TestCaptureCopiesRegistersAndMemory(t *testing.T) {
	bus := membus.New()
	bus.VRAM()[10] = 0xAB
	c := cpu.New(bus)

	snap := Capture(c, bus)

	assert.Equal(t, byte(0xAB), snap.VRAM[10])
	assert.Len(t, snap.IWRAM, len(bus.IWRAM()))
	assert.Len(t, snap.Palette, len(bus.Palette()))
	assert.Len(t, snap.OAM, len(bus.OAM()))
	assert.Len(t, snap.IO, len(bus.IO()))
	assert.Equal(t, uint32(0), snap.PC)
}

func TestCaptureIsIndependentOfLiveMemory(t *testing.T) {
	bus := membus.New()
	c := cpu.New(bus)

	snap := Capture(c, bus)
	bus.VRAM()[0] = 0xFF

	assert.Equal(t, byte(0), snap.VRAM[0])
}
