package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatusResetState(t *testing.T) {
	s := NewStatus()
	assert.Equal(t, ModeSupervisor, s.Mode())
	assert.True(t, s.IRQDisabled())
	assert.True(t, s.FIQDisabled())
	assert.False(t, s.Thumb())
}

func TestWithNZ(t *testing.T) {
	s := NewStatus().WithNZ(0)
	assert.True(t, s.Z())
	assert.False(t, s.N())

	s = s.WithNZ(0x80000000)
	assert.False(t, s.Z())
	assert.True(t, s.N())
}

func TestModeRoundTripPreservesFlags(t *testing.T) {
	s := NewStatus().WithN(true).WithC(true).WithMode(ModeIRQ)
	assert.True(t, s.N())
	assert.True(t, s.C())
	assert.Equal(t, ModeIRQ, s.Mode())
}

func TestControlAndFlagByteAreIndependentlyWritable(t *testing.T) {
	s := NewStatus().WithN(true).WithZ(true)
	s = s.WithControlByte(uint32(ModeUser))
	assert.Equal(t, ModeUser, s.Mode())
	assert.True(t, s.N(), "flag byte survives a control-byte-only MSR")
	assert.True(t, s.Z())

	s = s.WithFlagByte(0) // clear N,Z,C,V only
	assert.False(t, s.N())
	assert.Equal(t, ModeUser, s.Mode(), "control byte survives a flags-only MSR")
}
