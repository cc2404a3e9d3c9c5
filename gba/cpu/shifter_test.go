package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftLSLEdgeCases(t *testing.T) {
	v, c := Shift(ShiftLSL, 0x1, 0, true, true)
	assert.Equal(t, uint32(0x1), v)
	assert.True(t, c, "LSL #0 leaves carry unchanged")

	v, c = Shift(ShiftLSL, 0x1, 32, false, false)
	assert.Equal(t, uint32(0), v)
	assert.True(t, c, "LSL by 32 carries out bit 0")

	v, c = Shift(ShiftLSL, 0xFFFFFFFF, 33, false, false)
	assert.Equal(t, uint32(0), v)
	assert.False(t, c, "LSL by more than 32 clears carry")
}

func TestShiftLSREdgeCases(t *testing.T) {
	v, c := Shift(ShiftLSR, 0x80000000, 0, true, false)
	assert.Equal(t, uint32(0), v, "encoded LSR #0 means LSR #32")
	assert.True(t, c)

	v, c = Shift(ShiftLSR, 0x7, 0, false, true)
	assert.Equal(t, uint32(0x7), v, "register-specified LSR #0 passes through")
	assert.True(t, c)
}

func TestShiftASREdgeCases(t *testing.T) {
	v, c := Shift(ShiftASR, 0x80000000, 0, true, false)
	assert.Equal(t, uint32(0xFFFFFFFF), v, "encoded ASR #0 sign-extends")
	assert.True(t, c)

	v, c = Shift(ShiftASR, 0x7FFFFFFF, 32, false, true)
	assert.Equal(t, uint32(0), v)
	assert.False(t, c)
}

func TestShiftRORRRX(t *testing.T) {
	v, c := Shift(ShiftROR, 0x1, 0, true, true)
	assert.Equal(t, uint32(0x80000000), v, "RRX shifts the old carry into bit 31")
	assert.True(t, c)

	v, c = Shift(ShiftROR, 0x2, 0, true, false)
	assert.Equal(t, uint32(0x1), v)
	assert.False(t, c)
}

func TestShiftRORMultipleOf32(t *testing.T) {
	v, c := Shift(ShiftROR, 0x80000001, 32, false, false)
	assert.Equal(t, uint32(0x80000001), v, "rotate by a multiple of 32 leaves value unchanged")
	assert.True(t, c, "carry takes the top bit")
}

func TestShiftRORRegisterZero(t *testing.T) {
	v, c := Shift(ShiftROR, 0x55, 0, false, true)
	assert.Equal(t, uint32(0x55), v)
	assert.True(t, c)
}
