package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquarePeriodCyclesScalesWithPeriod(t *testing.T) {
	assert.Equal(t, 2048*16, squarePeriodCycles(0))
	assert.Equal(t, 16, squarePeriodCycles(2047))
	assert.Equal(t, 0, squarePeriodCycles(2048)) // out of range, clamps to silence
}

func TestWavePeriodCyclesIsHalfSquareFactor(t *testing.T) {
	assert.Equal(t, 2048*8, wavePeriodCycles(0))
}

func TestNoisePeriodCyclesUsesDividerTable(t *testing.T) {
	assert.Equal(t, 8*4, noisePeriodCycles(0, 0))
	assert.Equal(t, (112<<3)*4, noisePeriodCycles(7, 3))
}

func TestStepSquareTogglesDutyStepOnPeriodExpiry(t *testing.T) {
	ch := &Channel{period: 2047, volume: 5, duty: 0} // period 16 cycles
	stepSquare(ch, 20)
	assert.Equal(t, uint8(1), ch.dutyStep)
}

func TestStepSquareSilentAtZeroVolume(t *testing.T) {
	ch := &Channel{period: 100, volume: 0}
	assert.Equal(t, int64(0), stepSquare(ch, 10))
}

func TestSweepTargetComputesUpAndDown(t *testing.T) {
	chUp := &Channel{shadowFreq: 100, sweepStep: 1, sweepDown: false}
	freq, overflow := chUp.sweepTarget()
	assert.Equal(t, uint16(150), freq)
	assert.False(t, overflow)

	chDown := &Channel{shadowFreq: 100, sweepStep: 1, sweepDown: true}
	freq, overflow = chDown.sweepTarget()
	assert.Equal(t, uint16(50), freq)
	assert.False(t, overflow)
}

func TestSweepTargetDetectsOverflow(t *testing.T) {
	ch := &Channel{shadowFreq: 2047, sweepStep: 1, sweepDown: false}
	_, overflow := ch.sweepTarget()
	assert.True(t, overflow)
}

func TestTickEnvelopeIncrementsUpToMax(t *testing.T) {
	m := &Mixer{}
	m.ch[0].dacEnabled = true
	m.ch[0].envelopeUp = true
	m.ch[0].envelopePace = 1
	m.ch[0].volume = 14
	m.ch[0].envelopeCounter = 1

	m.tickEnvelope()
	assert.Equal(t, uint8(15), m.ch[0].volume)

	m.ch[0].envelopeCounter = 1
	m.tickEnvelope()
	assert.Equal(t, uint8(15), m.ch[0].volume) // latched at max, no further increment
	assert.True(t, m.ch[0].envelopeLatched)
}

func TestTickLengthDisablesAtZero(t *testing.T) {
	m := &Mixer{}
	m.ch[0].lengthEnable = true
	m.ch[0].length = 1
	m.ch[0].enabled = true

	m.tickLength()
	assert.Equal(t, uint16(0), m.ch[0].length)
	assert.False(t, m.ch[0].enabled)
}
