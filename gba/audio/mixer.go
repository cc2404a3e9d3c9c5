// Package audio implements a four-channel tone mixer: two pulse
// generators (channel 1 with frequency sweep), one wave-table channel,
// one noise channel, mixed to a stereo float32 stream.
//
// The mixer uses the same per-channel duty/envelope/length/sweep fields
// and 512 Hz frame-sequencer technique common to this class of sound
// hardware, generalized to this console's 16-bit sound-control
// registers. This subsystem is summarized, not cycle-exact: channels
// poll their control registers every sample rather than trapping
// writes, and sweep-negate latch quirks have no equivalent here.
package audio

import (
	"github.com/arn-dahl/gogba/gba/timing"
)

// cyclesPerStep is the number of CPU cycles per frame-sequencer tick: the
// sequencer runs at 512 Hz regardless of the host CPU clock.
const cyclesPerStep = timing.CPUFrequency / 512

// Bus is the subset of membus.Bus the mixer needs. The mixer never writes
// to the bus: per the concurrency model, the processor is the sole writer
// during normal operation (the compositor's VCOUNT/DISPSTAT write-back is
// the only documented exception), so sweep frequency updates stay internal
// to the mixer's own shadow state rather than being reflected back into
// guest-visible registers.
type Bus interface {
	ReadByte(address uint32) byte
	ReadHalfWord(address uint32) uint16
}

// Mixer is the four-channel audio mixer.
type Mixer struct {
	enabled bool
	ch      [4]Channel

	vinLeft, vinRight bool
	volLeft, volRight uint8

	step   int // frame-sequencer step, 0-7
	cycles int // cycles accumulated since the last sequencer tick

	mixLeftAcc, mixRightAcc float64
	mixAccumCycles          int

	sampleBuffer    []float32 // interleaved stereo, [-1, 1]
	cycleAcc        float64
	cyclesPerSample float64
	hostSampleRate  int
}

// Channel is one of the four generator channels. Not every field is used
// by every channel kind: sweep fields apply only to channel 1, waveIndex
// only to the wave channel, lfsr/shift/divider only to the noise channel.
type Channel struct {
	enabled     bool
	left, right bool

	duty   uint8
	length uint16
	volume uint8

	envelopeUp      bool
	envelopePace    uint8
	envelopeCounter uint8
	envelopeLatched bool

	sweepPeriod  uint8
	sweepDown    bool
	sweepStep    uint8
	sweepEnabled bool
	sweepTimer   uint8
	shadowFreq   uint16

	period       uint16
	lengthEnable bool
	freqTimer    int
	dutyStep     uint8

	waveIndex uint8

	lfsr        uint16
	use7bitLFSR bool
	shift       uint8
	divider     uint8
	noiseTimer  int

	dacEnabled bool
	prevHigh   uint16 // previous frequency/control halfword, for trigger-edge detection

	muted bool // debug-only
}

// New returns a Mixer producing samples at 48 kHz, the rate backends
// pull interleaved stereo float32 samples at.
func New() *Mixer {
	m := &Mixer{hostSampleRate: 48000}
	m.cyclesPerSample = float64(timing.CPUFrequency) / float64(m.hostSampleRate)
	return m
}

// Tick advances the mixer by cycles CPU T-cycles, polling the sound I/O
// registers for channel state every sample rather than trapping writes.
func (m *Mixer) Tick(bus Bus, cycles int) {
	m.syncRegisters(bus)
	if !m.enabled {
		return
	}

	m.tickGenerators(bus, cycles)
	m.cycles += cycles
	for m.cycles >= cyclesPerStep {
		m.cycles -= cyclesPerStep
		m.tickSequence()
	}
}

// GetSamples returns up to count interleaved stereo float32 samples,
// draining the mixer's internal buffer. Missing samples are zero-filled,
// matching "disabled channels emit silence".
func (m *Mixer) GetSamples(count int) []float32 {
	if count <= 0 {
		return nil
	}
	needed := count * 2
	out := make([]float32, needed)
	n := copy(out, m.sampleBuffer)
	if n < len(m.sampleBuffer) {
		m.sampleBuffer = append(m.sampleBuffer[:0], m.sampleBuffer[n:]...)
	} else {
		m.sampleBuffer = m.sampleBuffer[:0]
	}
	return out
}

// ToggleChannel toggles the debug mute state of a channel.
func (m *Mixer) ToggleChannel(idx int) {
	if idx < 0 || idx >= 4 {
		return
	}
	m.ch[idx].muted = !m.ch[idx].muted
}

// SoloChannel mutes every channel except idx; calling it again with the
// same channel unmutes all of them.
func (m *Mixer) SoloChannel(idx int) {
	if idx < 0 || idx >= 4 {
		return
	}
	soloed := !m.ch[idx].muted
	for i := range m.ch {
		if i != idx && !m.ch[i].muted {
			soloed = false
		}
	}
	for i := range m.ch {
		m.ch[i].muted = !soloed && i != idx
	}
}

// GetChannelStatus reports whether each channel is currently producing
// sound.
func (m *Mixer) GetChannelStatus() (ch1, ch2, ch3, ch4 bool) {
	return m.ch[0].enabled, m.ch[1].enabled, m.ch[2].enabled, m.ch[3].enabled
}

