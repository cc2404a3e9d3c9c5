package audio

// Period helpers. Channels 1-3 share the GBA's (and DMG's) sound clock
// convention: frequency = base/(2048-period). That reference clock runs at
// 1/4 of CPUFrequency, so a full period lasts period*16 CPU cycles for the
// square channels and period*8 for the wave channel (four times the DMG's
// corresponding period*4/period*2, matching the 4x faster CPU clock).
func squarePeriodCycles(period uint16) int {
	p := 2048 - int(period)
	if p <= 0 {
		return 0
	}
	return p * 16
}

func wavePeriodCycles(period uint16) int {
	p := 2048 - int(period&0x7FF)
	if p <= 0 {
		return 0
	}
	return p * 8
}

var noiseDividers = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

func noisePeriodCycles(divider, shift uint8) int {
	p := noiseDividers[divider&0x7] << shift
	if p <= 0 {
		return 0
	}
	return p * 4
}

var dutyPatterns = [4][8]int64{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// sweepTarget computes the would-be swept frequency without mutating
// channel state, for the overflow check on trigger and on each sweep tick.
func (ch *Channel) sweepTarget() (newFreq uint16, overflow bool) {
	change := ch.shadowFreq >> ch.sweepStep
	if ch.sweepDown {
		if change > ch.shadowFreq {
			newFreq = 0
		} else {
			newFreq = ch.shadowFreq - change
		}
	} else {
		newFreq = ch.shadowFreq + change
	}
	return newFreq, newFreq > 2047
}

// tickGenerators advances each enabled channel's waveform position by
// cycles CPU cycles and mixes the resulting levels into the sample
// accumulator.
func (m *Mixer) tickGenerators(bus Bus, cycles int) {
	if cycles <= 0 {
		return
	}

	var left, right int64
	for i := range m.ch {
		ch := &m.ch[i]
		if !ch.enabled || !ch.dacEnabled || ch.muted {
			continue
		}

		var level int64
		switch i {
		case 0, 1:
			level = stepSquare(ch, cycles)
		case 2:
			level = stepWave(ch, cycles, bus)
		case 3:
			level = stepNoise(ch, cycles)
		}
		if level == 0 {
			continue
		}
		if ch.left {
			left += level
		}
		if ch.right {
			right += level
		}
	}

	m.mixLeftAcc += float64(left) * float64(cycles)
	m.mixRightAcc += float64(right) * float64(cycles)
	m.mixAccumCycles += cycles
	m.flushMix(cycles)
}

func stepSquare(ch *Channel, cycles int) int64 {
	period := squarePeriodCycles(ch.period)
	if period == 0 {
		return 0
	}
	if ch.freqTimer <= 0 {
		ch.freqTimer = period
	}
	ch.freqTimer -= cycles
	for ch.freqTimer <= 0 {
		ch.freqTimer += period
		ch.dutyStep = (ch.dutyStep + 1) & 0x7
	}

	if ch.volume == 0 {
		return 0
	}
	level := int64(ch.volume)
	if dutyPatterns[ch.duty&0x3][ch.dutyStep] == 0 {
		return -level
	}
	return level
}

func stepWave(ch *Channel, cycles int, bus Bus) int64 {
	period := wavePeriodCycles(ch.period)
	if period == 0 {
		return 0
	}
	if ch.freqTimer <= 0 {
		ch.freqTimer = period
	}
	ch.freqTimer -= cycles
	for ch.freqTimer <= 0 {
		ch.freqTimer += period
		ch.waveIndex = (ch.waveIndex + 1) & 0x1F
	}

	sample := int64(readWaveNibble(bus, ch.waveIndex)) - 8
	switch ch.volume & 0b11 {
	case 0:
		return 0
	case 1:
		return sample
	case 2:
		return sample / 2
	case 3:
		return sample / 4
	default:
		return sample
	}
}

func stepNoise(ch *Channel, cycles int) int64 {
	period := noisePeriodCycles(ch.divider, ch.shift)
	if period == 0 {
		return 0
	}
	if ch.lfsr == 0 {
		ch.lfsr = 0x7FFF
	}
	if ch.noiseTimer <= 0 {
		ch.noiseTimer = period
	}
	ch.noiseTimer -= cycles
	for ch.noiseTimer <= 0 {
		ch.noiseTimer += period
		feedback := (ch.lfsr & 1) ^ ((ch.lfsr >> 1) & 1)
		ch.lfsr = (ch.lfsr >> 1) | (feedback << 14)
		if ch.use7bitLFSR {
			ch.lfsr = (ch.lfsr &^ (1 << 6)) | (feedback << 6)
		}
	}

	if ch.volume == 0 {
		return 0
	}
	level := int64(ch.volume)
	if ch.lfsr&1 == 1 {
		return -level
	}
	return level
}

func readWaveNibble(bus Bus, index uint8) uint8 {
	b := bus.ReadByte(waveRAMAddr(index >> 1))
	if index&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// tickSequence advances the frame sequencer by one step, clocking length
// at 256 Hz (every other step), sweep at 128 Hz (every fourth step), and
// envelope at 64 Hz (once per full cycle).
func (m *Mixer) tickSequence() {
	switch m.step {
	case 0, 2, 4, 6:
		m.tickLength()
	}
	if m.step == 2 || m.step == 6 {
		m.tickSweep()
	}
	if m.step == 7 {
		m.tickEnvelope()
	}
	m.step = (m.step + 1) % 8
}

func (m *Mixer) tickLength() {
	for i := range m.ch {
		ch := &m.ch[i]
		if ch.lengthEnable && ch.length > 0 {
			ch.length--
			if ch.length == 0 {
				ch.enabled = false
			}
		}
	}
}

func (m *Mixer) tickSweep() {
	ch := &m.ch[0]
	if !ch.sweepEnabled || ch.sweepPeriod == 0 {
		return
	}

	ch.sweepTimer--
	if ch.sweepTimer > 0 {
		return
	}
	ch.sweepTimer = ch.sweepPeriod

	newFreq, overflow := ch.sweepTarget()
	if overflow {
		ch.enabled = false
		return
	}
	if ch.sweepStep == 0 {
		return
	}
	ch.shadowFreq = newFreq
	ch.period = newFreq

	if _, overflow := ch.sweepTarget(); overflow {
		ch.enabled = false
	}
}

func (m *Mixer) tickEnvelope() {
	for _, i := range [3]int{0, 1, 3} {
		ch := &m.ch[i]
		if !ch.dacEnabled || ch.envelopeLatched {
			continue
		}

		pace := pickPace(ch.envelopePace)
		if ch.envelopeCounter == 0 {
			ch.envelopeCounter = pace
		}
		ch.envelopeCounter--
		if ch.envelopeCounter > 0 {
			continue
		}

		if ch.envelopeUp {
			if ch.volume < 15 {
				ch.volume++
				ch.envelopeCounter = pace
			} else {
				ch.envelopeLatched = true
			}
		} else {
			if ch.volume > 0 {
				ch.volume--
				ch.envelopeCounter = pace
			} else {
				ch.envelopeLatched = true
			}
		}
	}
}
