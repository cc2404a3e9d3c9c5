package audio

import (
	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/arn-dahl/gogba/gba/bit"
)

// syncRegisters re-derives channel state from the sound I/O registers by
// polling them every sample, rather than trapping individual register
// writes.
func (m *Mixer) syncRegisters(bus Bus) {
	status := bus.ReadHalfWord(addr.SOUNDCNT_X)
	m.enabled = bit.IsSet(7, uint32(status))
	if !m.enabled {
		for i := range m.ch {
			m.ch[i].enabled = false
		}
		return
	}

	control := bus.ReadHalfWord(addr.SOUNDCNT_L)
	m.volRight = uint8(bit.ExtractBits(uint32(control), 2, 0))
	m.vinRight = bit.IsSet(3, uint32(control))
	m.volLeft = uint8(bit.ExtractBits(uint32(control), 6, 4))
	m.vinLeft = bit.IsSet(7, uint32(control))
	for i := range 4 {
		m.ch[i].right = bit.IsSet(uint8(8+i), uint32(control))
		m.ch[i].left = bit.IsSet(uint8(12+i), uint32(control))
	}

	triggered0 := m.syncSquare(bus, 0, addr.SOUND1CNT_H, addr.SOUND1CNT_X)
	m.syncSweep(bus, triggered0)
	m.syncSquare(bus, 1, addr.SOUND2CNT_L, addr.SOUND2CNT_H)
	m.syncWave(bus)
	m.syncNoise(bus)
}

// syncSquare decodes the shared duty/length/envelope/frequency layout used
// by channels 1 and 2 (SOUND1CNT_H/X and SOUND2CNT_L/H), reporting whether
// this call observed a trigger edge so syncSweep (channel 1 only) can act
// on the same edge without re-deriving it from the already-advanced
// previous-register shadow.
func (m *Mixer) syncSquare(bus Bus, idx int, ctrlAddr, freqAddr uint32) bool {
	ch := &m.ch[idx]

	ctrl := uint32(bus.ReadHalfWord(ctrlAddr))
	ch.duty = uint8(bit.ExtractBits(ctrl, 7, 6))
	lengthTimer := bit.ExtractBits(ctrl, 5, 0)
	volume := uint8(bit.ExtractBits(ctrl, 15, 12))
	envelopeUp := bit.IsSet(11, ctrl)
	envelopePace := uint8(bit.ExtractBits(ctrl, 10, 8))
	dacEnabled := volume > 0 || envelopeUp

	freq := uint32(bus.ReadHalfWord(freqAddr))
	period := uint16(bit.ExtractBits(freq, 10, 0))
	lengthEnable := bit.IsSet(14, freq)
	triggered := bit.IsSet(15, freq) && !bit.IsSet(15, uint32(ch.prevHigh))
	ch.prevHigh = uint16(freq)

	ch.lengthEnable = lengthEnable
	ch.period = period
	ch.dacEnabled = dacEnabled

	if triggered {
		ch.volume = volume
		ch.envelopeUp = envelopeUp
		ch.envelopePace = envelopePace
		ch.envelopeLatched = false
		ch.envelopeCounter = pickPace(envelopePace)
		ch.dutyStep = 0
		ch.freqTimer = squarePeriodCycles(ch.period)
		if ch.length == 0 {
			ch.length = 64 - uint16(lengthTimer)
		}
		ch.enabled = ch.dacEnabled
	}
	if !ch.dacEnabled {
		ch.enabled = false
	}
	return triggered
}

// syncSweep decodes SOUND1CNT_L, channel 1's frequency-sweep control.
func (m *Mixer) syncSweep(bus Bus, triggered bool) {
	ch := &m.ch[0]
	sweep := uint32(bus.ReadHalfWord(addr.SOUND1CNT_L))
	ch.sweepStep = uint8(bit.ExtractBits(sweep, 2, 0))
	ch.sweepDown = bit.IsSet(3, sweep)
	ch.sweepPeriod = uint8(bit.ExtractBits(sweep, 6, 4))

	if triggered {
		ch.shadowFreq = ch.period
		ch.sweepEnabled = ch.sweepPeriod > 0 || ch.sweepStep > 0
		ch.sweepTimer = ch.sweepPeriod
		if ch.sweepTimer == 0 {
			ch.sweepTimer = 8
		}
		if ch.sweepStep > 0 {
			if _, overflow := ch.sweepTarget(); overflow {
				ch.enabled = false
			}
		}
	}
}

// syncWave decodes SOUND3CNT_L/H/X, the wave-table channel.
func (m *Mixer) syncWave(bus Bus) {
	ch := &m.ch[2]

	sel := uint32(bus.ReadHalfWord(addr.SOUND3CNT_L))
	ch.dacEnabled = bit.IsSet(7, sel)

	vol := uint32(bus.ReadHalfWord(addr.SOUND3CNT_H))
	ch.volume = uint8(bit.ExtractBits(vol, 14, 13))

	freq := uint32(bus.ReadHalfWord(addr.SOUND3CNT_X))
	ch.period = uint16(bit.ExtractBits(freq, 10, 0))
	ch.lengthEnable = bit.IsSet(14, freq)
	triggered := bit.IsSet(15, freq) && !bit.IsSet(15, uint32(ch.prevHigh))
	ch.prevHigh = uint16(freq)

	if triggered {
		ch.waveIndex = 0
		ch.freqTimer = wavePeriodCycles(ch.period)
		if ch.length == 0 {
			lengthTimer := uint8(bit.ExtractBits(vol, 7, 0))
			ch.length = 256 - uint16(lengthTimer)
		}
		ch.enabled = ch.dacEnabled
	}
	if !ch.dacEnabled {
		ch.enabled = false
	}
}

// syncNoise decodes SOUND4CNT_L/H, the LFSR noise channel.
func (m *Mixer) syncNoise(bus Bus) {
	ch := &m.ch[3]

	ctrl := uint32(bus.ReadHalfWord(addr.SOUND4CNT_L))
	lengthTimer := bit.ExtractBits(ctrl, 5, 0)
	volume := uint8(bit.ExtractBits(ctrl, 15, 12))
	envelopeUp := bit.IsSet(11, ctrl)
	envelopePace := uint8(bit.ExtractBits(ctrl, 10, 8))
	dacEnabled := volume > 0 || envelopeUp

	freq := uint32(bus.ReadHalfWord(addr.SOUND4CNT_H))
	ch.divider = uint8(bit.ExtractBits(freq, 2, 0))
	ch.use7bitLFSR = bit.IsSet(3, freq)
	ch.shift = uint8(bit.ExtractBits(freq, 7, 4))
	ch.lengthEnable = bit.IsSet(14, freq)
	ch.dacEnabled = dacEnabled
	triggered := bit.IsSet(15, freq) && !bit.IsSet(15, uint32(ch.prevHigh))
	ch.prevHigh = uint16(freq)

	if triggered {
		ch.volume = volume
		ch.envelopeUp = envelopeUp
		ch.envelopePace = envelopePace
		ch.envelopeLatched = false
		ch.envelopeCounter = pickPace(envelopePace)
		ch.lfsr = 0x7FFF
		ch.noiseTimer = noisePeriodCycles(ch.divider, ch.shift)
		if ch.length == 0 {
			ch.length = 64 - uint16(lengthTimer)
		}
		ch.enabled = ch.dacEnabled
	}
	if !ch.dacEnabled {
		ch.enabled = false
	}
}

func pickPace(pace uint8) uint8 {
	if pace == 0 {
		return 8
	}
	return pace
}
