package audio

import "github.com/arn-dahl/gogba/gba/addr"

func waveRAMAddr(byteIndex uint8) uint32 {
	return addr.WaveRAMStart + uint32(byteIndex)
}

// flushMix downsamples the running per-cycle mix accumulator to the host
// sample rate, appending one interleaved stereo float32 pair to
// sampleBuffer whenever enough cycles have accumulated.
func (m *Mixer) flushMix(cycles int) {
	if m.cyclesPerSample == 0 {
		return
	}

	m.cycleAcc += float64(cycles)
	if m.cycleAcc < m.cyclesPerSample {
		return
	}
	m.cycleAcc -= m.cyclesPerSample

	left, right := m.exportMixedSample()
	m.sampleBuffer = append(m.sampleBuffer, left, right)
}

// exportMixedSample averages the accumulated per-cycle levels, applies the
// master volume, and clamps to [-1, 1].
func (m *Mixer) exportMixedSample() (float32, float32) {
	if m.mixAccumCycles == 0 {
		return 0, 0
	}

	leftAvg := m.mixLeftAcc / float64(m.mixAccumCycles)
	rightAvg := m.mixRightAcc / float64(m.mixAccumCycles)

	left := scaleToFloat(leftAvg, m.volLeft)
	right := scaleToFloat(rightAvg, m.volRight)

	m.mixLeftAcc, m.mixRightAcc, m.mixAccumCycles = 0, 0, 0

	return left, right
}

// scaleToFloat applies the 3-bit master-volume gain (0-7, GBA full scale
// at 7) and normalizes a per-channel level (max magnitude 15, four
// channels) into [-1, 1].
func scaleToFloat(avg float64, masterVol uint8) float32 {
	gain := float64(masterVol+1) / 8.0
	const channelScale = 1.0 / (15.0 * 4.0)
	value := avg * gain * channelScale
	if value > 1 {
		value = 1
	} else if value < -1 {
		value = -1
	}
	return float32(value)
}
