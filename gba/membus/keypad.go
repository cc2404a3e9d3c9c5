package membus

import "github.com/arn-dahl/gogba/gba/addr"

const (
	keycntMasterEnable = 14
	keycntANDMode      = 15
)

// KeyEvent updates the key input register for the given key and, on a
// press, evaluates the key control register's AND/OR interrupt condition.
func (b *Bus) KeyEvent(key addr.Key, pressed bool) {
	bitIndex := uint8(key)
	if pressed {
		b.clearIOBit(addr.KEYINPUT, bitIndex) // 0 = pressed
	} else {
		b.setIOBit(addr.KEYINPUT, bitIndex) // 1 = released
	}

	if !pressed {
		return
	}

	control := b.ReadHalfWord(addr.KEYCNT)
	if control&(1<<keycntMasterEnable) == 0 {
		return
	}

	enabledMask := control & 0x03FF
	andMode := control&(1<<keycntANDMode) != 0

	input := b.ReadHalfWord(addr.KEYINPUT)
	pressedMask := ^input & 0x03FF

	var trigger bool
	if andMode {
		trigger = enabledMask != 0 && pressedMask&enabledMask == enabledMask
	} else {
		trigger = enabledMask&(1<<bitIndex) != 0
	}

	if trigger {
		b.RequestInterrupt(addr.InterruptKeypad)
	}
}
