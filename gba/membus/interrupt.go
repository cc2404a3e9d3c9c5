package membus

import "github.com/arn-dahl/gogba/gba/addr"

// RequestInterrupt raises the given interrupt kind.
// It is a no-op when the interrupt master enable is clear; otherwise it sets
// the corresponding bit of the interrupt flag register when the matching
// interrupt-enable bit is set.
func (b *Bus) RequestInterrupt(kind addr.InterruptKind) {
	if !b.ioBitSet(addr.IME, 0) {
		return
	}
	bitIndex := uint8(kind)
	if !b.ioBitSet(addr.IE, bitIndex) {
		return
	}
	b.setIOBit(addr.IF, bitIndex)
}

// PendingInterrupt reports the condition the processor core re-samples at
// the start of every tick: the interrupt flag register is non-zero and
// the interrupt master enable is set. Per-kind
// masking against the interrupt enable register already happened when the
// flag bit was set by RequestInterrupt.
func (b *Bus) PendingInterrupt() bool {
	if !b.ioBitSet(addr.IME, 0) {
		return false
	}
	return b.ReadHalfWord(addr.IF) != 0
}
