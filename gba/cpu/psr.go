package cpu

import "github.com/arn-dahl/gogba/gba/bit"

// Status bit positions within a packed program status word: condition
// flags at the top, interrupt masks and the state bit in the control
// byte, mode in the low 5 bits.
const (
	flagV uint8 = 28
	flagC uint8 = 29
	flagZ uint8 = 30
	flagN uint8 = 31

	bitI uint8 = 7 // IRQ disable
	bitF uint8 = 6 // FIQ disable
	bitT uint8 = 5 // Thumb (T-mode) state

	modeMask uint32 = 0x1F
)

// Status is a packed program status word (CPSR or a banked SPSR): the four
// condition flags, the interrupt masks, the instruction-set state bit, and
// the current mode, all in a single 32-bit value.
type Status uint32

// NewStatus builds the reset status word: Supervisor mode, A-mode, both
// interrupt sources masked, flags clear.
func NewStatus() Status {
	s := Status(0)
	s = s.WithMode(ModeSupervisor)
	s = s.WithIRQDisabled(true)
	s = s.WithFIQDisabled(true)
	return s
}

func (s Status) N() bool { return bit.IsSet(flagN, uint32(s)) }
func (s Status) Z() bool { return bit.IsSet(flagZ, uint32(s)) }
func (s Status) C() bool { return bit.IsSet(flagC, uint32(s)) }
func (s Status) V() bool { return bit.IsSet(flagV, uint32(s)) }

func (s Status) WithN(v bool) Status { return s.withFlag(flagN, v) }
func (s Status) WithZ(v bool) Status { return s.withFlag(flagZ, v) }
func (s Status) WithC(v bool) Status { return s.withFlag(flagC, v) }
func (s Status) WithV(v bool) Status { return s.withFlag(flagV, v) }

// WithNZ sets N and Z from the sign and zero-ness of result, the common
// case for data-processing flag updates.
func (s Status) WithNZ(result uint32) Status {
	return s.WithN(result&0x80000000 != 0).WithZ(result == 0)
}

func (s Status) IRQDisabled() bool { return bit.IsSet(bitI, uint32(s)) }
func (s Status) FIQDisabled() bool { return bit.IsSet(bitF, uint32(s)) }
func (s Status) Thumb() bool       { return bit.IsSet(bitT, uint32(s)) }

func (s Status) WithIRQDisabled(v bool) Status { return s.withFlag(bitI, v) }
func (s Status) WithFIQDisabled(v bool) Status { return s.withFlag(bitF, v) }
func (s Status) WithThumb(v bool) Status       { return s.withFlag(bitT, v) }

func (s Status) Mode() Mode { return Mode(uint32(s) & modeMask) }

func (s Status) WithMode(m Mode) Status {
	return Status((uint32(s) &^ modeMask) | uint32(m)&modeMask)
}

func (s Status) withFlag(index uint8, v bool) Status {
	if v {
		return Status(bit.Set(index, uint32(s)))
	}
	return Status(bit.Reset(index, uint32(s)))
}

// controlByteMask and flagByteMask select the two MSR-writable byte fields:
// the control byte (mode, T, I, F — bits 7-0) and the flag byte (bits
// 31-24). MSR with only the flags field selected must leave mode/T/I/F
// untouched, and vice versa.
const (
	controlByteMask uint32 = 0x000000FF
	flagByteMask    uint32 = 0xFF000000
)

// WithControlByte replaces the low 8 bits (mode, T, F, I) with those of v,
// leaving the flag byte untouched. Used by MSR when the control field mask
// bit is set.
func (s Status) WithControlByte(v uint32) Status {
	return Status((uint32(s) &^ controlByteMask) | (v & controlByteMask))
}

// WithFlagByte replaces the top 8 bits (N,Z,C,V and the reserved bits above
// them) with those of v, leaving mode/T/I/F untouched. Used by MSR when the
// flags field mask bit is set.
func (s Status) WithFlagByte(v uint32) Status {
	return Status((uint32(s) &^ flagByteMask) | (v & flagByteMask))
}
