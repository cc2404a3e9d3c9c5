package cpu

// Physical slot layout of the 37-word register file: 16 general-purpose
// slots, 5 extra slots banking R8-R12 for FIQ, 10
// slots banking R13/R14 across the five privileged modes, one current
// status word, and 5 saved status words. Logical register numbers 0-15
// (as they appear in an instruction encoding) are mapped onto these
// physical slots by effectiveSlot, keyed on the currently active mode.
const (
	slotR0 = iota
	slotR1
	slotR2
	slotR3
	slotR4
	slotR5
	slotR6
	slotR7
	slotR8
	slotR9
	slotR10
	slotR11
	slotR12
	slotR8fiq
	slotR9fiq
	slotR10fiq
	slotR11fiq
	slotR12fiq
	slotR13usr
	slotR14usr
	slotR13fiq
	slotR14fiq
	slotR13svc
	slotR14svc
	slotR13abt
	slotR14abt
	slotR13irq
	slotR14irq
	slotR13und
	slotR14und
	slotR15
	slotCPSR
	slotSPSRfiq
	slotSPSRsvc
	slotSPSRabt
	slotSPSRirq
	slotSPSRund

	registerFileSize
)

// RegisterFile is the banked 37-slot register array shared by every
// privilege mode. Logical registers 0-7, 15 (PC) and the current status
// word are never banked; R8-R12 bank only for FIQ; R13 (SP) and R14 (LR)
// bank independently for all five privileged modes; SPSR banks for the
// same five.
type RegisterFile struct {
	slots [registerFileSize]uint32
}

// effectiveSlot maps a logical register number (0-15, as it appears in an
// instruction encoding) to its physical slot under the given mode.
func effectiveSlot(mode Mode, logical uint8) int {
	switch {
	case logical <= 7:
		return int(logical)
	case logical == 15:
		return slotR15
	case logical >= 8 && logical <= 12:
		if mode == ModeFIQ {
			return slotR8fiq + int(logical-8)
		}
		return slotR8 + int(logical-8)
	case logical == 13 || logical == 14:
		base := bankBase(mode)
		if logical == 13 {
			return base
		}
		return base + 1
	default:
		panic("cpu: logical register out of range")
	}
}

// bankBase returns the physical slot of R13 for the given mode; R14 always
// immediately follows it.
func bankBase(mode Mode) int {
	switch mode {
	case ModeFIQ:
		return slotR13fiq
	case ModeSupervisor:
		return slotR13svc
	case ModeAbort:
		return slotR13abt
	case ModeIRQ:
		return slotR13irq
	case ModeUndefined:
		return slotR13und
	default: // User, System
		return slotR13usr
	}
}

// spsrSlot returns the physical slot of the saved status word for mode, or
// -1 for User/System, which have none: reading/writing SPSR in those modes
// aliases the current status word instead (architecturally unpredictable,
// but harmless to model as an alias).
func spsrSlot(mode Mode) int {
	switch mode {
	case ModeFIQ:
		return slotSPSRfiq
	case ModeSupervisor:
		return slotSPSRsvc
	case ModeAbort:
		return slotSPSRabt
	case ModeIRQ:
		return slotSPSRirq
	case ModeUndefined:
		return slotSPSRund
	default:
		return -1
	}
}

// Get reads logical register i as seen under mode.
func (r *RegisterFile) Get(mode Mode, i uint8) uint32 {
	return r.slots[effectiveSlot(mode, i)]
}

// Set writes logical register i as seen under mode.
func (r *RegisterFile) Set(mode Mode, i uint8, v uint32) {
	r.slots[effectiveSlot(mode, i)] = v
}

// CPSR returns the current program status word.
func (r *RegisterFile) CPSR() Status { return Status(r.slots[slotCPSR]) }

// SetCPSR overwrites the current program status word directly; it does not
// itself trigger any pipeline flush or register-bank switch bookkeeping —
// callers that change mode or T-state through this must handle those
// side effects themselves.
func (r *RegisterFile) SetCPSR(s Status) { r.slots[slotCPSR] = uint32(s) }

// SPSR returns the saved status word banked for mode, or the current CPSR
// in User/System mode, which have no saved-status slot.
func (r *RegisterFile) SPSR(mode Mode) Status {
	slot := spsrSlot(mode)
	if slot < 0 {
		return r.CPSR()
	}
	return Status(r.slots[slot])
}

// SetSPSR writes the saved status word banked for mode. It is a no-op in
// User/System mode, which have no saved-status slot.
func (r *RegisterFile) SetSPSR(mode Mode, s Status) {
	slot := spsrSlot(mode)
	if slot < 0 {
		return
	}
	r.slots[slot] = uint32(s)
}
