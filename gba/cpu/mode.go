package cpu

// Mode is one of the seven privilege/context levels, encoded with a
// fixed bit pattern in the low 5 bits of the status word.
type Mode uint8

const (
	ModeUser       Mode = 0b10000
	ModeFIQ        Mode = 0b10001
	ModeIRQ        Mode = 0b10010
	ModeSupervisor Mode = 0b10011
	ModeAbort      Mode = 0b10111
	ModeUndefined  Mode = 0b11011
	ModeSystem     Mode = 0b11111
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "User"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "Supervisor"
	case ModeAbort:
		return "Abort"
	case ModeUndefined:
		return "Undefined"
	case ModeSystem:
		return "System"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the seven defined privilege modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}
