// Package addr lists the physical addresses of the memory regions and
// memory-mapped I/O registers on the bus.
package addr

// Backed memory regions.
const (
	FirmwareStart = 0x00000000
	FirmwareEnd   = 0x00003FFF

	EWRAMStart = 0x02000000
	EWRAMEnd   = 0x0203FFFF

	IWRAMStart = 0x03000000
	IWRAMEnd   = 0x03007FFF
	// IWRAM is mirrored here.
	IWRAMMirrorStart = 0x03FFFF00
	IWRAMMirrorEnd   = 0x03FFFFFF
	iwramMirrorOffset = 0x00FF8000

	IOStart = 0x04000000
	IOEnd   = 0x040003FF

	PaletteStart = 0x05000000
	PaletteEnd   = 0x050003FF

	VRAMStart = 0x06000000
	VRAMEnd   = 0x06017FFF

	OAMStart = 0x07000000
	OAMEnd   = 0x070003FF

	CartStart       = 0x08000000
	CartEnd         = 0x09FFFFFF
	CartMirror1Start = 0x0A000000
	CartMirror1End   = 0x0BFFFFFF
	cartMirror1Offset = 0x02000000
	CartMirror2Start = 0x0C000000
	CartMirror2End   = 0x0DFFFFFF
	cartMirror2Offset = 0x04000000
)

// Canonicalize resolves a mirror address onto its backing region using
// one of three fixed-offset mirror ranges. Addresses outside any mirror
// range pass through unchanged.
func Canonicalize(address uint32) uint32 {
	switch {
	case address >= IWRAMMirrorStart && address <= IWRAMMirrorEnd:
		return address - iwramMirrorOffset
	case address >= CartMirror1Start && address <= CartMirror1End:
		return address - cartMirror1Offset
	case address >= CartMirror2Start && address <= CartMirror2End:
		return address - cartMirror2Offset
	default:
		return address
	}
}

// Video I/O registers.
const (
	DISPCNT  uint32 = 0x04000000 // display control
	DISPSTAT uint32 = 0x04000004 // display status
	VCOUNT   uint32 = 0x04000006 // vertical counter

	BG0CNT uint32 = 0x04000008
	BG1CNT uint32 = 0x0400000A
	BG2CNT uint32 = 0x0400000C
	BG3CNT uint32 = 0x0400000E

	BG0HOFS uint32 = 0x04000010
	BG0VOFS uint32 = 0x04000012
	BG1HOFS uint32 = 0x04000014
	BG1VOFS uint32 = 0x04000016
	BG2HOFS uint32 = 0x04000018
	BG2VOFS uint32 = 0x0400001A
	BG3HOFS uint32 = 0x0400001C
	BG3VOFS uint32 = 0x0400001E

	// BG2/BG3 affine parameters (P/Q/R/S matrix + reference point).
	BG2PA uint32 = 0x04000020
	BG2PB uint32 = 0x04000022
	BG2PC uint32 = 0x04000024
	BG2PD uint32 = 0x04000026
	BG2X  uint32 = 0x04000028
	BG2Y  uint32 = 0x0400002C
	BG3PA uint32 = 0x04000030
	BG3PB uint32 = 0x04000032
	BG3PC uint32 = 0x04000034
	BG3PD uint32 = 0x04000036
	BG3X  uint32 = 0x04000038
	BG3Y  uint32 = 0x0400003C
)

// Keypad registers.
const (
	KEYINPUT uint32 = 0x04000130 // 10 bits, 1 = released
	KEYCNT   uint32 = 0x04000132 // bits 0-9 enable, bit 14 master, bit 15 AND/OR
)

// Interrupt registers.
const (
	IE     uint32 = 0x04000200 // interrupt enable
	IF     uint32 = 0x04000202 // interrupt flag (write-one-to-clear)
	IME    uint32 = 0x04000208 // interrupt master enable
)

// Audio registers (summarized subsystem; only the channel control surface
// that gba/audio polls is listed).
const (
	SOUND1CNT_L uint32 = 0x04000060 // channel 1 sweep
	SOUND1CNT_H uint32 = 0x04000062 // channel 1 duty/length/envelope
	SOUND1CNT_X uint32 = 0x04000064 // channel 1 frequency/control

	SOUND2CNT_L uint32 = 0x04000068 // channel 2 duty/length/envelope
	SOUND2CNT_H uint32 = 0x0400006C // channel 2 frequency/control

	SOUND3CNT_L uint32 = 0x04000070 // channel 3 enable
	SOUND3CNT_H uint32 = 0x04000072 // channel 3 length/volume
	SOUND3CNT_X uint32 = 0x04000074 // channel 3 frequency/control
	WaveRAMStart uint32 = 0x04000090
	WaveRAMEnd   uint32 = 0x0400009F

	SOUND4CNT_L uint32 = 0x04000078 // channel 4 length/envelope
	SOUND4CNT_H uint32 = 0x0400007C // channel 4 frequency/control

	SOUNDCNT_L uint32 = 0x04000080 // master volume/enable
	SOUNDCNT_H uint32 = 0x04000082 // DMA sound control
	SOUNDCNT_X uint32 = 0x04000084 // master sound on/off
)

// InterruptKind enumerates the fixed bit positions of the interrupt enable
// and interrupt flag registers.
type InterruptKind uint8

const (
	InterruptVBlank InterruptKind = iota
	InterruptHBlank
	InterruptVCount
	InterruptTimer0
	InterruptTimer1
	InterruptTimer2
	InterruptTimer3
	InterruptSerial
	InterruptDMA0
	InterruptDMA1
	InterruptDMA2
	InterruptDMA3
	InterruptKeypad
	InterruptCartridge
)

// Key identifies one of the ten keypad inputs, mapped to bit positions 0-9
// of KEYINPUT/KEYCNT.
type Key uint8

const (
	KeyA Key = iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyR
	KeyL
)
