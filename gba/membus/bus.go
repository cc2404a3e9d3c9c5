// Package membus implements the flat physical memory bus: region dispatch,
// address mirroring, the interrupt-acknowledge write filter, and the
// keypad/interrupt entry points consumed by the processor core.
package membus

import (
	"fmt"
	"log/slog"

	"github.com/arn-dahl/gogba/gba/addr"
)

const (
	firmwareSize = addr.FirmwareEnd - addr.FirmwareStart + 1
	ewramSize    = addr.EWRAMEnd - addr.EWRAMStart + 1
	iwramSize    = addr.IWRAMEnd - addr.IWRAMStart + 1
	ioSize       = addr.IOEnd - addr.IOStart + 1
	paletteSize  = addr.PaletteEnd - addr.PaletteStart + 1
	vramSize     = addr.VRAMEnd - addr.VRAMStart + 1
	oamSize      = addr.OAMEnd - addr.OAMStart + 1
	cartSize     = addr.CartEnd - addr.CartStart + 1
)

// Bus is the flat byte-addressable physical memory. Each backed region
// is its own slice rather than one contiguous ~235MB
// array: the backed regions are sparse, so per-region slices carry the same
// mirror/region-dispatch semantics at a fraction of the allocation.
type Bus struct {
	firmware []byte // read-only after load
	ewram    []byte
	iwram    []byte
	io       []byte
	palette  []byte
	vram     []byte
	oam      []byte
	cart     []byte // read-only after load

	// PanicOnUnmapped controls whether an access outside any backed region
	// panics (development builds) or silently returns zero / drops the
	// write, a choice left to the driver.
	PanicOnUnmapped bool
}

// New returns a Bus with all regions zeroed except the key input register,
// which starts with every key released, and no cartridge/firmware loaded.
func New() *Bus {
	b := &Bus{
		firmware: make([]byte, firmwareSize),
		ewram:    make([]byte, ewramSize),
		iwram:    make([]byte, iwramSize),
		io:       make([]byte, ioSize),
		palette:  make([]byte, paletteSize),
		vram:     make([]byte, vramSize),
		oam:      make([]byte, oamSize),
		cart:     make([]byte, cartSize),
	}
	b.io[addr.KEYINPUT-addr.IOStart] = 0xFF   // 1 = released
	b.io[addr.KEYINPUT-addr.IOStart+1] = 0x03 // 10 key bits
	return b
}

// region identifies which backing slice an address resolves to.
type region int

const (
	regionNone region = iota
	regionFirmware
	regionEWRAM
	regionIWRAM
	regionIO
	regionPalette
	regionVRAM
	regionOAM
	regionCart
)

func classify(canonical uint32) (region, []byte, uint32) {
	switch {
	case canonical >= addr.FirmwareStart && canonical <= addr.FirmwareEnd:
		return regionFirmware, nil, canonical - addr.FirmwareStart
	case canonical >= addr.EWRAMStart && canonical <= addr.EWRAMEnd:
		return regionEWRAM, nil, canonical - addr.EWRAMStart
	case canonical >= addr.IWRAMStart && canonical <= addr.IWRAMEnd:
		return regionIWRAM, nil, canonical - addr.IWRAMStart
	case canonical >= addr.IOStart && canonical <= addr.IOEnd:
		return regionIO, nil, canonical - addr.IOStart
	case canonical >= addr.PaletteStart && canonical <= addr.PaletteEnd:
		return regionPalette, nil, canonical - addr.PaletteStart
	case canonical >= addr.VRAMStart && canonical <= addr.VRAMEnd:
		return regionVRAM, nil, canonical - addr.VRAMStart
	case canonical >= addr.OAMStart && canonical <= addr.OAMEnd:
		return regionOAM, nil, canonical - addr.OAMStart
	case canonical >= addr.CartStart && canonical <= addr.CartEnd:
		return regionCart, nil, canonical - addr.CartStart
	default:
		return regionNone, nil, 0
	}
}

func (b *Bus) backing(r region) []byte {
	switch r {
	case regionFirmware:
		return b.firmware
	case regionEWRAM:
		return b.ewram
	case regionIWRAM:
		return b.iwram
	case regionIO:
		return b.io
	case regionPalette:
		return b.palette
	case regionVRAM:
		return b.vram
	case regionOAM:
		return b.oam
	case regionCart:
		return b.cart
	default:
		return nil
	}
}

// ReadByte reads a single byte at a physical address, resolving mirrors.
func (b *Bus) ReadByte(address uint32) byte {
	r, _, off := classify(addr.Canonicalize(address))
	backing := b.backing(r)
	if backing == nil {
		b.unmapped("read", address)
		return 0
	}
	return backing[off]
}

// WriteByte writes a single byte at a physical address, resolving mirrors
// and applying the interrupt-flag write-one-to-clear filter.
func (b *Bus) WriteByte(address uint32, value byte) {
	canonical := addr.Canonicalize(address)
	r, _, off := classify(canonical)
	backing := b.backing(r)
	if backing == nil {
		b.unmapped("write", address)
		return
	}

	switch r {
	case regionFirmware, regionCart:
		// read-only after load; the bus itself does not distinguish this
		// from any other write, so a driver may choose to treat it as
		// fatal. Here we simply drop it.
		return
	case regionIO:
		if canonical == addr.IF || canonical == addr.IF+1 {
			backing[off] = backing[off] &^ value
			return
		}
	}

	backing[off] = value
}

// ReadHalfWord reads a little-endian 16-bit value at address.
func (b *Bus) ReadHalfWord(address uint32) uint16 {
	lo := b.ReadByte(address)
	hi := b.ReadByte(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteHalfWord writes a little-endian 16-bit value at address, byte by
// byte, so the write-one-to-clear filter applies to any overlapping bytes.
func (b *Bus) WriteHalfWord(address uint32, value uint16) {
	b.WriteByte(address, byte(value))
	b.WriteByte(address+1, byte(value>>8))
}

// ReadWord reads a little-endian 32-bit value at the literal address given
// (no automatic alignment). Unaligned-load rotation is a processor-level
// concern applied by gba/cpu, not by the bus.
func (b *Bus) ReadWord(address uint32) uint32 {
	b0 := b.ReadByte(address)
	b1 := b.ReadByte(address + 1)
	b2 := b.ReadByte(address + 2)
	b3 := b.ReadByte(address + 3)
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

// WriteWord writes a little-endian 32-bit value at address, byte by byte.
func (b *Bus) WriteWord(address uint32, value uint32) {
	b.WriteByte(address, byte(value))
	b.WriteByte(address+1, byte(value>>8))
	b.WriteByte(address+2, byte(value>>16))
	b.WriteByte(address+3, byte(value>>24))
}

func (b *Bus) unmapped(op string, address uint32) {
	if b.PanicOnUnmapped {
		panic(fmt.Sprintf("bus: %s at unmapped address %#08x", op, address))
	}
	slog.Warn("bus: access outside backed region", "op", op, "addr", fmt.Sprintf("%#08x", address))
}

// setIOBit ORs a bit directly into an I/O register, bypassing the
// write-one-to-clear filter — used internally for hardware-side register
// updates (keypad state, interrupt flags) that are not guest stores. bit
// indexes the register as a whole (not a single byte), so registers wider
// than 8 bits resolve to the correct backing byte.
func (b *Bus) setIOBit(register uint32, bit uint8) {
	off := register - addr.IOStart + uint32(bit/8)
	b.io[off] |= 1 << (bit % 8)
}

func (b *Bus) clearIOBit(register uint32, bit uint8) {
	off := register - addr.IOStart + uint32(bit/8)
	b.io[off] &^= 1 << (bit % 8)
}

func (b *Bus) ioBitSet(register uint32, bit uint8) bool {
	off := register - addr.IOStart + uint32(bit/8)
	return b.io[off]&(1<<(bit%8)) != 0
}

// VRAM, Palette and OAM snapshots for gba/debug and gba/video.
func (b *Bus) VRAM() []byte    { return b.vram }
func (b *Bus) Palette() []byte { return b.palette }
func (b *Bus) OAM() []byte     { return b.oam }
func (b *Bus) EWRAM() []byte   { return b.ewram }
func (b *Bus) IWRAM() []byte   { return b.iwram }
func (b *Bus) IO() []byte      { return b.io }
