package membus

import (
	"testing"

	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/stretchr/testify/assert"
)

func TestByteRoundTrip(t *testing.T) {
	b := New()
	b.WriteByte(addr.EWRAMStart+4, 0x7A)
	assert.Equal(t, byte(0x7A), b.ReadByte(addr.EWRAMStart+4))
}

func TestWordRoundTrip(t *testing.T) {
	b := New()
	b.WriteWord(addr.EWRAMStart+0x100, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), b.ReadWord(addr.EWRAMStart+0x100))
}

func TestHalfWordRoundTrip(t *testing.T) {
	b := New()
	b.WriteHalfWord(addr.VRAMStart, 0xBEEF)
	assert.Equal(t, uint16(0xBEEF), b.ReadHalfWord(addr.VRAMStart))
}

func TestIWRAMMirror(t *testing.T) {
	b := New()
	// The mirror window's 256 bytes alias the last 256 bytes of IWRAM.
	b.WriteByte(addr.IWRAMStart+0x7F10, 0x55)
	mirrored := uint32(addr.IWRAMMirrorStart + 0x10)
	assert.Equal(t, byte(0x55), b.ReadByte(mirrored), "mirror must alias the canonical region")

	b.WriteByte(mirrored+1, 0x99)
	assert.Equal(t, byte(0x99), b.ReadByte(addr.IWRAMStart+0x7F11))
}

func TestCartridgeMirrors(t *testing.T) {
	b := New()
	b.LoadCartridge("/dev/null") // ensure nil-safety of a loaded-but-empty cart
	b.cart[0] = 0xAB
	assert.Equal(t, byte(0xAB), b.ReadByte(addr.CartMirror1Start))
	assert.Equal(t, byte(0xAB), b.ReadByte(addr.CartMirror2Start))
}

func TestInterruptFlagWriteOneToClear(t *testing.T) {
	b := New()
	b.io[addr.IF-addr.IOStart] = 0b1111_1111
	b.WriteByte(addr.IF, 0b0000_1111)
	assert.Equal(t, byte(0b1111_0000), b.ReadByte(addr.IF), "writing 1 bits must clear, 0 bits must leave unchanged")
}

func TestInterruptFlagWriteOneToClearHalfWord(t *testing.T) {
	b := New()
	b.io[addr.IF-addr.IOStart] = 0xFF // guest writes can only clear IF bits
	b.io[addr.IF-addr.IOStart+1] = 0xFF
	b.WriteHalfWord(addr.IF, 0x00FF)
	assert.Equal(t, uint16(0xFF00), b.ReadHalfWord(addr.IF))
}

func TestRequestInterruptRequiresMasterEnable(t *testing.T) {
	b := New()
	b.WriteHalfWord(addr.IE, 0xFFFF)
	b.RequestInterrupt(addr.InterruptVBlank)
	assert.Equal(t, uint16(0), b.ReadHalfWord(addr.IF), "IME clear must suppress the request")

	b.WriteHalfWord(addr.IME, 1)
	b.RequestInterrupt(addr.InterruptVBlank)
	assert.Equal(t, uint16(1), b.ReadHalfWord(addr.IF))
}

func TestRequestInterruptRequiresEnableBit(t *testing.T) {
	b := New()
	b.WriteHalfWord(addr.IME, 1)
	b.RequestInterrupt(addr.InterruptTimer0)
	assert.Equal(t, uint16(0), b.ReadHalfWord(addr.IF), "IE bit clear must suppress the request")
}

func TestKeyEventORMode(t *testing.T) {
	b := New()
	b.WriteHalfWord(addr.IME, 1)
	b.WriteHalfWord(addr.IE, 1<<uint(addr.InterruptKeypad))
	b.WriteHalfWord(addr.KEYCNT, (1<<14)|(1<<uint(addr.KeyA)))

	b.KeyEvent(addr.KeyB, true)
	assert.Equal(t, uint16(0), b.ReadHalfWord(addr.IF), "unselected key must not trigger in OR mode")

	b.KeyEvent(addr.KeyA, true)
	assert.NotEqual(t, uint16(0), b.ReadHalfWord(addr.IF))
}

func TestKeyEventANDMode(t *testing.T) {
	b := New()
	b.WriteHalfWord(addr.IME, 1)
	b.WriteHalfWord(addr.IE, 1<<uint(addr.InterruptKeypad))
	mask := uint16(1<<uint(addr.KeyA) | 1<<uint(addr.KeyB))
	b.WriteHalfWord(addr.KEYCNT, (1<<14)|(1<<15)|mask)

	b.KeyEvent(addr.KeyA, true)
	assert.Equal(t, uint16(0), b.ReadHalfWord(addr.IF), "AND mode requires all enabled keys pressed")

	b.KeyEvent(addr.KeyB, true)
	assert.NotEqual(t, uint16(0), b.ReadHalfWord(addr.IF))
}

func TestUnalignedReadWordIsLiteral(t *testing.T) {
	b := New()
	b.WriteWord(addr.EWRAMStart, 0xAABBCCDD)
	// ReadWord at +1 reads the 4 literal bytes starting there, no rounding;
	// rotation-on-unaligned-load is a gba/cpu concern, not the bus's.
	got := b.ReadWord(addr.EWRAMStart + 1)
	want := uint32(0xDDAABBCC) // the rotated value a CPU load would produce, not the bus result
	_ = want
	// Memory holds DD CC BB AA, so from +1 the bytes are CC BB AA ?? where ??
	// is the next word's low byte; assert the 3 known bytes in LE order.
	assert.Equal(t, byte(0xCC), byte(got))
	assert.Equal(t, byte(0xBB), byte(got>>8))
	assert.Equal(t, byte(0xAA), byte(got>>16))
}
