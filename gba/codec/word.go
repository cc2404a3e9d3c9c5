// Package codec implements the Word/HalfWord typed byte views used by the
// memory bus and the processor's barrel shifter: little-endian
// decomposition, bitfield extraction, sign extension, and rotation.
package codec

import "encoding/binary"

// Word is a 32-bit little-endian value as seen by the processor and bus.
type Word uint32

// HalfWord is a 16-bit little-endian value.
type HalfWord uint16

// WordFromBytes decodes 4 little-endian bytes into a Word.
func WordFromBytes(b []byte) Word {
	return Word(binary.LittleEndian.Uint32(b))
}

// HalfWordFromBytes decodes 2 little-endian bytes into a HalfWord.
func HalfWordFromBytes(b []byte) HalfWord {
	return HalfWord(binary.LittleEndian.Uint16(b))
}

// Bytes returns the little-endian byte decomposition of w.
func (w Word) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(w))
	return b
}

// Bytes returns the little-endian byte decomposition of h.
func (h HalfWord) Bytes() [2]byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(h))
	return b
}

// Bits extracts the inclusive bit range [lo, hi] from w.
func (w Word) Bits(hi, lo uint8) uint32 {
	width := hi - lo + 1
	mask := uint32((1 << width) - 1)
	return (uint32(w) >> lo) & mask
}

// Bit reports whether bit index i of w is set.
func (w Word) Bit(i uint8) bool {
	return (uint32(w)>>i)&1 == 1
}

// SignExtend sign-extends the low `width` bits of w to a full 32-bit value.
func (w Word) SignExtend(width uint8) int32 {
	shift := 32 - width
	return int32(uint32(w)<<shift) >> shift
}

// RotateRight rotates w right by n bits (0-31), wrapping.
func (w Word) RotateRight(n uint8) Word {
	n &= 31
	if n == 0 {
		return w
	}
	v := uint32(w)
	return Word((v >> n) | (v << (32 - n)))
}

// RotateRightCarry rotates w right by n (1-31) bits and also returns the bit
// rotated out, which feeds the barrel shifter's carry-out.
func (w Word) RotateRightCarry(n uint8) (Word, bool) {
	n &= 31
	if n == 0 {
		return w, false
	}
	carryOut := w.Bit(n - 1)
	return w.RotateRight(n), carryOut
}
