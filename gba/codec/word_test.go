package codec

import "testing"

func TestWordBytesRoundTrip(t *testing.T) {
	w := Word(0xAABBCCDD)
	b := w.Bytes()
	got := WordFromBytes(b[:])
	if got != w {
		t.Fatalf("round trip = %#x, want %#x", got, w)
	}
	if b[0] != 0xDD || b[3] != 0xAA {
		t.Fatalf("unexpected little-endian layout: %v", b)
	}
}

func TestWordBits(t *testing.T) {
	w := Word(0xE1A00000)
	if got := w.Bits(27, 4); got != 0x1A0000 {
		t.Fatalf("Bits(27,4) = %#x, want 0x1A0000", got)
	}
}

func TestSignExtend(t *testing.T) {
	w := Word(0xFF) // 8-bit -1
	if got := w.SignExtend(8); got != -1 {
		t.Fatalf("SignExtend(8) = %d, want -1", got)
	}
	w2 := Word(0x7F)
	if got := w2.SignExtend(8); got != 127 {
		t.Fatalf("SignExtend(8) = %d, want 127", got)
	}
}

func TestRotateRight(t *testing.T) {
	w := Word(0xAABBCCDD)
	got := w.RotateRight(8)
	want := Word(0xDDAABBCC)
	if got != want {
		t.Fatalf("RotateRight(8) = %#x, want %#x", got, want)
	}
	if got := w.RotateRight(0); got != w {
		t.Fatalf("RotateRight(0) should be identity")
	}
}
