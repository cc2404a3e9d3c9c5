package video

import "github.com/lucasb-eyer/go-colorful"

// Palette RAM layout: 512 bytes of background entries followed by 512
// bytes of object entries, each a 15-bit BGR555 color in a 16-bit slot.
const (
	objPaletteOffset = 0x200
	paletteEntrySize = 2
)

// readPaletteEntry reads the little-endian BGR555 entry at byte offset
// in raw, which comes straight from the bus's Palette slice. The
// bank/index helpers below compute offset.
func readPaletteEntry(raw []byte, offset int) colorful.Color {
	lo, hi := raw[offset], raw[offset+1]
	return bgr555ToColor(uint16(hi)<<8 | uint16(lo))
}

// bgColor16 resolves a 4bpp background color: bank selects one of 16
// 16-color palettes, index is the 4-bit pixel value (0 is transparent,
// resolved by the caller before this is reached).
func bgColor16(palette []byte, bank, index uint8) colorful.Color {
	offset := (int(bank)*16 + int(index)) * paletteEntrySize
	return readPaletteEntry(palette, offset)
}

// bgColor256 resolves an 8bpp background or bitmap-mode color.
func bgColor256(palette []byte, index uint8) colorful.Color {
	return readPaletteEntry(palette, int(index)*paletteEntrySize)
}

// objColor16 and objColor256 are the object (sprite) palette equivalents,
// offset past the background half of palette RAM.
func objColor16(palette []byte, bank, index uint8) colorful.Color {
	offset := objPaletteOffset + (int(bank)*16+int(index))*paletteEntrySize
	return readPaletteEntry(palette, offset)
}

func objColor256(palette []byte, index uint8) colorful.Color {
	offset := objPaletteOffset + int(index)*paletteEntrySize
	return readPaletteEntry(palette, offset)
}

// bgr555ToColor converts a packed 15-bit BGR555 value into a colorful.Color
// using 5-bit-channel replication, `(c5<<3)|(c5>>2)`, to expand each
// channel to full 8-bit brightness.
func bgr555ToColor(raw uint16) colorful.Color {
	r5 := uint8(raw & 0x1F)
	g5 := uint8((raw >> 5) & 0x1F)
	b5 := uint8((raw >> 10) & 0x1F)
	return colorful.Color{
		R: expand5(r5),
		G: expand5(g5),
		B: expand5(b5),
	}
}

func expand5(c5 uint8) float64 {
	c8 := (c5 << 3) | (c5 >> 2)
	return float64(c8) / 255
}
