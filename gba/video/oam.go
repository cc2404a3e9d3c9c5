package video

// Object attribute memory: 128 sprite entries of 8 bytes each (attr0,
// attr1, attr2, and a padding halfword shared with the affine matrix
// table).
const (
	spriteCount   = 128
	oamEntryBytes = 8
	affineGroups  = 32
)

// spriteShape/spriteSize combine into the twelve supported sprite
// dimensions (8x8 through 64x64).
var spriteDimensions = [3][4][2]int{
	// shape 0: square
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},
	// shape 1: horizontal (wide)
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},
	// shape 2: vertical (tall)
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},
}

// Sprite is a parsed object-attribute-memory entry.
type Sprite struct {
	Index int

	Y, X         int
	Width, Height int

	Affine      bool
	AffineIndex uint8
	DoubleSize  bool // affine-only: render area is 2x tile dimensions
	Disabled    bool // non-affine-only: object entirely hidden

	ColorMode256 bool
	Priority     uint8
	PaletteBank  uint8
	TileIndex    uint16

	FlipX, FlipY bool // non-affine only
}

func readSprite(oam []byte, index int) Sprite {
	base := index * oamEntryBytes
	attr0 := uint16(oam[base]) | uint16(oam[base+1])<<8
	attr1 := uint16(oam[base+2]) | uint16(oam[base+3])<<8
	attr2 := uint16(oam[base+4]) | uint16(oam[base+5])<<8

	affine := attr0&(1<<8) != 0
	shape := uint8((attr0 >> 14) & 0x3)
	size := uint8((attr1 >> 14) & 0x3)
	if shape > 2 {
		shape = 0 // shape=3 is a reserved/prohibited encoding
	}
	dims := spriteDimensions[shape][size]

	s := Sprite{
		Index:        index,
		Y:            int(attr0 & 0xFF),
		X:            int(attr1 & 0x1FF),
		Width:        dims[0],
		Height:       dims[1],
		Affine:       affine,
		ColorMode256: attr0&(1<<13) != 0,
		Priority:     uint8((attr2 >> 10) & 0x3),
		PaletteBank:  uint8((attr2 >> 12) & 0xF),
		TileIndex:    attr2 & 0x3FF,
	}

	// Screen coordinates are 8/9-bit unsigned fields used as signed
	// values: a sprite partially or fully off the left/top edge encodes
	// as a large positive number.
	if s.Y >= 160 {
		s.Y -= 256
	}
	if s.X >= 240 {
		s.X -= 512
	}

	if affine {
		s.AffineIndex = uint8((attr1 >> 9) & 0x1F)
		s.DoubleSize = attr0&(1<<9) != 0
	} else {
		s.Disabled = attr0&(1<<9) != 0
		s.FlipX = attr1&(1<<12) != 0
		s.FlipY = attr1&(1<<13) != 0
	}

	return s
}

// renderBounds returns the on-screen bounding box, accounting for the
// affine double-size render area.
func (s Sprite) renderBounds() (w, h int) {
	if s.Affine && s.DoubleSize {
		return s.Width * 2, s.Height * 2
	}
	return s.Width, s.Height
}

// affineMatrix is the 2x2 fixed-point (8.8) transform matrix shared by a
// group of 4 OAM slots, read from the attr3 padding halfwords those slots
// would otherwise leave unused.
type affineMatrix struct {
	pa, pb, pc, pd int32
}

func readAffineMatrix(oam []byte, group uint8) affineMatrix {
	read := func(slot int) int32 {
		off := slot*oamEntryBytes + 6
		return int32(int16(uint16(oam[off]) | uint16(oam[off+1])<<8))
	}
	base := int(group) * 4
	return affineMatrix{
		pa: read(base + 0),
		pb: read(base + 1),
		pc: read(base + 2),
		pd: read(base + 3),
	}
}

// transform maps a render-area-relative offset (dx, dy) to a texture
// coordinate within the sprite's own tile dimensions, using 8.8
// fixed-point matrix multiplication.
func (m affineMatrix) transform(dx, dy int) (int, int) {
	texX := (m.pa*int32(dx) + m.pb*int32(dy)) >> 8
	texY := (m.pc*int32(dx) + m.pd*int32(dy)) >> 8
	return int(texX), int(texY)
}
