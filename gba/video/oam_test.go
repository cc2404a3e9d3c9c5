package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func oamEntry(y, x uint16, attr0Extra, attr1Extra, attr2 uint16) []byte {
	oam := make([]byte, spriteCount*oamEntryBytes)
	attr0 := y | attr0Extra
	attr1 := x | attr1Extra
	oam[0], oam[1] = byte(attr0), byte(attr0>>8)
	oam[2], oam[3] = byte(attr1), byte(attr1>>8)
	oam[4], oam[5] = byte(attr2), byte(attr2>>8)
	return oam
}

func TestReadSpriteShapeSizeTable(t *testing.T) {
	tt := []struct {
		name       string
		shape      uint16
		size       uint16
		wantW      int
		wantH      int
	}{
		{"square 8x8", 0, 0, 8, 8},
		{"square 64x64", 0, 3, 64, 64},
		{"wide 16x8", 1, 0, 16, 8},
		{"wide 64x32", 1, 3, 64, 32},
		{"tall 8x16", 2, 0, 8, 16},
		{"tall 32x64", 2, 3, 32, 64},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			attr0Extra := tc.shape << 14
			attr1Extra := tc.size << 14
			oam := oamEntry(10, 20, attr0Extra, attr1Extra, 0)
			s := readSprite(oam, 0)
			assert.Equal(t, tc.wantW, s.Width)
			assert.Equal(t, tc.wantH, s.Height)
		})
	}
}

func TestReadSpriteNegativeScreenCoordinates(t *testing.T) {
	// Y=250 (>=160) means the sprite straddles the top edge: 250-256=-6.
	oam := oamEntry(250, 0, 0, 0, 0)
	s := readSprite(oam, 0)
	assert.Equal(t, -6, s.Y)
}

func TestReadSpriteAffineFieldsVsFlipFields(t *testing.T) {
	// Affine bit set: attr1 bits 9-13 are the affine index, not flip bits.
	affineOAM := oamEntry(0, 0, 1<<8, 5<<9, 0)
	affine := readSprite(affineOAM, 0)
	assert.True(t, affine.Affine)
	assert.Equal(t, uint8(5), affine.AffineIndex)

	flipOAM := oamEntry(0, 0, 0, (1<<12)|(1<<13), 0)
	flipped := readSprite(flipOAM, 0)
	assert.False(t, flipped.Affine)
	assert.True(t, flipped.FlipX)
	assert.True(t, flipped.FlipY)
}

func TestAffineMatrixIdentityTransform(t *testing.T) {
	oam := make([]byte, spriteCount*oamEntryBytes)
	// Group 0 uses OAM slots 0-3's attr3 padding halfword for PA/PB/PC/PD.
	setParam := func(slot int, value int16) {
		off := slot*oamEntryBytes + 6
		oam[off] = byte(value)
		oam[off+1] = byte(value >> 8)
	}
	setParam(0, 256) // PA = 1.0 in 8.8 fixed point
	setParam(1, 0)
	setParam(2, 0)
	setParam(3, 256) // PD = 1.0

	m := readAffineMatrix(oam, 0)
	x, y := m.transform(10, 20)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}
