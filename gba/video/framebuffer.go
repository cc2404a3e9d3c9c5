// Package video implements the frame compositor: the cycle-driven
// scanline state machine, tile and affine background rendering, object
// (sprite) rendering from OAM, and the two bitmap modes.
package video

import "github.com/lucasb-eyer/go-colorful"

// Visible framebuffer dimensions.
const (
	Width  = 240
	Height = 160
	pixels = Width * Height
)

// Framebuffer is the 240x160 RGB888 buffer the compositor draws into.
// It stores three bytes per pixel directly, a row-major unpadded layout
// backends can hand straight to a renderer without unpacking.
type Framebuffer struct {
	pix [pixels * 3]byte
}

// New returns a black framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// Set writes one pixel. Out-of-range coordinates are ignored: callers may
// compute clipped scanline ranges without separately bounds-checking.
func (f *Framebuffer) Set(x, y int, c colorful.Color) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	r, g, b := c.RGB255()
	off := (y*Width + x) * 3
	f.pix[off] = r
	f.pix[off+1] = g
	f.pix[off+2] = b
}

// Bytes returns the framebuffer as row-major, unpadded RGB triplets.
func (f *Framebuffer) Bytes() []byte {
	return f.pix[:]
}

// Clear resets every pixel to black.
func (f *Framebuffer) Clear() {
	for i := range f.pix {
		f.pix[i] = 0
	}
}
