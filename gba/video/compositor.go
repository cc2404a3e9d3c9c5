package video

import (
	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/lucasb-eyer/go-colorful"
)

// Timing constants: a 280,896-cycle frame split into 228 equal scanline
// spans. Within each span the visible/blank split (960 visible cycles,
// 272 horizontal-blank cycles) follows the console's fixed hardware
// ratio.
const (
	cyclesPerLine   = 280896 / 228
	visibleLines    = 160
	totalLines      = 228
	visibleCycles   = 960
)

// Bus is the subset of membus.Bus the compositor needs: register access
// plus the raw VRAM/palette/OAM backing slices it reads pixels from.
type Bus interface {
	regBus
	VRAM() []byte
	Palette() []byte
	OAM() []byte
	RequestInterrupt(kind addr.InterruptKind)
}

// Compositor is the frame compositor: a cycle-driven scanline state
// machine that renders into a 240x160 framebuffer and raises
// blank/match interrupts, generalized from a single background layer to
// four (tile/affine/bitmap) plus 128 objects and affine transforms.
type Compositor struct {
	bus Bus
	fb  *Framebuffer

	lastLine   int
	lastHBlank bool
	rendered   bool // whether the current line's scanline has been drawn

	bgPixelPriority [Width]int8 // -1 = transparent, else the winning layer's priority
}

// NewCompositor returns a Compositor with a fresh, black framebuffer.
func NewCompositor(bus Bus) *Compositor {
	return &Compositor{bus: bus, fb: New(), lastLine: -1}
}

// Framebuffer returns the compositor's backing buffer. The caller must
// not retain it across frames if it intends to compare snapshots; the
// compositor clears and redraws it in place.
func (c *Compositor) Framebuffer() *Framebuffer { return c.fb }

// Tick advances the compositor to the state implied by cycle, the
// monotonically increasing cycle counter the driver supplies. It updates
// VCOUNT and the display-status blank/match bits, requests interrupts on
// blank/match transitions, and returns the framebuffer together with true
// exactly when cycle falls inside the visible portion of a visible
// scanline; otherwise it returns (nil, false).
func (c *Compositor) Tick(cycle uint64) (*Framebuffer, bool) {
	line := int((cycle / cyclesPerLine) % totalLines)
	cycleInLine := int(cycle % cyclesPerLine)

	if line != c.lastLine {
		c.lastLine = line
		c.rendered = false
		c.setVCount(line)
	}

	vblank := line >= visibleLines
	hblank := cycleInLine >= visibleCycles
	c.setStatus(vblank, hblank)

	if vblank || hblank {
		return nil, false
	}

	if !c.rendered {
		c.drawScanline(line)
		c.rendered = true
	}
	return c.fb, true
}

func (c *Compositor) setVCount(line int) {
	c.bus.WriteHalfWord(addr.VCOUNT, uint16(line))
	match := uint8(line) == vcountSetting(c.bus)
	setStatusFlag(c.bus, statVCountFlag, match)
	if match && statusIRQEnabled(c.bus, statVCountIRQ) {
		c.bus.RequestInterrupt(addr.InterruptVCount)
	}
}

func (c *Compositor) setStatus(vblank, hblank bool) {
	wasVBlank := statusFlagSet(c.bus, statVBlankFlag)
	wasHBlank := c.lastHBlank
	c.lastHBlank = hblank

	setStatusFlag(c.bus, statVBlankFlag, vblank)
	setStatusFlag(c.bus, statHBlankFlag, hblank)

	if vblank && !wasVBlank && statusIRQEnabled(c.bus, statVBlankIRQ) {
		c.bus.RequestInterrupt(addr.InterruptVBlank)
	}
	if hblank && !wasHBlank && statusIRQEnabled(c.bus, statHBlankIRQ) {
		c.bus.RequestInterrupt(addr.InterruptHBlank)
	}
}

func statusFlagSet(bus regBus, flag uint16) bool {
	return bus.ReadHalfWord(addr.DISPSTAT)&flag != 0
}

// drawScanline renders one full scanline: backgrounds and sprites
// back-to-front by priority.
func (c *Compositor) drawScanline(line int) {
	dc := readDispControl(c.bus)
	if dc.forcedBlank {
		for x := 0; x < Width; x++ {
			c.fb.Set(x, line, colorful.Color{R: 1, G: 1, B: 1})
		}
		return
	}

	for x := range c.bgPixelPriority {
		c.bgPixelPriority[x] = -1
	}

	if dc.mode >= 3 {
		c.drawBitmapLine(dc, line)
	} else {
		for _, layer := range orderedBackgroundLayers(c.bus, dc) {
			c.drawBackgroundLayer(dc, layer, line)
		}
	}

	if dc.objEnabled {
		c.drawSpriteLine(dc, line)
	}
}

func (c *Compositor) drawBackgroundLayer(dc dispControl, layer backgroundLayer, line int) {
	ctrl := readBGControl(c.bus, layer.index)
	vram, palette := c.bus.VRAM(), c.bus.Palette()

	switch layer.kind {
	case layerText:
		scrollX, scrollY := readBGScroll(c.bus, layer.index)
		tilesW, tilesH := textScreenDimensions(ctrl.screenSize)
		mapWidthPx, mapHeightPx := tilesW*tileSize, tilesH*tileSize
		mapY := (line + int(scrollY)) % mapHeightPx

		for x := 0; x < Width; x++ {
			mapX := (x + int(scrollX)) % mapWidthPx
			index, bank, opaque := textBackgroundPixel(vram, palette, ctrl, mapX, mapY, tilesW)
			if !opaque {
				continue
			}
			var color colorful.Color
			if ctrl.colorMode256 {
				color = bgColor256(palette, index)
			} else {
				color = bgColor16(palette, bank, index)
			}
			// Layers are visited back-to-front (furthest-priority first),
			// so an opaque pixel always overwrites whatever an earlier
			// layer left there.
			c.fb.Set(x, line, color)
			c.bgPixelPriority[x] = int8(layer.priority)
		}

	case layerAffine:
		// Simplification: affine backgrounds are rendered as if their
		// reference point and rotation/scale are identity (no BG2X/Y/PA-PD
		// wiring here; those registers are not read and the compositor
		// composes a single reference frame). The two-level tile
		// indirection itself still runs.
		tilesPerSide := affineScreenDimensions(ctrl.screenSize)
		for x := 0; x < Width; x++ {
			index, opaque := affineBackgroundPixel(vram, palette, ctrl, x, line, tilesPerSide)
			if !opaque {
				continue
			}
			c.fb.Set(x, line, bgColor256(palette, index))
			c.bgPixelPriority[x] = int8(layer.priority)
		}
	}
}

// drawBitmapLine renders background layer 2 in one of the two bitmap
// modes: mode 3's direct 16-bit color plane, or modes 4/5's page-flipped
// palette-indexed planes.
func (c *Compositor) drawBitmapLine(dc dispControl, line int) {
	if !dc.bgEnabled[2] {
		return
	}
	vram, palette := c.bus.VRAM(), c.bus.Palette()

	switch dc.mode {
	case 3:
		rowOffset := uint32(line*Width) * 2
		for x := 0; x < Width; x++ {
			off := rowOffset + uint32(x)*2
			raw := uint16(vram[off]) | uint16(vram[off+1])<<8
			c.fb.Set(x, line, bgr555ToColor(raw))
		}
	case 4:
		page := uint32(dc.frameSelect) * 0xA000
		rowOffset := page + uint32(line*Width)
		for x := 0; x < Width; x++ {
			index := vram[rowOffset+uint32(x)]
			if index == 0 {
				continue
			}
			c.fb.Set(x, line, bgColor256(palette, index))
		}
	case 5:
		// Mode 5's bitmap is 160x128; rows/columns beyond that remain
		// whatever the framebuffer already held (typically black).
		if line >= 128 {
			return
		}
		page := uint32(dc.frameSelect) * 0xA000
		rowOffset := page + uint32(line*160)*2
		for x := 0; x < 160; x++ {
			off := rowOffset + uint32(x)*2
			raw := uint16(vram[off]) | uint16(vram[off+1])<<8
			c.fb.Set(x, line, bgr555ToColor(raw))
		}
	}
}

// drawSpriteLine renders every object that overlaps line, resolving
// per-pixel ownership with spritePriorityBuffer before painting.
func (c *Compositor) drawSpriteLine(dc dispControl, line int) {
	oam, vram, palette := c.bus.OAM(), c.bus.VRAM(), c.bus.Palette()

	var buf spritePriorityBuffer
	buf.clear()

	type visibleSprite struct {
		sprite Sprite
		w, h   int
	}
	var onLine []visibleSprite

	for i := 0; i < spriteCount; i++ {
		s := readSprite(oam, i)
		if !s.Affine && s.Disabled {
			continue
		}
		w, h := s.renderBounds()
		if line < s.Y || line >= s.Y+h {
			continue
		}
		onLine = append(onLine, visibleSprite{s, w, h})
		for px := 0; px < w; px++ {
			buf.tryClaim(s.X+px, i, s.Priority)
		}
	}

	for _, vs := range onLine {
		s, w, h := vs.sprite, vs.w, vs.h
		hasOwnedPixel := false
		for px := 0; px < w; px++ {
			if buf.ownerAt(s.X+px) == s.Index {
				hasOwnedPixel = true
				break
			}
		}
		if !hasOwnedPixel {
			continue
		}

		var matrix affineMatrix
		if s.Affine {
			matrix = readAffineMatrix(oam, s.AffineIndex)
		}

		for px := 0; px < w; px++ {
			x := s.X + px
			if buf.ownerAt(x) != s.Index {
				continue
			}

			var texX, texY int
			if s.Affine {
				dx, dy := px-w/2, line-s.Y-h/2
				tx, ty := matrix.transform(dx, dy)
				texX, texY = tx+s.Width/2, ty+s.Height/2
				if texX < 0 || texY < 0 || texX >= s.Width || texY >= s.Height {
					continue
				}
			} else {
				texX, texY = px, line-s.Y
				if s.FlipX {
					texX = s.Width - 1 - texX
				}
				if s.FlipY {
					texY = s.Height - 1 - texY
				}
			}

			tileX, inX := texX/tileSize, texX%tileSize
			tileY, inY := texY/tileSize, texY%tileSize
			tilesPerRow := spriteTilesPerRow(dc, s)

			var index uint8
			var color colorful.Color
			if s.ColorMode256 {
				tileIndex := s.TileIndex + uint16(tileY*tilesPerRow*2+tileX*2)
				index = tilePixelIndex8bpp(vram, objCharBase, tileIndex, inX, inY)
				if index == 0 {
					continue
				}
				color = objColor256(palette, index)
			} else {
				tileIndex := s.TileIndex + uint16(tileY*tilesPerRow+tileX)
				index = tilePixelIndex4bpp(vram, objCharBase, tileIndex, inX, inY)
				if index == 0 {
					continue
				}
				color = objColor16(palette, s.PaletteBank, index)
			}

			// Sprite-vs-background interleaving: a background pixel
			// strictly in front (lower priority value) of this sprite
			// stays on top.
			if bgPriority := c.bgPixelPriority[x]; bgPriority != -1 && bgPriority < int8(s.Priority) {
				continue
			}

			c.fb.Set(x, line, color)
		}
	}
}

// objCharBase is the fixed character-base address for object tiles (the
// second half of VRAM).
const objCharBase = 0x10000

// spriteTilesPerRow returns the tile-map stride used to step from one
// tile row to the next within a multi-tile sprite, depending on the
// display-control object-mapping bit: 1D mapping lays tiles out
// sequentially per sprite row; 2D mapping treats the character base as a
// flat 32-tiles-wide grid.
func spriteTilesPerRow(dc dispControl, s Sprite) int {
	if dc.objMapping1D {
		return s.Width / tileSize
	}
	return 32
}
