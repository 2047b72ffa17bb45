package nes

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/glog"
)

// The 64-entry 2C02 master palette, in PPU palette-index order.
// Grounded on the reference palette table (ppu/palette.rs in the original
// implementation) rather than any particular emulator's approximation.
var colors = [64]color.RGBA{
	{124, 124, 124, 255}, {0, 0, 252, 255}, {0, 0, 188, 255}, {68, 40, 188, 255},
	{148, 0, 132, 255}, {168, 0, 32, 255}, {168, 16, 0, 255}, {136, 20, 0, 255},
	{80, 48, 0, 255}, {0, 120, 0, 255}, {0, 104, 0, 255}, {0, 88, 0, 255},
	{0, 64, 88, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{188, 188, 188, 255}, {0, 120, 248, 255}, {0, 88, 248, 255}, {104, 68, 252, 255},
	{216, 0, 204, 255}, {228, 0, 88, 255}, {248, 56, 0, 255}, {228, 92, 16, 255},
	{172, 124, 0, 255}, {0, 184, 0, 255}, {0, 168, 0, 255}, {0, 168, 68, 255},
	{0, 136, 136, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{248, 248, 248, 255}, {60, 188, 252, 255}, {104, 136, 252, 255}, {152, 120, 248, 255},
	{248, 120, 248, 255}, {248, 88, 152, 255}, {248, 120, 88, 255}, {252, 160, 68, 255},
	{248, 184, 0, 255}, {184, 248, 24, 255}, {88, 216, 84, 255}, {88, 248, 152, 255},
	{0, 232, 216, 255}, {120, 120, 120, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{252, 252, 252, 255}, {164, 228, 252, 255}, {184, 184, 248, 255}, {216, 184, 248, 255},
	{248, 184, 248, 255}, {248, 164, 192, 255}, {240, 208, 176, 255}, {252, 224, 168, 255},
	{248, 216, 120, 255}, {216, 248, 120, 255}, {184, 248, 184, 255}, {184, 248, 216, 255},
	{0, 252, 252, 255}, {248, 216, 248, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
}

// paletteRAM is the 32-byte palette memory, with the $3F10/$14/$18/$1C
// background-mirror aliasing NES hardware implements.
type paletteRAM struct {
	data [32]byte
}

func (p *paletteRAM) read(addr uint16) byte {
	return p.data[addr&0x1F]
}

func (p *paletteRAM) write(addr uint16, value byte) {
	addr &= 0x1F
	p.data[addr] = value
	if addr%4 == 0 {
		p.data[addr^0x10] = value
	}
}

func (p *paletteRAM) backgroundColor(paletteIndex, colorIndex byte) color.RGBA {
	if colorIndex == 0 {
		return colors[p.data[0]&0x3F]
	}
	return colors[p.read(uint16(paletteIndex)*4+uint16(colorIndex))&0x3F]
}

func (p *paletteRAM) spriteColor(paletteIndex, colorIndex byte) color.RGBA {
	if colorIndex == 0 {
		return colors[p.data[0]&0x3F]
	}
	return colors[p.read(0x10+uint16(paletteIndex)*4+uint16(colorIndex))&0x3F]
}

// sprite is a 4-byte OAM entry, in real NES register layout.
type sprite struct {
	y         byte // OAM byte 0 - top minus 1
	tileIndex byte // OAM byte 1
	attr      byte // OAM byte 2
	x         byte // OAM byte 3
}

func newSprite(d []byte) sprite {
	return sprite{y: d[0], tileIndex: d[1], attr: d[2], x: d[3]}
}

func (s sprite) baseY() int              { return int(s.y) + 1 }
func (s sprite) paletteIndex() byte      { return s.attr & 0x3 }
func (s sprite) behindBackground() bool  { return s.attr&0x20 != 0 }
func (s sprite) flipHorizontal() bool    { return s.attr&0x40 != 0 }
func (s sprite) flipVertical() bool      { return s.attr&0x80 != 0 }

// nameTableQuadrant (0..3) in raster order: TopLeft, TopRight, BottomLeft, BottomRight.
func quadrantFromCoord(x, y int) nameTableQuadrant {
	switch {
	case x < 256 && y < 240:
		return quadrantFirst
	case x >= 256 && y < 240:
		return quadrantSecond
	case x < 256 && y >= 240:
		return quadrantThird
	default:
		return quadrantFourth
	}
}

// patternValue combines the two bit-planes of tile `index` at (x,y) within
// the pattern table starting at `base`.
func patternValue(b *PPUBus, base uint16, index byte, x, y byte) byte {
	addr := base + uint16(index)*16 + uint16(y)
	lo, _ := b.read(addr)
	hi, _ := b.read(addr + 8)
	c1 := (lo >> (7 - x)) & 1
	c2 := (hi >> (7 - x)) & 1
	return (c2 << 1) | c1
}

// PPU emulates the NES picture processing unit (2C02). Rendering is
// performed at scanline granularity: a whole line is rasterized in one
// shot on the 340->0 dot transition rather than pixel-by-pixel, which is
// enough fidelity for background/sprite compositing without reproducing
// the internal "loopy" scroll-register pipeline cycle for cycle.
type PPU struct {
	bus *PPUBus

	ctrl   byte
	mask   byte
	status byte

	oam     [256]byte
	oamAddr byte

	scrollX, scrollY byte
	writeToggle      bool
	vramAddr         uint16
	readBuffer       byte

	palette paletteRAM

	cycle    int
	scanline int

	frameBuffer *image.RGBA
	frameReady  bool
}

// NewPPU creates a new PPU.
func NewPPU(bus *PPUBus) *PPU {
	p := &PPU{bus: bus}
	p.frameBuffer = image.NewRGBA(image.Rect(0, 0, 256, 240))
	p.Reset()
	return p
}

// Reset puts the PPU into its post-power-up state.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.scrollX, p.scrollY = 0, 0
	p.writeToggle = false
	p.vramAddr = 0
	p.cycle = 0
	p.scanline = 0
}

func (p *PPU) nmiOutput() bool { return p.ctrl&0x80 != 0 }

func (p *PPU) backgroundPatternBase() uint16 {
	if p.ctrl&0x10 != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) spritePatternBase() uint16 {
	if p.ctrl&0x08 != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) showBackground() bool { return p.mask&0x08 != 0 }
func (p *PPU) showSprites() bool    { return p.mask&0x10 != 0 }

const (
	statusVBlank      byte = 0x80
	statusSprite0Hit  byte = 0x40
	statusSpriteOverf byte = 0x20
)

// readPPUSTATUS reads $2002, clearing vblank and the write-toggle latch.
func (p *PPU) readPPUSTATUS() byte {
	v := p.status
	p.status &^= statusVBlank
	p.writeToggle = false
	return v
}

func (p *PPU) writePPUCTRL(data byte) { p.ctrl = data }
func (p *PPU) writePPUMASK(data byte) { p.mask = data }

func (p *PPU) writeOAMADDR(data byte) { p.oamAddr = data }

func (p *PPU) readOAMDATA() byte { return p.oam[p.oamAddr] }

func (p *PPU) writeOAMDATA(data byte) {
	p.oam[p.oamAddr] = data
	p.oamAddr++
}

// writePPUSCROLL handles the shared two-write scroll latch.
func (p *PPU) writePPUSCROLL(data byte) {
	if !p.writeToggle {
		p.scrollX = data
	} else {
		p.scrollY = data
	}
	p.writeToggle = !p.writeToggle
}

// writePPUADDR handles the shared two-write address latch.
func (p *PPU) writePPUADDR(data byte) {
	if !p.writeToggle {
		p.vramAddr = (p.vramAddr & 0x00FF) | (uint16(data&0x3F) << 8)
	} else {
		p.vramAddr = (p.vramAddr & 0xFF00) | uint16(data)
	}
	p.writeToggle = !p.writeToggle
}

func (p *PPU) readPPUDATA() byte {
	var v byte
	if p.vramAddr >= 0x3F00 {
		v = p.palette.read(p.vramAddr - 0x3F00)
		buffered, _ := p.bus.read(p.vramAddr - 0x1000)
		p.readBuffer = buffered
	} else {
		v = p.readBuffer
		buffered, err := p.bus.read(p.vramAddr)
		if err != nil {
			glog.Warningf("PPUDATA read: %v", err)
		}
		p.readBuffer = buffered
	}
	p.vramAddr += p.vramIncrement()
	return v
}

func (p *PPU) writePPUDATA(data byte) {
	if p.vramAddr >= 0x3F00 {
		p.palette.write(p.vramAddr-0x3F00, data)
	} else if err := p.bus.write(p.vramAddr, data); err != nil {
		glog.Warningf("PPUDATA write: %v", err)
	}
	p.vramAddr += p.vramIncrement()
}

// oamDMA is invoked by the DMA unit to bulk-load 256 bytes of sprite data.
func (p *PPU) oamDMA(data [256]byte) {
	p.oam = data
}

// backgroundPixel returns the background color index (0-3) and palette
// index at virtual background coordinate (x,y), which already folds in
// the base-nametable selection from CTRL and the scroll registers.
func (p *PPU) backgroundPixel(x, y int) (byte, byte) {
	x &= 511
	y %= 480
	q := quadrantFromCoord(x, y)
	tileX := (x % 256) / 8
	tileY := (y % 240) / 8
	tableAddr := 0x2000 + uint16(q)*0x400 + uint16(tileY*32+tileX)
	tileIndex, _ := p.bus.read(tableAddr)

	attrX := (x % 256) / 32
	attrY := (y % 240) / 32
	attrAddr := 0x2000 + uint16(q)*0x400 + 0x3C0 + uint16(attrY*8+attrX)
	attrByte, _ := p.bus.read(attrAddr)
	localX, localY := (x%256)%32, (y%240)%32
	var shift uint
	switch {
	case localX < 16 && localY < 16:
		shift = 0
	case localX >= 16 && localY < 16:
		shift = 2
	case localX < 16 && localY >= 16:
		shift = 4
	default:
		shift = 6
	}
	paletteIndex := (attrByte >> shift) & 0x3

	colorIndex := patternValue(p.bus, p.backgroundPatternBase(), tileIndex, byte(x%8), byte(y%8))
	return colorIndex, paletteIndex
}

// renderScanline rasterizes one visible scanline (0-239) into the frame
// buffer, compositing background and up to 8 sprites per the documented
// NES sprite-evaluation limit.
func (p *PPU) renderScanline(line int) {
	baseX := int(p.ctrl&0x1) * 256
	baseY := int((p.ctrl>>1)&0x1) * 240

	bgColorIndex := make([]byte, 256)
	for x := 0; x < 256; x++ {
		if !p.showBackground() {
			p.frameBuffer.SetRGBA(x, line, p.palette.backgroundColor(0, 0))
			continue
		}
		ci, pi := p.backgroundPixel(baseX+int(p.scrollX)+x, baseY+int(p.scrollY)+line)
		bgColorIndex[x] = ci
		p.frameBuffer.SetRGBA(x, line, p.palette.backgroundColor(pi, ci))
	}

	if !p.showSprites() {
		return
	}
	evaluated := 0
	for i := 0; i < 64 && evaluated < 8; i++ {
		s := newSprite(p.oam[i*4 : i*4+4])
		by := s.baseY()
		if line < by || line >= by+8 {
			continue
		}
		evaluated++
		row := byte(line - by)
		if s.flipVertical() {
			row = 7 - row
		}
		for col := 0; col < 8; col++ {
			x := int(s.x) + col
			if x >= 256 {
				continue
			}
			sx := byte(col)
			if s.flipHorizontal() {
				sx = 7 - sx
			}
			ci := patternValue(p.bus, p.spritePatternBase(), s.tileIndex, sx, row)
			if ci == 0 {
				continue
			}
			if i == 0 && bgColorIndex[x] != 0 {
				p.status |= statusSprite0Hit
			}
			if s.behindBackground() && bgColorIndex[x] != 0 {
				continue
			}
			p.frameBuffer.SetRGBA(x, line, p.palette.spriteColor(s.paletteIndex(), ci))
		}
	}
	if evaluated == 8 {
		p.status |= statusSpriteOverf
	}
}

// Step advances the PPU by one dot (1/3 CPU cycle) and reports whether an
// NMI edge should be delivered to the CPU.
func (p *PPU) Step() (bool, error) {
	nmi := false
	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		switch {
		case p.scanline <= 239:
			p.renderScanline(p.scanline)
		case p.scanline == 240:
			p.status |= statusVBlank
			if p.nmiOutput() {
				nmi = true
			}
		case p.scanline == 261:
			p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverf
			p.scanline = -1
			p.frameReady = true
		case p.scanline > 261:
			return false, fmt.Errorf("PPU scanline overran: %d", p.scanline)
		}
	}
	return nmi, nil
}

// Frame returns the current frame buffer and whether a new frame has
// completed since the last call.
func (p *PPU) Frame() (*image.RGBA, bool) {
	if p.frameReady {
		p.frameReady = false
		return p.frameBuffer, true
	}
	return p.frameBuffer, false
}
