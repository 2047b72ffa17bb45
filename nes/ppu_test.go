package nes

import "testing"

func TestPhysicalNameTableHorizontalMirroring(t *testing.T) {
	cases := map[nameTableQuadrant]uint16{
		quadrantFirst:  0,
		quadrantSecond: 0,
		quadrantThird:  1,
		quadrantFourth: 1,
	}
	for q, want := range cases {
		if got := physicalNameTable(q, MirrorHorizontal); got != want {
			t.Errorf("physicalNameTable(%v, horizontal): got=%d, want=%d", q, got, want)
		}
	}
}

func TestPhysicalNameTableVerticalMirroring(t *testing.T) {
	cases := map[nameTableQuadrant]uint16{
		quadrantFirst:  0,
		quadrantSecond: 1,
		quadrantThird:  0,
		quadrantFourth: 1,
	}
	for q, want := range cases {
		if got := physicalNameTable(q, MirrorVertical); got != want {
			t.Errorf("physicalNameTable(%v, vertical): got=%d, want=%d", q, got, want)
		}
	}
}

func TestPaletteRAMBackgroundMirroring(t *testing.T) {
	var p paletteRAM
	// Writing $3F10 must also be visible at $3F00 (and vice versa).
	p.write(0x10, 0x2A)
	if p.read(0x00) != 0x2A {
		t.Fatalf("palette $3F00 mirror: got=0x%02x, want=0x2a", p.read(0x00))
	}
	p.write(0x00, 0x15)
	if p.read(0x10) != 0x15 {
		t.Fatalf("palette $3F10 mirror: got=0x%02x, want=0x15", p.read(0x10))
	}
}

func newTestPPU(t *testing.T) *PPU {
	t.Helper()
	data := buildROM([]byte{0xEA}, 0x8000)
	cartridge, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	mapper := NewMapper(cartridge)
	bus := NewPPUBus(NewRAM(), mapper, MirrorHorizontal)
	return NewPPU(bus)
}

func TestPPUSTATUSClearsVBlankAndWriteToggle(t *testing.T) {
	p := newTestPPU(t)
	p.status |= statusVBlank
	p.writeToggle = true
	v := p.readPPUSTATUS()
	if v&statusVBlank == 0 {
		t.Fatalf("readPPUSTATUS should return vblank set before clearing it")
	}
	if p.status&statusVBlank != 0 {
		t.Fatalf("readPPUSTATUS should clear vblank as a side effect")
	}
	if p.writeToggle {
		t.Fatalf("readPPUSTATUS should reset the scroll/addr write toggle")
	}
}

func TestSpriteZeroHitSetsStatusBit(t *testing.T) {
	p := newTestPPU(t)
	mapper := p.bus.mapper.(*mapper0)
	// Tile 0's first bit-plane row 0 entirely opaque (color index 1).
	mapper.chrROM[0] = 0xFF
	p.mask = 0x18 // show background and sprites
	p.oam[0] = 7  // baseY() = 8, so scanline 8 is this sprite's row 0
	p.oam[1] = 0  // tile index 0
	p.oam[2] = 0  // attr: palette 0, in front of background
	p.oam[3] = 0  // X
	// At line 8 the background also samples tile row 8%8=0 of tile index 0
	// (the nametable byte is zero-initialized), so both layers read the
	// same opaque CHR byte and overlap at x=0.
	p.renderScanline(8)
	if p.status&statusSprite0Hit == 0 {
		t.Fatalf("expected statusSprite0Hit to be set when sprite 0 overlaps an opaque background pixel")
	}
}

func TestVRAMIncrementFollowsCTRLBit2(t *testing.T) {
	p := newTestPPU(t)
	p.ctrl = 0
	if p.vramIncrement() != 1 {
		t.Fatalf("vramIncrement: got=%d, want=1", p.vramIncrement())
	}
	p.ctrl = 0x04
	if p.vramIncrement() != 32 {
		t.Fatalf("vramIncrement: got=%d, want=32", p.vramIncrement())
	}
}
