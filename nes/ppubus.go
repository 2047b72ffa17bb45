package nes

import "fmt"

// nameTableQuadrant identifies one of the four logical 1 KiB nametables the
// CPU/PPU address space exposes, independent of how many physical pages of
// VRAM actually back them.
type nameTableQuadrant int

const (
	quadrantFirst nameTableQuadrant = iota
	quadrantSecond
	quadrantThird
	quadrantFourth
)

// physicalNameTable maps a logical quadrant to one of the two physical 1 KiB
// VRAM pages, given the cartridge's mirroring wiring. This is a pure
// function of (quadrant, mode) rather than a lookup table carried on the
// PPU, so mirroring can never drift from the cartridge's declared mode.
func physicalNameTable(q nameTableQuadrant, mode MirrorMode) uint16 {
	switch mode {
	case MirrorHorizontal:
		// First+Second share page 0, Third+Fourth share page 1.
		if q == quadrantFirst || q == quadrantSecond {
			return 0
		}
		return 1
	default: // MirrorVertical
		// First+Third share page 0, Second+Fourth share page 1.
		if q == quadrantFirst || q == quadrantThird {
			return 0
		}
		return 1
	}
}

// PPUBus arbitrates the PPU's 14-bit address space: pattern tables (routed
// through the cartridge mapper), nametables (routed through mirroring), and
// the caller's palette RAM is handled directly by the PPU itself.
type PPUBus struct {
	vram   *RAM
	mapper Mapper
	mode   MirrorMode
}

// NewPPUBus creates a new Bus for PPU.
func NewPPUBus(vram *RAM, mapper Mapper, mode MirrorMode) *PPUBus {
	return &PPUBus{vram, mapper, mode}
}

// mirrorAddress resolves a 0x2000-0x2FFF CPU/PPU-visible nametable address
// to a physical offset into the 2 KiB VRAM backing store.
func (b *PPUBus) mirrorAddress(address uint16) uint16 {
	offset := address % 0x1000 // 0x2000-0x2FFF -> 0x000-0xFFF
	quadrant := nameTableQuadrant(offset / 0x400)
	page := physicalNameTable(quadrant, b.mode)
	return page*0x400 + offset%0x400
}

// read reads data.
// Address        Size    Description
// -------------------------------------
// $0000-$0FFF    $1000   Pattern table 0
// $1000-$1FFF    $1000   Pattern table 1
// $2000-$23FF    $0400   Nametable 0
// $2400-$27FF    $0400   Nametable 1
// $2800-$2BFF    $0400   Nametable 2
// $2C00-$2FFF    $0400   Nametable 3
// $3000-$3EFF    $0F00   Mirrors of $2000-$2EFF
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *PPUBus) read(address uint16) (byte, error) {
	switch {
	case address < 0x2000:
		return b.mapper.ReadFromPPU(address)
	case address < 0x3000:
		return b.vram.read(b.mirrorAddress(address)), nil
	case address < 0x3F00:
		return b.vram.read(b.mirrorAddress(address - 0x1000)), nil
	default:
		return 0, fmt.Errorf("unknown PPU bus read: 0x%04x", address)
	}
}

// write writes data.
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *PPUBus) write(address uint16, data byte) error {
	switch {
	case address < 0x2000:
		return b.mapper.WriteFromPPU(address, data)
	case address < 0x3000:
		b.vram.write(b.mirrorAddress(address), data)
	case address < 0x3F00:
		b.vram.write(b.mirrorAddress(address-0x1000), data)
	default:
		return fmt.Errorf("unknown PPU bus write: address=0x%04x, data=0x%02x", address, data)
	}
	return nil
}
