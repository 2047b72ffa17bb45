package nes

import "github.com/golang/glog"

// CPUBus arbitrates the CPU's 16-bit address space, routing loads and
// stores to WRAM, the PPU register window, the APU, the joypad, and
// cartridge PRG-ROM (through the mapper).
type CPUBus struct {
	wram       *RAM
	ppu        *PPU
	apu        *APU
	mapper     Mapper
	controller *Controller
	dma        *DMA
}

// NewCPUBus creates a new Bus for CPU.
// CPU memory map
// 0x0000 - 0x07FF	WRAM
// 0x0800 - 0x1FFF	WRAM Mirror
// 0x2000 - 0x2007	PPU Registers
// 0x2008 - 0x3FFF	PPU Registers Mirror
// 0x4000 - 0x4013, 0x4015	APU Registers
// 0x4014		OAM DMA latch (handled by CPU.write, not this bus)
// 0x4016 - 0x4017	Joypad / APU frame counter
// 0x4020 - 0x5FFF	Extended RAM (unsupported)
// 0x6000 - 0x7FFF	Battery Backup RAM (unsupported)
// 0x8000 - 0xFFFF	PRG-ROM
func NewCPUBus(wram *RAM, ppu *PPU, apu *APU, mapper Mapper, controller *Controller, dma *DMA) *CPUBus {
	return &CPUBus{wram, ppu, apu, mapper, controller, dma}
}

func (b *CPUBus) readPPURegister(address uint16) byte {
	switch address & 0x2007 {
	case 0x2002:
		return b.ppu.readPPUSTATUS()
	case 0x2004:
		return b.ppu.readOAMDATA()
	case 0x2007:
		return b.ppu.readPPUDATA()
	default:
		glog.V(1).Infof("write-only PPU register read: 0x%04x", address)
	}
	return 0
}

// read reads a byte.
func (b *CPUBus) read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.wram.read(address % 0x0800)
	case address < 0x4000:
		return b.readPPURegister(address)
	case address == 0x4015:
		return b.apu.readStatus()
	case address == 0x4016:
		return b.controller.read()
	case address == 0x4017:
		return 0 // Second controller port is not implemented.
	case address < 0x4020:
		glog.V(1).Infof("unimplemented CPU bus read: address=0x%04x", address)
	case 0x8000 <= address:
		v, err := b.mapper.ReadFromCPU(address)
		if err != nil {
			glog.Fatalf("CPU bus read: %v", err)
		}
		return v
	default:
		glog.Fatalf("unknown CPU bus read: 0x%04x", address)
	}
	return 0
}

// read16 reads 2 bytes, little-endian.
func (b *CPUBus) read16(address uint16) uint16 {
	l := uint16(b.read(address))
	h := uint16(b.read(address+1)) << 8
	return h | l
}

// read16Wrapped reads 2 bytes the way JMP (indirect) does: if the low byte
// of address is 0xFF, the high byte is fetched from the start of the same
// page rather than the next one. This reproduces the 6502 indirect-JMP
// page-wrap bug on every page, not just the historically cited $00FF and
// $02FF cases.
func (b *CPUBus) read16Wrapped(address uint16) uint16 {
	l := uint16(b.read(address))
	hiAddr := (address & 0xFF00) | uint16(byte(address)+1)
	h := uint16(b.read(hiAddr)) << 8
	return h | l
}

func (b *CPUBus) writeToPPURegisters(address uint16, data byte) {
	switch address & 0x2007 {
	case 0x2000:
		b.ppu.writePPUCTRL(data)
	case 0x2001:
		b.ppu.writePPUMASK(data)
	case 0x2003:
		b.ppu.writeOAMADDR(data)
	case 0x2004:
		b.ppu.writeOAMDATA(data)
	case 0x2005:
		b.ppu.writePPUSCROLL(data)
	case 0x2006:
		b.ppu.writePPUADDR(data)
	case 0x2007:
		b.ppu.writePPUDATA(data)
	default:
		glog.V(1).Infof("read-only PPU register write: address=0x%04x, data=0x%02x", address, data)
	}
}

// write writes a byte.
func (b *CPUBus) write(address uint16, data byte) {
	switch {
	case address < 0x2000:
		b.wram.write(address%0x0800, data)
	case address < 0x4000:
		b.writeToPPURegisters(address, data)
	case address == 0x4014:
		glog.Fatalf("OAM DMA write must be handled by CPU.write, not CPUBus.write")
	case address == 0x4016:
		b.controller.write(data)
	case address == 0x4017:
		b.apu.writeFrameCounter(data)
	case address <= 0x4013:
		b.apu.writeRegister(address, data)
	case address == 0x4015:
		b.apu.writeStatus(data)
	case address < 0x4020:
		glog.V(1).Infof("unimplemented CPU bus write: address=0x%04x, data=0x%02x", address, data)
	case 0x8000 <= address:
		if err := b.mapper.WriteFromCPU(address, data); err != nil {
			glog.V(1).Infof("%v", err)
		}
	default:
		glog.Fatalf("unknown CPU bus write: address=0x%04x, data=0x%02x", address, data)
	}
}
