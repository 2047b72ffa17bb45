package nes

import "github.com/golang/glog"

// Mapper routes CPU/PPU cartridge accesses through whatever bank-switching
// scheme the cartridge declares. Only mapper 0 (NROM) is implemented: the
// target titles for this emulator never page-swap PRG/CHR banks, so bank
// registers beyond NROM are out of scope.
type Mapper interface {
	ReadFromCPU(uint16) (byte, error)
	WriteFromCPU(uint16, byte) error
	ReadFromPPU(uint16) (byte, error)
	WriteFromPPU(uint16, byte) error
}

// NewMapper builds the Mapper declared by the cartridge's flags6/7 mapper
// number. A mapper number other than 0 is a fatal configuration error: the
// cartridge asked for hardware this emulator does not model.
func NewMapper(cartridge *Cartridge) Mapper {
	number := (cartridge.flags7 & 0xF0) | (cartridge.flags6 >> 4)
	switch number {
	case 0:
		return &mapper0{cartridge.prgROM, cartridge.chrROM, cartridge.chrRAM}
	default:
		glog.Fatalf("unsupported mapper number: %d (only NROM/mapper 0 is implemented)", number)
		return nil
	}
}
