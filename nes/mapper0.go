package nes

import "fmt"

// mapper0 implements NROM: https://www.nesdev.org/wiki/NROM
type mapper0 struct {
	prgROM []byte
	chrROM []byte
	chrRAM bool
}

func (m *mapper0) ReadFromCPU(address uint16) (byte, error) {
	if 0x8000 <= address {
		// CPU $8000-$FFFF: 32 KiB of PRG-ROM (NROM-128 is pre-duplicated by the cartridge loader).
		mod := uint16(len(m.prgROM))
		return m.prgROM[(address-0x8000)%mod], nil
	}
	return 0, fmt.Errorf("reading PRG-RAM not implemented: address=0x%04x", address)
}

func (m *mapper0) WriteFromCPU(address uint16, data byte) error {
	if 0x8000 <= address {
		return fmt.Errorf("writing data to PRG-ROM not allowed: address=0x%04x, data=0x%02x", address, data)
	}
	return fmt.Errorf("writing PRG-RAM not implemented: address=0x%04x, data=0x%02x", address, data)
}

func (m *mapper0) ReadFromPPU(address uint16) (byte, error) {
	return m.chrROM[address], nil
}

func (m *mapper0) WriteFromPPU(address uint16, data byte) error {
	if m.chrRAM {
		m.chrROM[address] = data
		return nil
	}
	return fmt.Errorf("writing data to pattern tables not allowed, address=0x%04x, data=0x%02x", address, data)
}
