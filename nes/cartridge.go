package nes

import "fmt"

const (
	chrROMSizeUnit      int  = 0x2000 // 8 KiB
	prgROMSizeUnit      int  = 0x4000 // 16 KiB
	InesHeaderSizeBytes int  = 16     // The valid INES header has 16 bytes
	MSDOSEOF            byte = 0x1A
)

// MirrorMode is the nametable mirroring arrangement wired on the cartridge.
type MirrorMode int

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
)

// CartridgeError is returned by NewCartridge for malformed iNES images.
// A bad ROM is an input error, never a panic.
type CartridgeError struct {
	Reason string
}

func (e *CartridgeError) Error() string {
	return fmt.Sprintf("cartridge: %s", e.Reason)
}

var (
	ErrDamagedHeader = &CartridgeError{"damaged iNES header (bad magic or short file)"}
	ErrTruncatedPRG  = &CartridgeError{"file is shorter than the declared PRG-ROM size"}
	ErrTruncatedCHR  = &CartridgeError{"file is shorter than the declared CHR-ROM size"}
)

// Cartridge holds PRG-ROM/CHR-ROM and the iNES header flags.
// https://www.nesdev.org/wiki/INES
type Cartridge struct {
	prgROM  []byte
	chrROM  []byte
	chrRAM  bool // true when the header declares zero CHR-ROM pages
	flags6  byte // https://www.nesdev.org/wiki/INES#Flags_6
	flags7  byte // https://www.nesdev.org/wiki/INES#Flags_7
	flags8  byte // https://www.nesdev.org/wiki/INES#Flags_8
	flags9  byte // https://www.nesdev.org/wiki/INES#Flags_9
	flags10 byte // https://www.nesdev.org/wiki/INES#Flags_10
}

// isValid checks whether the buffer starts with a well-formed iNES header.
func isValid(data []byte) bool {
	return len(data) >= InesHeaderSizeBytes &&
		data[0] == byte('N') &&
		data[1] == byte('E') &&
		data[2] == byte('S') &&
		data[3] == MSDOSEOF
}

// readPRGROM retrieves Program ROM from the cartridge image. A single
// 16 KiB page (NROM-128) is duplicated to fill the 32 KiB CPU window.
func readPRGROM(data []byte) []byte {
	l := InesHeaderSizeBytes
	r := l + int(data[4])*prgROMSizeUnit
	prg := data[l:r]
	if len(prg) == prgROMSizeUnit {
		full := make([]byte, prgROMSizeUnit*2)
		copy(full[:prgROMSizeUnit], prg)
		copy(full[prgROMSizeUnit:], prg)
		return full
	}
	return prg
}

// readCHRROM retrieves Character ROM from the cartridge image.
func readCHRROM(data []byte) []byte {
	l := InesHeaderSizeBytes + int(data[4])*prgROMSizeUnit
	r := l + int(data[5])*chrROMSizeUnit
	return data[l:r]
}

// NewCartridge parses an iNES image into a Cartridge.
func NewCartridge(data []byte) (*Cartridge, error) {
	if !isValid(data) {
		return nil, ErrDamagedHeader
	}
	prgPages := int(data[4])
	if len(data) < InesHeaderSizeBytes+prgPages*prgROMSizeUnit {
		return nil, ErrTruncatedPRG
	}
	chrPages := int(data[5])
	want := InesHeaderSizeBytes + prgPages*prgROMSizeUnit + chrPages*chrROMSizeUnit
	if len(data) < want {
		return nil, ErrTruncatedCHR
	}
	c := &Cartridge{}
	c.prgROM = readPRGROM(data)
	if chrPages == 0 {
		c.chrRAM = true
		c.chrROM = make([]byte, chrROMSizeUnit)
	} else {
		c.chrROM = readCHRROM(data)
	}
	c.flags6 = data[6]
	c.flags7 = data[7]
	c.flags8 = data[8]
	c.flags9 = data[9]
	c.flags10 = data[10]
	return c, nil
}

// getTableMirrorMode returns the nametable mirroring mode declared by
// flags6 bit 0 (0 = horizontal, 1 = vertical).
func (c *Cartridge) getTableMirrorMode() MirrorMode {
	if c.flags6&1 == 1 {
		return MirrorVertical
	}
	return MirrorHorizontal
}
