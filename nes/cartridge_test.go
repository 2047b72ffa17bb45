package nes

import "testing"

func TestNewCartridgeRejectsBadMagic(t *testing.T) {
	_, err := NewCartridge([]byte("not an ines file at all"))
	if err != ErrDamagedHeader {
		t.Fatalf("err: got=%v, want=%v", err, ErrDamagedHeader)
	}
}

func TestNewCartridgeRejectsTruncatedPRG(t *testing.T) {
	data := make([]byte, InesHeaderSizeBytes+1)
	data[0], data[1], data[2], data[3] = 'N', 'E', 'S', MSDOSEOF
	data[4] = 1 // claims 16 KiB PRG but the buffer is far shorter
	_, err := NewCartridge(data)
	if err != ErrTruncatedPRG {
		t.Fatalf("err: got=%v, want=%v", err, ErrTruncatedPRG)
	}
}

func TestNROM128DuplicatesPRGTo32KiB(t *testing.T) {
	data := buildROM([]byte{0xEA}, 0x8000)
	// buildROM always declares 2 PRG pages (32 KiB); shrink the header to
	// exercise NROM-128 mirroring instead.
	data[4] = 1
	data = data[:InesHeaderSizeBytes+prgROMSizeUnit+chrROMSizeUnit]
	cartridge, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if len(cartridge.prgROM) != 0x8000 {
		t.Fatalf("len(prgROM): got=%d, want=0x8000", len(cartridge.prgROM))
	}
	if cartridge.prgROM[0] != cartridge.prgROM[0x4000] {
		t.Fatalf("NROM-128 should duplicate its single bank across both halves of the CPU window")
	}
}

func TestZeroCHRPagesEnablesCHRRAM(t *testing.T) {
	data := make([]byte, InesHeaderSizeBytes+prgROMSizeUnit)
	data[0], data[1], data[2], data[3] = 'N', 'E', 'S', MSDOSEOF
	data[4] = 1
	data[5] = 0
	cartridge, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if !cartridge.chrRAM {
		t.Fatalf("expected chrRAM when the header declares zero CHR-ROM pages")
	}
	if len(cartridge.chrROM) != chrROMSizeUnit {
		t.Fatalf("len(chrROM): got=%d, want=%d", len(cartridge.chrROM), chrROMSizeUnit)
	}
}

func TestMirrorModeFromFlags6(t *testing.T) {
	c := &Cartridge{flags6: 0}
	if c.getTableMirrorMode() != MirrorHorizontal {
		t.Fatalf("flags6 bit0=0 should be horizontal mirroring")
	}
	c.flags6 = 1
	if c.getTableMirrorMode() != MirrorVertical {
		t.Fatalf("flags6 bit0=1 should be vertical mirroring")
	}
}
