package nes

import "testing"

func TestCPUBusWRAMIsMirroredEveryEightKiB(t *testing.T) {
	cpu := newTestCPU(t, []byte{0xEA})
	cpu.bus.write(0x0001, 0x42)
	if got := cpu.bus.read(0x0801); got != 0x42 {
		t.Fatalf("WRAM mirror at 0x0801: got=0x%02x, want=0x42", got)
	}
	if got := cpu.bus.read(0x1801); got != 0x42 {
		t.Fatalf("WRAM mirror at 0x1801: got=0x%02x, want=0x42", got)
	}
}

func TestCPUBusRead16WrappedReproducesIndirectJMPBug(t *testing.T) {
	cpu := newTestCPU(t, []byte{0xEA})
	cpu.bus.write(0x02FF, 0x34)
	cpu.bus.write(0x0200, 0x12) // high byte wraps to the start of the same page
	cpu.bus.write(0x0300, 0xFF) // would be the (wrong) unwrapped high byte
	if got := cpu.bus.read16Wrapped(0x02FF); got != 0x1234 {
		t.Fatalf("read16Wrapped: got=0x%04x, want=0x1234", got)
	}
}

func TestCPUBusRead16DoesNotWrap(t *testing.T) {
	cpu := newTestCPU(t, []byte{0xEA})
	cpu.bus.write(0x0200, 0x34)
	cpu.bus.write(0x0201, 0x12)
	if got := cpu.bus.read16(0x0200); got != 0x1234 {
		t.Fatalf("read16: got=0x%04x, want=0x1234", got)
	}
}

func TestPPUBusMirrorsNametablesHorizontally(t *testing.T) {
	data := buildROM([]byte{0xEA}, 0x8000)
	cartridge, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	mapper := NewMapper(cartridge)
	bus := NewPPUBus(NewRAM(), mapper, MirrorHorizontal)
	if err := bus.write(0x2000, 0x55); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := bus.read(0x2400) // second quadrant shares page 0 under horizontal mirroring
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0x55 {
		t.Fatalf("mirrored nametable read: got=0x%02x, want=0x55", got)
	}
}
