package nes

// DMACycles is the fixed CPU stall incurred by an OAM-DMA transfer.
const DMACycles = 514

// DMA copies a 256-byte page from CPU-visible memory into PPU OAM when the
// CPU writes to $4014. It never owns its own clock: the CPU accounts for
// the 514-cycle stall and the console loop advances the PPU/APU by the
// same amount, keeping all three clocks in lockstep.
type DMA struct{}

// NewDMA creates a DMA unit.
func NewDMA() *DMA { return &DMA{} }

// Transfer reads 256 bytes starting at page<<8 from the CPU bus.
func (d *DMA) Transfer(bus *CPUBus, page byte) [256]byte {
	var data [256]byte
	offset := uint16(page) << 8
	for i := 0; i < 256; i++ {
		data[i] = bus.read(offset + uint16(i))
	}
	return data
}
