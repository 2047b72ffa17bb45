package nes

import "image"

// Console is the externally-visible emulator surface: advance it one CPU
// step at a time, read back the most recently completed picture, route
// audio samples to a channel, and feed it controller input.
type Console interface {
	Reset()
	Step() (int, error)
	Frame() (*image.RGBA, bool)
	SetAudioOut(chan float32)
	SetButtons([8]bool)
}

// NesConsole wires a cartridge's mapper to a CPU, PPU, APU, and shared DMA
// unit and keeps all three clocks in lockstep.
type NesConsole struct {
	cpu          *CPU
	ppu          *PPU
	apu          *APU
	mapper       Mapper
	controller   *Controller
	dma          *DMA
	lastFrame    uint64
	currentFrame uint64
	buffer       *image.RGBA
}

// NewConsole creates a console from a parsed cartridge. If debug is true,
// this wraps it in a DebugConsole exposing an interactive REPL.
func NewConsole(cartridge *Cartridge, debug bool) (Console, error) {
	mapper := NewMapper(cartridge)
	controller := NewController()
	dma := NewDMA()
	ppuBus := NewPPUBus(NewRAM(), mapper, cartridge.getTableMirrorMode())
	ppu := NewPPU(ppuBus)
	apu := NewAPU()
	cpuBus := NewCPUBus(NewRAM(), ppu, apu, mapper, controller, dma)
	cpu := NewCPU(cpuBus)
	console := &NesConsole{cpu: cpu, ppu: ppu, apu: apu, mapper: mapper, controller: controller, dma: dma}
	if debug {
		return &DebugConsole{NesConsole: console}, nil
	}
	return console, nil
}

// Reset returns the console to its post-power-on state.
func (c *NesConsole) Reset() {
	c.currentFrame = 0
	c.lastFrame = 0
	c.cpu.Reset()
	c.ppu.Reset()
}

// Step executes one CPU instruction (or one stalled cycle) and returns how
// many CPU cycles it consumed, advancing the PPU and APU the same amount
// of real time.
func (c *NesConsole) Step() (int, error) {
	cycles := c.cpu.Do()
	for i := 0; i < cycles; i++ {
		c.apu.Step()
	}
	// The PPU's clock runs exactly 3x the CPU's.
	for i := 0; i < cycles*3; i++ {
		nmi, err := c.ppu.Step()
		if err != nil {
			return cycles, err
		}
		if nmi {
			c.cpu.nmiTriggered = true
		}
		if ok, f := c.ppu.Frame(); ok {
			c.currentFrame++
			c.buffer = f
		}
	}
	return cycles, nil
}

// Frame returns the most recently completed frame, and whether it is new
// since the last call.
func (c *NesConsole) Frame() (*image.RGBA, bool) {
	if c.lastFrame < c.currentFrame {
		c.lastFrame = c.currentFrame
		return c.buffer, true
	}
	return c.buffer, false
}

func (c *NesConsole) SetAudioOut(channel chan float32) {
	c.apu.SetAudioOut(channel)
}

func (c *NesConsole) SetButtons(buttons [8]bool) {
	c.controller.Set(buttons)
}
