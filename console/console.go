// Package console implements the Vectrex orchestrator: it owns the
// CPU, VIA, PSG, vector generator, bus, and cartridge slot, and drives
// them through the fixed per-cycle ordering the rest of the system
// depends on.
package console

import (
	"fmt"
	"log"

	"github.com/jmchacon/vectrexia/bus"
	"github.com/jmchacon/vectrexia/cartridge"
	"github.com/jmchacon/vectrexia/m6809"
	"github.com/jmchacon/vectrexia/psg"
	"github.com/jmchacon/vectrexia/vectorgen"
	"github.com/jmchacon/vectrexia/via6522"
)

// CyclesPerFrame and SamplesPerFrame fix the host-facing frame
// geometry: 330x410 @ 50Hz video, 44.1kHz mono audio.
const (
	CyclesPerFrame  = 30000
	SamplesPerFrame = 882
	FrameWidth      = 330
	FrameHeight     = 410
)

// joystick holds one player's current analog/digital input state.
type joystick struct {
	x, y                   uint8
	btn1, btn2, btn3, btn4 bool
}

// Console is the top-level emulated machine.
type Console struct {
	cpu  *m6809.Chip
	via  *via6522.Chip
	psgC *psg.Chip
	vec  *vectorgen.Chip
	bus  *bus.Bus

	players [2]joystick

	lastPortA       uint8
	joystickCompare uint8

	cycles uint64
	debug  bool
}

// ConsoleDef configures a new Console.
type ConsoleDef struct {
	SystemROM []byte // 8KiB BIOS image, mapped at $E000-$FFFF
	Debug     bool
}

// New constructs a Console and resets it via Reset.
func New(def *ConsoleDef) (*Console, error) {
	b, err := bus.New(def.SystemROM)
	if err != nil {
		return nil, fmt.Errorf("console: bus init: %w", err)
	}

	c := &Console{bus: b, debug: def.Debug}

	cpu, err := m6809.Init(&m6809.ChipDef{RAM: b, Debug: def.Debug})
	if err != nil {
		return nil, fmt.Errorf("console: cpu init: %w", err)
	}
	c.cpu = cpu

	v, err := via6522.Init(&via6522.ChipDef{
		PortAIn: func(interface{}) uint8 { return c.lastPortA },
		PortBIn: func(interface{}) uint8 { return c.joystickCompare },
		Debug:   def.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("console: via init: %w", err)
	}
	c.via = v
	b.SetVIA(v)

	p, err := psg.Init(&psg.ChipDef{Debug: def.Debug})
	if err != nil {
		return nil, fmt.Errorf("console: psg init: %w", err)
	}
	c.psgC = p
	p.SetIOReadCallback(func(interface{}) uint8 { return c.buttonMask() }, nil)

	vg, err := vectorgen.Init(&vectorgen.ChipDef{Debug: def.Debug})
	if err != nil {
		return nil, fmt.Errorf("console: vectorgen init: %w", err)
	}
	c.vec = vg

	c.Reset()
	return c, nil
}

// Reset re-initializes the CPU and VIA, matching a console power cycle.
func (c *Console) Reset() {
	c.via.PowerOn()
	c.bus.PowerOn()
	c.cpu.Reset()
	c.cycles = 0
}

// LoadCartridge validates and attaches a ROM image, returning false
// (and leaving prior state untouched) if the image is rejected.
func (c *Console) LoadCartridge(image []byte) bool {
	rom, err := cartridge.Load(image)
	if err != nil {
		if c.debug {
			log.Printf("console: cartridge rejected: %v", err)
		}
		return false
	}
	c.bus.SetCartridge(rom)
	return true
}

// UnloadCartridge detaches the current cartridge, if any.
func (c *Console) UnloadCartridge() {
	c.bus.SetCartridge(nil)
}

// SetPlayer records player n's (1 or 2) analog stick and button state.
// Buttons are supplied active-high; the console inverts them before
// they reach the VIA's active-low input path.
func (c *Console) SetPlayer(n int, x, y uint8, b1, b2, b3, b4 bool) {
	if n != 1 && n != 2 {
		return
	}
	c.players[n-1] = joystick{x: x, y: y, btn1: b1, btn2: b2, btn3: b3, btn4: b4}
}

func (c *Console) buttonMask() uint8 {
	p1, p2 := c.players[0], c.players[1]
	bit := func(pressed bool) uint8 {
		if pressed {
			return 0
		}
		return 1
	}
	return bit(p2.btn4)<<7 | bit(p2.btn3)<<6 | bit(p2.btn2)<<5 | bit(p2.btn1)<<4 |
		bit(p1.btn4)<<3 | bit(p1.btn3)<<2 | bit(p1.btn2)<<1 | bit(p1.btn1)
}

// joystickInput implements the comparator wired to VIA port B bit 5:
// the currently-selected axis (by port B SEL bits 1-2) is compared
// against porta XOR 0x80.
func (c *Console) joystickInput(portA, portB uint8) uint8 {
	sel := (portB >> 1) & 0x3
	var pot uint8
	switch sel {
	case 0:
		pot = c.players[0].x
	case 1:
		pot = c.players[0].y
	case 2:
		pot = c.players[1].x
	case 3:
		pot = c.players[1].y
	}
	if pot > (portA ^ 0x80) {
		return 0x20
	}
	return 0
}

// Run executes instructions until at least cycles cycles have elapsed,
// and returns the number actually run (always >= cycles, since the
// instruction that crosses the boundary always completes).
func (c *Console) Run(cycles uint64) uint64 {
	var ran uint64
	for ran < cycles {
		irq := m6809.IRQNone
		if c.via.Raised() {
			irq = m6809.IRQLine_IRQ
		}
		used, status := c.cpu.Execute(irq)
		if status != m6809.StatusOK && c.debug {
			log.Printf("console: cpu status %s at cycle %d", status, c.cycles)
		}
		if used == 0 {
			used = 1
		}
		for i := 0; i < used; i++ {
			c.stepPeripheralsOneCycle()
		}
		ran += uint64(used)
		c.cycles += uint64(used)
	}
	return ran
}

// stepPeripheralsOneCycle implements the fixed per-cycle ordering the
// rest of the machine depends on: VIA step (and IFR recomputation)
// first, then the vector generator and PSG consume its outputs.
func (c *Console) stepPeripheralsOneCycle() {
	c.via.Step()

	portA := c.via.PortAOutput()
	portB := c.via.PortBOutput()
	c.lastPortA = portA
	c.joystickCompare = c.joystickInput(portA, portB)

	bdir := portB&0x10 != 0
	bc1 := portB&0x08 != 0
	c.psgC.Step(portA, bc1, true, bdir)

	zero := c.via.CA2()
	blank := c.via.CB2()
	c.vec.Step(portA, portB, zero, blank)
}

// Framebuffer rasterizes the current vector log into a
// FrameWidth*FrameHeight intensity grid.
func (c *Console) Framebuffer() []float64 {
	frame := make([]float64, FrameWidth*FrameHeight)
	c.vec.ProduceFrame(frame, FrameWidth, FrameHeight)
	return frame
}

// AudioFill generates len(buf) audio samples from the PSG.
func (c *Console) AudioFill(buf []uint8) {
	c.psgC.FillBuffer(buf)
}

// CPURegisters exposes the CPU register file for a read-only debugger.
func (c *Console) CPURegisters() m6809.Chip {
	return *c.cpu
}

// ReadMemory exposes a single bus byte for a read-only debugger.
func (c *Console) ReadMemory(addr uint16) uint8 {
	return c.bus.Read(addr)
}
