package m6809

import (
	"fmt"
	"log"

	"github.com/jmchacon/vectrexia/memory"
)

// Chip holds the complete M6809 register file and executes one
// instruction at a time via Execute, mirroring the chip's public
// contract rather than a per-clock-tick microarchitectural model --
// the CPU's documented behavior is instruction-atomic as far as any
// external observer (bus, VIA, debugger) is concerned.
type Chip struct {
	A, B   uint8
	X, Y   uint16
	SP     uint16 // hardware (system) stack pointer
	USP    uint16 // user stack pointer
	PC     uint16
	DP     uint8
	CC     uint8
	state  RunState
	ram    memory.Bank
	debug  bool
}

// ChipDef configures a new Chip.
type ChipDef struct {
	// RAM is the bus the CPU fetches and stores through. Despite the
	// name this is typically a bus.Bus implementation that routes
	// across RAM, ROM, and the VIA's register window.
	RAM memory.Bank
	// Debug enables log output for unknown opcodes in Execute.
	Debug bool
}

// Init validates def and returns a powered-off Chip ready for Reset.
func Init(def *ChipDef) (*Chip, error) {
	if def.RAM == nil {
		return nil, fmt.Errorf("ChipDef.RAM must not be nil")
	}
	return &Chip{
		ram:   def.RAM,
		debug: def.Debug,
	}, nil
}

// D returns the 16-bit accumulator formed by A (high) and B (low).
func (c *Chip) D() uint16 {
	return uint16(c.A)<<8 | uint16(c.B)
}

// SetD stores a 16-bit value split across A (high) and B (low).
func (c *Chip) SetD(v uint16) {
	c.A = uint8(v >> 8)
	c.B = uint8(v)
}

func (c *Chip) flag(mask uint8) bool {
	return c.CC&mask != 0
}

func (c *Chip) setFlag(mask uint8, on bool) {
	if on {
		c.CC |= mask
	} else {
		c.CC &^= mask
	}
}

// Reset clears the general registers, forces CC to I|F, and loads PC
// from the reset vector.
func (c *Chip) Reset() {
	c.A, c.B = 0, 0
	c.X, c.Y = 0, 0
	c.SP, c.USP = 0, 0
	c.DP = 0
	c.CC = FlagI | FlagF
	c.state = StateNormal
	c.PC = c.read16(VectorReset)
}

func (c *Chip) read8(addr uint16) uint8 {
	return c.ram.Read(addr)
}

func (c *Chip) write8(addr uint16, val uint8) {
	c.ram.Write(addr, val)
}

func (c *Chip) read16(addr uint16) uint16 {
	hi := c.ram.Read(addr)
	lo := c.ram.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Chip) write16(addr uint16, val uint16) {
	c.ram.Write(addr, uint8(val>>8))
	c.ram.Write(addr+1, uint8(val))
}

func (c *Chip) fetch8() uint8 {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *Chip) fetch16() uint16 {
	v := c.read16(c.PC)
	c.PC += 2
	return v
}

func (c *Chip) push16(sp *uint16, v uint16) {
	*sp--
	c.write8(*sp, uint8(v))
	*sp--
	c.write8(*sp, uint8(v>>8))
}

func (c *Chip) push8(sp *uint16, v uint8) {
	*sp--
	c.write8(*sp, v)
}

func (c *Chip) pull8(sp *uint16) uint8 {
	v := c.read8(*sp)
	*sp++
	return v
}

func (c *Chip) pull16(sp *uint16) uint16 {
	hi := c.read8(*sp)
	*sp++
	lo := c.read8(*sp)
	*sp++
	return uint16(hi)<<8 | uint16(lo)
}

// pushFullSet pushes PC, USP, Y, X, DP, B, A, CC onto SP in that order
// (i.e. PC deepest, CC on top).
func (c *Chip) pushFullSet() {
	c.push16(&c.SP, c.PC)
	c.push16(&c.SP, c.USP)
	c.push16(&c.SP, c.Y)
	c.push16(&c.SP, c.X)
	c.push8(&c.SP, c.DP)
	c.push8(&c.SP, c.B)
	c.push8(&c.SP, c.A)
	c.push8(&c.SP, c.CC)
}

// Execute performs one step: interrupt dispatch (if warranted) followed
// by fetch/decode/execute of a single instruction, returning the cycles
// consumed and a status code.
func (c *Chip) Execute(irq IRQLine) (int, Status) {
	if cycles, handled := c.dispatchInterrupt(irq); handled {
		return cycles, StatusOK
	}
	if c.state != StateNormal {
		// Waiting/syncing with nothing dispatchable this step.
		return 0, StatusOK
	}

	startPC := c.PC
	op := c.fetch8()
	switch op {
	case 0x10:
		op2 := c.fetch8()
		e, ok := page1Table[op2]
		if !ok {
			if c.debug {
				log.Printf("m6809: unknown page1 opcode $10 $%02x at PC=$%04x", op2, startPC)
			}
			return 1, StatusUnknownOpcodePage1
		}
		return c.runEntry(e)
	case 0x11:
		op2 := c.fetch8()
		e, ok := page2Table[op2]
		if !ok {
			if c.debug {
				log.Printf("m6809: unknown page2 opcode $11 $%02x at PC=$%04x", op2, startPC)
			}
			return 1, StatusUnknownOpcodePage2
		}
		return c.runEntry(e)
	default:
		e, ok := baseTable[op]
		if !ok {
			if c.debug {
				log.Printf("m6809: unknown opcode $%02x at PC=$%04x", op, startPC)
			}
			return 1, StatusUnknownOpcode
		}
		return c.runEntry(e)
	}
}

// dispatchInterrupt implements spec.md 4.2's interrupt-dispatch algorithm.
// It returns (cyclesUsed, true) if it fully handled the step (dispatched
// an interrupt, or consumed a wait/sync step), or (0, false) if the
// caller should proceed to normal instruction fetch.
func (c *Chip) dispatchInterrupt(irq IRQLine) (int, bool) {
	pending := irq != IRQNone
	if c.state == StateSync && pending {
		c.state = StateNormal
	}

	if irq == IRQLine_NMI || (irq == IRQLine_IRQ && !c.flag(FlagI)) {
		if c.state == StateWait {
			c.state = StateNormal
			vec := VectorIRQ
			if irq == IRQLine_NMI {
				vec = VectorNMI
			}
			c.PC = c.read16(vec)
			return 19, true // CWAI/NMI already pushed full set earlier
		}
		if c.state == StateNormal {
			c.setFlag(FlagE, true)
			c.pushFullSet()
			c.setFlag(FlagI, true)
			c.setFlag(FlagF, true)
			vec := VectorIRQ
			if irq == IRQLine_NMI {
				vec = VectorNMI
			}
			c.PC = c.read16(vec)
			return 19, true
		}
	} else if irq == IRQLine_FIRQ && !c.flag(FlagF) {
		if c.state == StateWait {
			c.state = StateNormal
			c.PC = c.read16(VectorFIRQ)
			return 10, true // CWAI already pushed full set earlier
		}
		if c.state == StateNormal {
			c.setFlag(FlagE, false)
			c.push16(&c.SP, c.PC)
			c.push8(&c.SP, c.CC)
			c.setFlag(FlagI, true)
			c.setFlag(FlagF, true)
			c.PC = c.read16(VectorFIRQ)
			return 10, true
		}
	}

	if c.state != StateNormal {
		return 0, true
	}
	return 0, false
}
