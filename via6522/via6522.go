// Package via6522 implements the 6522 Versatile Interface Adapter: sixteen
// memory-mapped registers, two 16-bit timers with one-shot/continuous
// modes and PB7 toggling, an eight-bit shift register, CA1/CA2/CB1/CB2
// control-line state machines, and the IFR/IER interrupt system feeding
// the CPU's IRQ input.
package via6522

import (
	"fmt"

	"github.com/jmchacon/vectrexia/delay"
	"github.com/jmchacon/vectrexia/io"
)

// Register indices, low nibble of the address.
const (
	RegORB = iota
	RegORA
	RegDDRB
	RegDDRA
	RegT1CL
	RegT1CH
	RegT1LL
	RegT1LH
	RegT2CL
	RegT2CH
	RegSR
	RegACR
	RegPCR
	RegIFR
	RegIER
	RegORANoHandshake
)

// Interrupt flag bit positions within IFR/IER.
const (
	IntCA2    = 1 << 0
	IntCA1    = 1 << 1
	IntSR     = 1 << 2
	IntCB2    = 1 << 3
	IntCB1    = 1 << 4
	IntTimer2 = 1 << 5
	IntTimer1 = 1 << 6
	IntIRQ    = 1 << 7
)

// ACR bit layout.
const (
	acrT1Mask        = 0xC0
	acrT1ContPB7     = 0xC0
	acrT1TimedPB7    = 0x80
	acrT1PB7Control  = 0x80 // set in either PB7-controlling mode
	acrT1Continuous  = 0x40
	acrT2PulsePB6    = 0x20
	acrSRMask        = 0x1C
	acrSRDisabled    = 0x00
	acrSROutT2Free   = 0x10
	acrSRDirOut      = 0x10 // bit4 of the SR field: 0=in, 1=out
	acrPALatch       = 0x01
	acrPBLatch       = 0x02
)

// PCR bit layout.
const (
	pcrCA1Mask      = 0x01
	pcrCA2Mask      = 0x0E
	pcrCA2Out       = 0x08 // handshake: read of ORA drives CA2 low until CA1 re-arms it
	pcrCA2OutPulse  = 0x0A // pulse: read of ORA drives CA2 low for exactly one cycle
	pcrCA2Low       = 0x0C
	pcrCB1Mask      = 0x10
	pcrCB2Mask      = 0xE0
	pcrCB2Out       = 0x80 // handshake: write of ORB drives CB2 low until CB1 re-arms it
	pcrCB2OutPulse  = 0xA0 // pulse: write of ORB drives CB2 low for exactly one cycle
	pcrCB2Low       = 0xC0
)

// Timer is a 16-bit counter with one-shot/continuous semantics.
type Timer struct {
	Counter  uint16
	Enabled  bool
	OneShot  bool // latched true once a one-shot timer has fired
}

// ShiftRegister models the 6522's 8-bit shift register.
type ShiftRegister struct {
	Shifted uint8
	Counter uint8
	Enabled bool
}

// InvalidState reports an internal invariant violation -- unreachable in
// a correct implementation, surfaced rather than panicking.
type InvalidState struct {
	Reason string
}

func (e InvalidState) Error() string { return fmt.Sprintf("via6522: invalid state: %s", e.Reason) }

// ChipDef configures a new Chip.
type ChipDef struct {
	PortAIn  io.PortIn8
	PortARef interface{}
	PortBIn  io.PortIn8
	PortBRef interface{}
	Debug    bool
}

// Chip implements the VIA 6522.
type Chip struct {
	regs [16]uint8

	timer1 Timer
	timer2 Timer
	sr     ShiftRegister

	ca1, ca2, cb1, cb2 bool
	cb1sr, cb2sr       bool // shift-register-driven line state
	iraLatch, irbLatch uint8
	pb7                uint8

	cycle uint64
	pulse delay.Timer[bool]

	portAIn  io.PortIn8
	portARef interface{}
	portBIn  io.PortIn8
	portBRef interface{}

	debug bool
}

// Init returns a freshly constructed, powered-off Chip.
func Init(def *ChipDef) (*Chip, error) {
	return &Chip{
		portAIn:  def.PortAIn,
		portARef: def.PortARef,
		portBIn:  def.PortBIn,
		portBRef: def.PortBRef,
		debug:    def.Debug,
	}, nil
}

// PowerOn resets all registers and internal state to zero.
func (c *Chip) PowerOn() {
	c.regs = [16]uint8{}
	c.timer1 = Timer{}
	c.timer2 = Timer{}
	c.sr = ShiftRegister{}
	c.ca1, c.ca2, c.cb1, c.cb2 = false, false, false, false
	c.cb1sr, c.cb2sr = false, false
	c.iraLatch, c.irbLatch = 0, 0
	c.pb7 = 0
	c.cycle = 0
	c.pulse.Clear()
}

func (c *Chip) setIFR(bits uint8, on bool) {
	if on {
		c.regs[RegIFR] |= bits &^ IntIRQ
	} else {
		c.regs[RegIFR] &^= bits &^ IntIRQ
	}
	c.recomputeIFR()
}

func (c *Chip) recomputeIFR() {
	if c.regs[RegIFR]&c.regs[RegIER]&0x7F != 0 {
		c.regs[RegIFR] |= IntIRQ
	} else {
		c.regs[RegIFR] &^= IntIRQ
	}
}

// Raised implements irq.Sender: the VIA's IRQ output equals IFR bit 7.
func (c *Chip) Raised() bool {
	return c.regs[RegIFR]&IntIRQ != 0
}

func (c *Chip) readPortAInput() uint8 {
	if c.portAIn != nil {
		return c.portAIn(c.portARef)
	}
	return 0
}

func (c *Chip) readPortBInput() uint8 {
	if c.portBIn != nil {
		return c.portBIn(c.portBRef)
	}
	return 0
}

func (c *Chip) readPortA(handshake bool) uint8 {
	ora := c.regs[RegORA] & c.regs[RegDDRA]
	if c.regs[RegACR]&acrPALatch != 0 {
		ora |= c.iraLatch &^ c.regs[RegDDRA]
	} else {
		ora |= c.readPortAInput() &^ c.regs[RegDDRA]
	}
	if handshake && c.regs[RegPCR]&pcrCA2Mask == pcrCA2Out {
		c.ca2 = false // handshake: reading ORA drives CA2 low ("data taken")
	} else if handshake && c.regs[RegPCR]&pcrCA2Mask == pcrCA2OutPulse {
		c.ca2 = false
		c.pulse.Enqueue(c.cycle+1, &c.ca2, true)
	}
	return ora
}

func (c *Chip) readPortB() uint8 {
	orb := c.regs[RegORB]
	if c.regs[RegACR]&acrT1Mask == acrT1PB7Control || c.regs[RegACR]&acrT1Mask == acrT1ContPB7 {
		orb = (orb &^ 0x80) | (c.pb7 << 7)
	}
	orb &= c.regs[RegDDRB]
	if c.regs[RegACR]&acrPBLatch != 0 {
		orb |= c.irbLatch &^ c.regs[RegDDRB]
	} else {
		orb |= c.readPortBInput() &^ c.regs[RegDDRB]
	}
	return orb
}

// PortAOutput and PortBOutput return the combinational pin state the
// rest of the orchestrator (PSG, vector generator) observes each
// cycle -- unlike Read, these have no CPU-side handshake side effects.
func (c *Chip) PortAOutput() uint8 { return c.readPortA(false) }
func (c *Chip) PortBOutput() uint8 { return c.readPortB() }

// Read implements the VIA's register-read contract (spec.md 4.3).
func (c *Chip) Read(reg uint8) uint8 {
	switch reg & 0xF {
	case RegORB:
		return c.readPortB()
	case RegORA:
		return c.readPortA(true)
	case RegORANoHandshake:
		return c.readPortA(false)
	case RegT1CL:
		c.timer1.Enabled = false
		if c.regs[RegACR]&acrT1PB7Control != 0 {
			c.pb7 = 1
		}
		c.setIFR(IntTimer1, false)
		return uint8(c.timer1.Counter)
	case RegT1CH:
		return uint8(c.timer1.Counter >> 8)
	case RegT1LL:
		return c.regs[RegT1LL]
	case RegT1LH:
		return c.regs[RegT1LH]
	case RegT2CL:
		c.setIFR(IntTimer2, false)
		return uint8(c.timer2.Counter)
	case RegT2CH:
		return uint8(c.timer2.Counter >> 8)
	case RegSR:
		c.setIFR(IntSR, false)
		c.sr.Shifted = 0
		c.sr.Enabled = true
		return c.regs[RegSR]
	case RegDDRA, RegDDRB, RegACR, RegPCR, RegIFR:
		return c.regs[reg&0xF]
	case RegIER:
		return c.regs[RegIER] | IntIRQ
	default:
		return 0
	}
}

// Write implements the VIA's register-write contract.
func (c *Chip) Write(reg uint8, val uint8) {
	switch reg & 0xF {
	case RegORB:
		c.regs[RegORB] = val
		if c.regs[RegPCR]&pcrCB2Mask == pcrCB2Out {
			c.cb2 = false // handshake: writing ORB drives CB2 low ("data ready")
		} else if c.regs[RegPCR]&pcrCB2Mask == pcrCB2OutPulse {
			c.cb2 = false
			c.pulse.Enqueue(c.cycle+1, &c.cb2, true)
		}
	case RegORA:
		c.regs[RegORA] = val
		if c.regs[RegPCR]&pcrCA2Mask == pcrCA2Out {
			c.ca2 = true
		}
	case RegORANoHandshake:
		c.regs[RegORA] = val
	case RegT1CL, RegT1LL:
		c.regs[RegT1LL] = val
	case RegT1CH:
		c.regs[RegT1LH] = val
		c.timer1.Counter = uint16(c.regs[RegT1LH])<<8 | uint16(c.regs[RegT1LL])
		c.timer1.Enabled = true
		c.timer1.OneShot = false
		if c.regs[RegACR]&acrT1PB7Control != 0 {
			c.pb7 = 0
		}
		c.setIFR(IntTimer1, false)
	case RegT1LH:
		c.regs[RegT1LH] = val
	case RegT2CL:
		c.regs[RegT2CL] = val
	case RegT2CH:
		c.regs[RegT2CH] = val
		c.timer2.Counter = uint16(c.regs[RegT2CH])<<8 | uint16(c.regs[RegT2CL])
		c.timer2.Enabled = true
		c.timer2.OneShot = false
		c.setIFR(IntTimer2, false)
	case RegSR:
		c.setIFR(IntSR, false)
		c.sr.Shifted = 0
		c.regs[RegSR] = val
		c.sr.Enabled = true
	case RegIFR:
		c.regs[RegIFR] &^= val &^ IntIRQ
		c.recomputeIFR()
	case RegIER:
		if val&IntIRQ != 0 {
			c.regs[RegIER] |= val &^ IntIRQ
		} else {
			c.regs[RegIER] &^= val
		}
		c.recomputeIFR()
	case RegPCR:
		c.regs[RegPCR] = val
		c.ca2 = val&pcrCA2Mask != pcrCA2Low // low => driven 0, anything else (that isn't input) => high
		c.cb2 = val&pcrCB2Mask != pcrCB2Low
	case RegDDRA, RegDDRB, RegACR:
		c.regs[reg&0xF] = val
	default:
		// no-op
	}
}

// CA1, CA2, CB1, CB2 return the VIA's current control-line outputs, as
// observed by the rest of the orchestrator.
func (c *Chip) CA1() bool { return c.ca1 }
func (c *Chip) CA2() bool { return c.ca2 }
func (c *Chip) CB1() bool {
	if mode := c.regs[RegACR] & acrSRMask; mode == 0x0C || mode == 0x1C { // external-clock modes use the raw pin
		return c.cb1
	}
	return c.cb1sr
}
func (c *Chip) CB2() bool {
	if c.regs[RegACR]&acrSRDirOut != 0 {
		return c.cb2sr
	}
	return c.cb2
}

// SetCA1, SetCB1 feed the external edge-triggered input lines.
func (c *Chip) SetCA1(v bool) {
	if v != c.ca1 {
		c.iraLatch = c.readPortAInput()
		c.setIFR(IntCA1, true)
		if v && c.regs[RegPCR]&pcrCA2Mask == pcrCA2Out {
			c.ca2 = true // handshake: active CA1 edge re-arms CA2 high
		}
	}
	c.ca1 = v
}

func (c *Chip) SetCB1(v bool) {
	edge := v && !c.cb1
	if v != c.cb1 {
		c.irbLatch = c.readPortBInput()
		c.setIFR(IntCB1, true)
	}
	c.cb1 = v
	c.shiftOnEdge(edge)
}

func (c *Chip) shiftOnEdge(edge bool) {
	if !c.sr.Enabled {
		c.cb1sr = c.cb1
		return
	}
	if !c.cb1sr && edge {
		if c.regs[RegACR]&acrSRMask != acrSROutT2Free {
			c.sr.Shifted++
		}
		if c.regs[RegACR]&acrSRDirOut != 0 {
			c.cb2sr = c.regs[RegSR]>>7 != 0
			c.regs[RegSR] = c.regs[RegSR]<<1 | c.regs[RegSR]>>7
		} else {
			bit := uint8(0)
			if c.regs[RegPCR]&pcrCB2Mask == pcrCB2Out {
				bit = 1
			}
			c.regs[RegSR] = c.regs[RegSR]<<1 | (bit & boolU8(c.cb2))
		}
		if c.sr.Shifted == 8 {
			c.setIFR(IntSR, true)
			c.sr.Enabled = false
		}
	}
	c.cb1sr = edge
}

func boolU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Step advances the VIA by one CPU cycle, per spec.md 4.3's per-cycle
// algorithm: drain delayed writes, tick the timers, clock the shift
// register, and recompute IFR. Pulse-mode restores are scheduled by the
// port accesses that start the pulse (readPortA, Write), not here.
func (c *Chip) Step() {
	c.cycle++
	c.pulse.Tick(c.cycle)

	if c.timer1.Enabled {
		if c.timer1.Counter == 0 {
			c.timer1.Counter = 0xFFFF
			mode := c.regs[RegACR] & acrT1Mask
			if mode == acrT1Continuous || mode == acrT1ContPB7 {
				c.timer1.Counter = uint16(c.regs[RegT1LH])<<8 | uint16(c.regs[RegT1LL])
				c.setIFR(IntTimer1, true)
				if mode == acrT1ContPB7 {
					c.pb7 ^= 1
				}
			} else if !c.timer1.OneShot {
				c.setIFR(IntTimer1, true)
				c.timer1.OneShot = true
				if c.regs[RegACR]&acrT1PB7Control != 0 {
					c.pb7 = 1
				}
			}
		} else {
			c.timer1.Counter--
		}
	}

	if c.regs[RegACR]&acrT2PulsePB6 == 0 && c.timer2.Enabled {
		if c.timer2.Counter == 0 {
			c.timer2.Counter = 0xFFFF
			if !c.timer2.OneShot {
				c.setIFR(IntTimer2, true)
				c.timer2.OneShot = true
			}
		} else {
			c.timer2.Counter--
		}
	}

	switch c.regs[RegACR] & acrSRMask {
	case acrSRDisabled, 0x0C, 0x1C: // disabled, or CB1-external-clock modes (in/out)
		// no internally generated clock
	case 0x08, 0x18: // phi2-driven modes: CB1 toggles every Step, independent of T2
		c.SetCB1(!c.cb1)
	default: // 0x04, acrSROutT2Free (0x10), 0x14: T2-driven modes
		if c.sr.Counter == 0 {
			c.sr.Counter = c.regs[RegT2CL]
			c.SetCB1(!c.cb1)
		} else {
			c.sr.Counter--
		}
	}

	c.recomputeIFR()
}

// Debug returns a short diagnostic string, gated by the Debug field on
// ChipDef at construction time.
func (c *Chip) Debug() string {
	if !c.debug {
		return ""
	}
	return fmt.Sprintf("via: IFR=%02x IER=%02x ORA=%02x ORB=%02x T1=%04x T2=%04x",
		c.regs[RegIFR], c.regs[RegIER], c.regs[RegORA], c.regs[RegORB], c.timer1.Counter, c.timer2.Counter)
}
