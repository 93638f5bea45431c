package m6809

// opFunc executes one decoded instruction body (everything after the
// opcode byte itself has been consumed) and returns the extra cycles
// beyond the table entry's base cost, plus a status.
type opFunc func(c *Chip, mode AddrMode) (int, Status)

type opEntry struct {
	name   string
	mode   AddrMode
	cycles int
	run    opFunc
}

var baseTable = map[uint8]opEntry{}
var page1Table = map[uint8]opEntry{}
var page2Table = map[uint8]opEntry{}

func (c *Chip) runEntry(e opEntry) (int, Status) {
	extra, st := e.run(c, e.mode)
	if st != StatusOK {
		return e.cycles, st
	}
	return e.cycles + extra, StatusOK
}

// --- register handles -------------------------------------------------

type reg8 struct {
	get func(c *Chip) uint8
	set func(c *Chip, v uint8)
}

type reg16 struct {
	get func(c *Chip) uint16
	set func(c *Chip, v uint16)
}

var regA8 = reg8{get: func(c *Chip) uint8 { return c.A }, set: func(c *Chip, v uint8) { c.A = v }}
var regB8 = reg8{get: func(c *Chip) uint8 { return c.B }, set: func(c *Chip, v uint8) { c.B = v }}

var regD16 = reg16{get: func(c *Chip) uint16 { return c.D() }, set: func(c *Chip, v uint16) { c.SetD(v) }}
var regX16 = reg16{get: func(c *Chip) uint16 { return c.X }, set: func(c *Chip, v uint16) { c.X = v }}
var regY16 = reg16{get: func(c *Chip) uint16 { return c.Y }, set: func(c *Chip, v uint16) { c.Y = v }}
var regU16 = reg16{get: func(c *Chip) uint16 { return c.USP }, set: func(c *Chip, v uint16) { c.USP = v }}
var regS16 = reg16{get: func(c *Chip) uint16 { return c.SP }, set: func(c *Chip, v uint16) { c.SP = v }}

// --- load / store / arithmetic kernels --------------------------------

func kindLoad8(r reg8) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		r.set(c, v)
		c.setFlagsLogic8(v)
		return extra, StatusOK
	}
}

func kindStore8(r reg8) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		addr, extra, st := c.addr16For(mode)
		if st != StatusOK {
			return 0, st
		}
		v := r.get(c)
		c.write8(addr, v)
		c.setFlagsLogic8(v)
		return extra, StatusOK
	}
}

func kindLoad16(r reg16) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value16(mode)
		if st != StatusOK {
			return 0, st
		}
		r.set(c, v)
		c.setFlagsLogic16(v)
		return extra, StatusOK
	}
}

func kindStore16(r reg16) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		addr, extra, st := c.addr16For(mode)
		if st != StatusOK {
			return 0, st
		}
		v := r.get(c)
		c.write16(addr, v)
		c.setFlagsLogic16(v)
		return extra, StatusOK
	}
}

func kindAdd8(r reg8, withCarry bool) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		carry := uint8(0)
		if withCarry && c.flag(FlagC) {
			carry = 1
		}
		result := a + v + carry
		c.setFlagsMath8(a, v, result, false)
		r.set(c, result)
		return extra, StatusOK
	}
}

func kindSub8(r reg8, withBorrow bool) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		borrow := uint8(0)
		if withBorrow && c.flag(FlagC) {
			borrow = 1
		}
		result := a - v - borrow
		c.setFlagsMath8(a, v, result, true)
		r.set(c, result)
		return extra, StatusOK
	}
}

func kindCmp8(r reg8) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		result := a - v
		c.setFlagsMath8(a, v, result, true)
		return extra, StatusOK
	}
}

func kindLogic8(r reg8, op func(a, b uint8) uint8) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		result := op(r.get(c), v)
		r.set(c, result)
		c.setFlagsLogic8(result)
		return extra, StatusOK
	}
}

func kindBit8(r reg8) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value8(mode)
		if st != StatusOK {
			return 0, st
		}
		c.setFlagsLogic8(r.get(c) & v)
		return extra, StatusOK
	}
}

func kindAdd16(r reg16) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value16(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		result := a + v
		c.setFlagsMath16(a, v, result, false)
		r.set(c, result)
		return extra, StatusOK
	}
}

func kindSub16(r reg16) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value16(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		result := a - v
		c.setFlagsMath16(a, v, result, true)
		r.set(c, result)
		return extra, StatusOK
	}
}

func kindCmp16(r reg16) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		v, extra, st := c.value16(mode)
		if st != StatusOK {
			return 0, st
		}
		a := r.get(c)
		result := a - v
		c.setFlagsMath16(a, v, result, true)
		return extra, StatusOK
	}
}

func kindLea(r reg16, affectsZ bool) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		addr, extra, st := c.resolveIndexed()
		if st != StatusOK {
			return 0, st
		}
		r.set(c, addr)
		if affectsZ {
			c.setFlag(FlagZ, addr == 0)
		}
		return extra, StatusOK
	}
}

// --- single-operand RMW kernels ----------------------------------------

type rmwKernel func(c *Chip, v uint8) (uint8, bool)

func kindRMW8(accIsA bool, kernel rmwKernel) opFunc {
	return func(c *Chip, mode AddrMode) (int, Status) {
		t, extra, st := c.target8For(mode, accIsA)
		if st != StatusOK {
			return 0, st
		}
		old := t.get()
		result, store := kernel(c, old)
		if store {
			t.set(result)
		}
		return extra, StatusOK
	}
}

func negKernel(c *Chip, v uint8) (uint8, bool) {
	result := uint8(0) - v
	c.setFlagsMath8(0, v, result, true)
	return result, true
}

func comKernel(c *Chip, v uint8) (uint8, bool) {
	result := ^v
	c.setFlagsLogic8(result)
	c.setFlag(FlagC, true)
	return result, true
}

func lsrKernel(c *Chip, v uint8) (uint8, bool) {
	result := v >> 1
	c.setFlag(FlagC, v&0x01 != 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func rorKernel(c *Chip, v uint8) (uint8, bool) {
	oldC := c.flag(FlagC)
	result := v >> 1
	if oldC {
		result |= 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func asrKernel(c *Chip, v uint8) (uint8, bool) {
	result := (v >> 1) | (v & 0x80)
	c.setFlag(FlagC, v&0x01 != 0)
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func aslKernel(c *Chip, v uint8) (uint8, bool) {
	result := v << 1
	c.setFlag(FlagC, v&0x80 != 0)
	c.setFlag(FlagV, (v&0x80 != 0) != (v&0x40 != 0))
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func rolKernel(c *Chip, v uint8) (uint8, bool) {
	oldC := c.flag(FlagC)
	result := v << 1
	if oldC {
		result |= 0x01
	}
	c.setFlag(FlagC, v&0x80 != 0)
	c.setFlag(FlagV, (v&0x80 != 0) != (v&0x40 != 0))
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func decKernel(c *Chip, v uint8) (uint8, bool) {
	result := v - 1
	c.setFlag(FlagV, v == 0x80)
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func incKernel(c *Chip, v uint8) (uint8, bool) {
	result := v + 1
	c.setFlag(FlagV, v == 0x7F)
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagZ, result == 0)
	return result, true
}

func tstKernel(c *Chip, v uint8) (uint8, bool) {
	c.setFlagsLogic8(v)
	return v, false
}

func clrKernel(c *Chip, v uint8) (uint8, bool) {
	c.setFlag(FlagZ, true)
	c.setFlag(FlagN, false)
	c.setFlag(FlagV, false)
	c.setFlag(FlagC, false)
	return 0, true
}

// --- register-select helper for EXG/TFR --------------------------------

type regHandle struct {
	is16 bool
	r16  reg16
	r8   reg8
}

func regForCode(code uint8) (regHandle, bool) {
	switch code & 0xF {
	case 0x0:
		return regHandle{is16: true, r16: regD16}, true
	case 0x1:
		return regHandle{is16: true, r16: regX16}, true
	case 0x2:
		return regHandle{is16: true, r16: regY16}, true
	case 0x3:
		return regHandle{is16: true, r16: regU16}, true
	case 0x4:
		return regHandle{is16: true, r16: regS16}, true
	case 0x5:
		return regHandle{is16: true, r16: reg16{
			get: func(c *Chip) uint16 { return c.PC },
			set: func(c *Chip, v uint16) { c.PC = v },
		}}, true
	case 0x8:
		return regHandle{is16: false, r8: regA8}, true
	case 0x9:
		return regHandle{is16: false, r8: regB8}, true
	case 0xA:
		return regHandle{is16: false, r8: reg8{
			get: func(c *Chip) uint8 { return c.CC },
			set: func(c *Chip, v uint8) { c.CC = v },
		}}, true
	case 0xB:
		return regHandle{is16: false, r8: reg8{
			get: func(c *Chip) uint8 { return c.DP },
			set: func(c *Chip, v uint8) { c.DP = v },
		}}, true
	default:
		return regHandle{}, false
	}
}

func opEXG(c *Chip, _ AddrMode) (int, Status) {
	pb := c.fetch8()
	ra, ok1 := regForCode(pb >> 4)
	rb, ok2 := regForCode(pb)
	if !ok1 || !ok2 {
		return 0, StatusOK
	}
	switch {
	case ra.is16 && rb.is16:
		va, vb := ra.r16.get(c), rb.r16.get(c)
		ra.r16.set(c, vb)
		rb.r16.set(c, va)
	case !ra.is16 && !rb.is16:
		va, vb := ra.r8.get(c), rb.r8.get(c)
		ra.r8.set(c, vb)
		rb.r8.set(c, va)
	case ra.is16 && !rb.is16:
		v16, v8 := ra.r16.get(c), rb.r8.get(c)
		rb.r8.set(c, uint8(v16>>8))
		ra.r16.set(c, 0xFF00|uint16(v8))
	default:
		v8, v16 := ra.r8.get(c), rb.r16.get(c)
		ra.r8.set(c, uint8(v16>>8))
		rb.r16.set(c, 0xFF00|uint16(v8))
	}
	return 0, StatusOK
}

func opTFR(c *Chip, _ AddrMode) (int, Status) {
	pb := c.fetch8()
	src, ok1 := regForCode(pb >> 4)
	dst, ok2 := regForCode(pb)
	if !ok1 || !ok2 {
		return 0, StatusOK
	}
	switch {
	case src.is16 && dst.is16:
		dst.r16.set(c, src.r16.get(c))
	case !src.is16 && !dst.is16:
		dst.r8.set(c, src.r8.get(c))
	case src.is16 && !dst.is16:
		dst.r8.set(c, uint8(src.r16.get(c)>>8))
	default:
		dst.r16.set(c, 0xFF00|uint16(src.r8.get(c)))
	}
	return 0, StatusOK
}

// --- push/pull -----------------------------------------------------------

func pushSet(c *Chip, sp *uint16, mask uint8, otherGet func() uint16) int {
	cycles := 0
	if mask&0x80 != 0 {
		c.push16(sp, c.PC)
		cycles += 2
	}
	if mask&0x40 != 0 {
		c.push16(sp, otherGet())
		cycles += 2
	}
	if mask&0x20 != 0 {
		c.push16(sp, c.Y)
		cycles += 2
	}
	if mask&0x10 != 0 {
		c.push16(sp, c.X)
		cycles += 2
	}
	if mask&0x08 != 0 {
		c.push8(sp, c.DP)
		cycles++
	}
	if mask&0x04 != 0 {
		c.push8(sp, c.B)
		cycles++
	}
	if mask&0x02 != 0 {
		c.push8(sp, c.A)
		cycles++
	}
	if mask&0x01 != 0 {
		c.push8(sp, c.CC)
		cycles++
	}
	return cycles
}

func pullSet(c *Chip, sp *uint16, mask uint8, otherSet func(uint16)) int {
	cycles := 0
	if mask&0x01 != 0 {
		c.CC = c.pull8(sp)
		cycles++
	}
	if mask&0x02 != 0 {
		c.A = c.pull8(sp)
		cycles++
	}
	if mask&0x04 != 0 {
		c.B = c.pull8(sp)
		cycles++
	}
	if mask&0x08 != 0 {
		c.DP = c.pull8(sp)
		cycles++
	}
	if mask&0x10 != 0 {
		c.X = c.pull16(sp)
		cycles += 2
	}
	if mask&0x20 != 0 {
		c.Y = c.pull16(sp)
		cycles += 2
	}
	if mask&0x40 != 0 {
		otherSet(c.pull16(sp))
		cycles += 2
	}
	if mask&0x80 != 0 {
		c.PC = c.pull16(sp)
		cycles += 2
	}
	return cycles
}

func opPSHS(c *Chip, _ AddrMode) (int, Status) {
	mask := c.fetch8()
	return pushSet(c, &c.SP, mask, func() uint16 { return c.USP }), StatusOK
}

func opPULS(c *Chip, _ AddrMode) (int, Status) {
	mask := c.fetch8()
	return pullSet(c, &c.SP, mask, func(v uint16) { c.USP = v }), StatusOK
}

func opPSHU(c *Chip, _ AddrMode) (int, Status) {
	mask := c.fetch8()
	return pushSet(c, &c.USP, mask, func() uint16 { return c.SP }), StatusOK
}

func opPULU(c *Chip, _ AddrMode) (int, Status) {
	mask := c.fetch8()
	return pullSet(c, &c.USP, mask, func(v uint16) { c.SP = v }), StatusOK
}

// --- branches ------------------------------------------------------------

func (c *Chip) flagsN() bool { return c.flag(FlagN) }
func (c *Chip) flagsV() bool { return c.flag(FlagV) }
func (c *Chip) flagsC() bool { return c.flag(FlagC) }
func (c *Chip) flagsZ() bool { return c.flag(FlagZ) }

var branchConds = map[string]func(c *Chip) bool{
	"BRA": func(c *Chip) bool { return true },
	"BRN": func(c *Chip) bool { return false },
	"BHI": func(c *Chip) bool { return !c.flagsC() && !c.flagsZ() },
	"BLS": func(c *Chip) bool { return c.flagsC() || c.flagsZ() },
	"BCC": func(c *Chip) bool { return !c.flagsC() },
	"BCS": func(c *Chip) bool { return c.flagsC() },
	"BNE": func(c *Chip) bool { return !c.flagsZ() },
	"BEQ": func(c *Chip) bool { return c.flagsZ() },
	"BVC": func(c *Chip) bool { return !c.flagsV() },
	"BVS": func(c *Chip) bool { return c.flagsV() },
	"BPL": func(c *Chip) bool { return !c.flagsN() },
	"BMI": func(c *Chip) bool { return c.flagsN() },
	"BGE": func(c *Chip) bool { return c.flagsN() == c.flagsV() },
	"BLT": func(c *Chip) bool { return c.flagsN() != c.flagsV() },
	"BGT": func(c *Chip) bool { return !c.flagsZ() && (c.flagsN() == c.flagsV()) },
	"BLE": func(c *Chip) bool { return c.flagsZ() || (c.flagsN() != c.flagsV()) },
}

func kindBranch8(name string) opFunc {
	cond := branchConds[name]
	return func(c *Chip, _ AddrMode) (int, Status) {
		off := int8(c.fetch8())
		if cond(c) {
			c.PC = uint16(int32(c.PC) + int32(off))
		}
		return 0, StatusOK
	}
}

func kindBranch16(name string) opFunc {
	cond := branchConds[name]
	return func(c *Chip, _ AddrMode) (int, Status) {
		off := int16(c.fetch16())
		if cond(c) {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 1, StatusOK
		}
		return 0, StatusOK
	}
}

func opBSR(c *Chip, _ AddrMode) (int, Status) {
	off := int8(c.fetch8())
	c.push16(&c.SP, c.PC)
	c.PC = uint16(int32(c.PC) + int32(off))
	return 0, StatusOK
}

func opLBSR(c *Chip, _ AddrMode) (int, Status) {
	off := int16(c.fetch16())
	c.push16(&c.SP, c.PC)
	c.PC = uint16(int32(c.PC) + int32(off))
	return 0, StatusOK
}

func opJMP(c *Chip, mode AddrMode) (int, Status) {
	addr, extra, st := c.resolveAddr8(mode)
	if st != StatusOK {
		return 0, st
	}
	c.PC = addr
	return extra, StatusOK
}

func opJSR(c *Chip, mode AddrMode) (int, Status) {
	addr, extra, st := c.resolveAddr8(mode)
	if st != StatusOK {
		return 0, st
	}
	c.push16(&c.SP, c.PC)
	c.PC = addr
	return extra, StatusOK
}

func opRTS(c *Chip, _ AddrMode) (int, Status) {
	c.PC = c.pull16(&c.SP)
	return 0, StatusOK
}

func opRTI(c *Chip, _ AddrMode) (int, Status) {
	c.CC = c.pull8(&c.SP)
	if c.flag(FlagE) {
		c.A = c.pull8(&c.SP)
		c.B = c.pull8(&c.SP)
		c.DP = c.pull8(&c.SP)
		c.X = c.pull16(&c.SP)
		c.Y = c.pull16(&c.SP)
		c.USP = c.pull16(&c.SP)
		c.PC = c.pull16(&c.SP)
		return 9, StatusOK
	}
	c.PC = c.pull16(&c.SP)
	return 0, StatusOK
}

func swi(vector uint16, setIF bool) opFunc {
	return func(c *Chip, _ AddrMode) (int, Status) {
		c.setFlag(FlagE, true)
		c.pushFullSet()
		if setIF {
			c.setFlag(FlagI, true)
			c.setFlag(FlagF, true)
		}
		c.PC = c.read16(vector)
		return 0, StatusOK
	}
}

func opCWAI(c *Chip, _ AddrMode) (int, Status) {
	v := c.fetch8()
	c.CC &= v
	c.setFlag(FlagE, true)
	c.pushFullSet()
	c.state = StateWait
	return 0, StatusOK
}

func opSYNC(c *Chip, _ AddrMode) (int, Status) {
	c.state = StateSync
	return 0, StatusOK
}

func opNOP(c *Chip, _ AddrMode) (int, Status) { return 0, StatusOK }

func opDAA(c *Chip, _ AddrMode) (int, Status) {
	a := c.A
	result := a
	if c.flag(FlagH) || (result&0xF) > 9 {
		result += 0x06
	}
	carryOut := c.flag(FlagC)
	if carryOut || result > 0x9F {
		result += 0x60
		carryOut = true
	}
	c.A = result
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, result&0x80 != 0)
	c.setFlag(FlagV, false)
	c.setFlag(FlagC, carryOut)
	return 0, StatusOK
}

func opSEX(c *Chip, _ AddrMode) (int, Status) {
	if c.B&0x80 != 0 {
		c.A = 0xFF
	} else {
		c.A = 0x00
	}
	c.setFlagsLogic16(c.D())
	return 0, StatusOK
}

func opMUL(c *Chip, _ AddrMode) (int, Status) {
	result := uint16(c.A) * uint16(c.B)
	c.SetD(result)
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagC, uint8(result)&0x80 != 0)
	return 0, StatusOK
}

func opABX(c *Chip, _ AddrMode) (int, Status) {
	c.X += uint16(c.B)
	return 0, StatusOK
}

func opANDCC(c *Chip, _ AddrMode) (int, Status) {
	v := c.fetch8()
	c.CC &= v
	return 0, StatusOK
}

func opORCC(c *Chip, _ AddrMode) (int, Status) {
	v := c.fetch8()
	c.CC |= v
	return 0, StatusOK
}
