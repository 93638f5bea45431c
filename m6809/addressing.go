package m6809

// AddrMode enumerates how an instruction's operand is formed.
type AddrMode int

const (
	AddrInherent AddrMode = iota
	AddrImmediate8
	AddrImmediate16
	AddrDirect
	AddrExtended
	AddrIndexed
	AddrRelative8
	AddrRelative16
)

// target8 is a uniform get/set handle over an 8-bit operand, whether it
// lives in a register (accumulator-direct opcodes) or in memory
// (direct/extended/indexed). This is the composition point that lets
// one generic RMW/load/store runner serve every addressing mode --
// mirroring the addressing-mode-handler composition used for the
// teacher's 6502 core, generalized to the 6809's richer mode set.
type target8 struct {
	get func() uint8
	set func(uint8)
}

func (c *Chip) accumA() target8 {
	return target8{get: func() uint8 { return c.A }, set: func(v uint8) { c.A = v }}
}

func (c *Chip) accumB() target8 {
	return target8{get: func() uint8 { return c.B }, set: func(v uint8) { c.B = v }}
}

func (c *Chip) memTarget(addr uint16) target8 {
	return target8{
		get: func() uint8 { return c.read8(addr) },
		set: func(v uint8) { c.write8(addr, v) },
	}
}

// resolveAddr8 resolves a memory-operand address for a non-inherent,
// non-immediate addressing mode, returning the address and the extra
// cycles consumed beyond the opcode's base cost (only indexed mode adds
// any).
func (c *Chip) resolveAddr8(mode AddrMode) (uint16, int, Status) {
	switch mode {
	case AddrDirect:
		lo := c.fetch8()
		return uint16(c.DP)<<8 | uint16(lo), 0, StatusOK
	case AddrExtended:
		return c.fetch16(), 0, StatusOK
	case AddrIndexed:
		return c.resolveIndexed()
	default:
		return 0, 0, StatusOK
	}
}

// baseReg returns a pointer to the indexed-mode base register selected
// by post-byte bits 5-6.
func (c *Chip) baseReg(sel uint8) *uint16 {
	switch sel {
	case 0:
		return &c.X
	case 1:
		return &c.Y
	case 2:
		return &c.USP
	default:
		return &c.SP
	}
}

// resolveIndexed decodes a post-byte per spec.md 4.2's indexed-mode
// table and returns the effective address plus the extra cycles beyond
// the opcode's listed base cost.
func (c *Chip) resolveIndexed() (uint16, int, Status) {
	pb := c.fetch8()
	sel := (pb >> 5) & 0x3
	reg := c.baseReg(sel)

	if pb&0x80 == 0 {
		// 5-bit signed offset, non-indirect only.
		off := int8(pb<<3) >> 3
		return uint16(int32(*reg) + int32(off)), 1, StatusOK
	}

	indirect := pb&0x10 != 0
	var addr uint16
	extra := 0
	switch pb & 0x0F {
	case 0x0: // ,R+
		if indirect {
			return 0, 0, StatusIllegalIndexingMode
		}
		addr = *reg
		*reg += 1
		extra = 2
	case 0x1: // ,R++
		addr = *reg
		*reg += 2
		extra = 3
	case 0x2: // ,-R
		if indirect {
			return 0, 0, StatusIllegalIndexingMode
		}
		*reg -= 1
		addr = *reg
		extra = 2
	case 0x3: // ,--R
		*reg -= 2
		addr = *reg
		extra = 3
	case 0x4: // ,R
		addr = *reg
		extra = 0
	case 0x5: // B,R
		addr = uint16(int32(*reg) + int32(int8(c.B)))
		extra = 1
	case 0x6: // A,R
		addr = uint16(int32(*reg) + int32(int8(c.A)))
		extra = 1
	case 0x8: // n8,R
		off := int8(c.fetch8())
		addr = uint16(int32(*reg) + int32(off))
		extra = 1
	case 0x9: // n16,R
		off := int16(c.fetch16())
		addr = uint16(int32(*reg) + int32(off))
		extra = 4
	case 0xB: // D,R
		addr = uint16(int32(*reg) + int32(int16(c.D())))
		extra = 4
	case 0xC: // n8,PC
		off := int8(c.fetch8())
		addr = uint16(int32(c.PC) + int32(off))
		extra = 5
	case 0xD: // n16,PC
		off := int16(c.fetch16())
		addr = uint16(int32(c.PC) + int32(off))
		extra = 5
	case 0xF: // 16-bit absolute indirect -- only valid with indirect bit set
		if !indirect {
			return 0, 0, StatusIllegalIndexingMode
		}
		addr = c.fetch16()
		extra = 2
		return c.maybeIndirect(addr, indirect, extra)
	default:
		return 0, 0, StatusIllegalIndexingMode
	}
	return c.maybeIndirect(addr, indirect, extra)
}

func (c *Chip) maybeIndirect(addr uint16, indirect bool, extra int) (uint16, int, Status) {
	if indirect {
		return c.read16(addr), extra + 3, StatusOK
	}
	return addr, extra, StatusOK
}

// target8For resolves a uniform target8 for an 8-bit RMW/accumulator
// opcode addressed in the given mode. accIsA selects A vs B for the
// inherent/accumulator-direct case.
func (c *Chip) target8For(mode AddrMode, accIsA bool) (target8, int, Status) {
	if mode == AddrInherent {
		if accIsA {
			return c.accumA(), 0, StatusOK
		}
		return c.accumB(), 0, StatusOK
	}
	addr, extra, st := c.resolveAddr8(mode)
	if st != StatusOK {
		return target8{}, 0, st
	}
	return c.memTarget(addr), extra, StatusOK
}

// value8 resolves the 8-bit operand value for read-only addressing
// (immediate/direct/extended/indexed).
func (c *Chip) value8(mode AddrMode) (uint8, int, Status) {
	if mode == AddrImmediate8 {
		return c.fetch8(), 0, StatusOK
	}
	addr, extra, st := c.resolveAddr8(mode)
	if st != StatusOK {
		return 0, 0, st
	}
	return c.read8(addr), extra, StatusOK
}

// value16 resolves a 16-bit operand value.
func (c *Chip) value16(mode AddrMode) (uint16, int, Status) {
	if mode == AddrImmediate16 {
		return c.fetch16(), 0, StatusOK
	}
	addr, extra, st := c.resolveAddr8(mode)
	if st != StatusOK {
		return 0, 0, st
	}
	return c.read16(addr), extra, StatusOK
}

// addr16For resolves the target address for a 16-bit store.
func (c *Chip) addr16For(mode AddrMode) (uint16, int, Status) {
	return c.resolveAddr8(mode)
}
