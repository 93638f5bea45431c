package m6809

// logic helpers for AND/OR/EOR kernels.
func bitAnd(a, b uint8) uint8 { return a & b }
func bitOr(a, b uint8) uint8  { return a | b }
func bitEor(a, b uint8) uint8 { return a ^ b }

func init() {
	// Single-operand (RMW) opcodes share one kernel across five addressing
	// forms at fixed offsets from a base opcode: direct ($00+op), inherent-A
	// ($40+op), inherent-B ($50+op), indexed ($60+op), extended ($70+op).
	singleOperand := []struct {
		name   string
		kernel rmwKernel
	}{
		{"NEG", negKernel},
		{"", nil}, // $01 undefined
		{"", nil}, // $02 undefined
		{"COM", comKernel},
		{"LSR", lsrKernel},
		{"", nil}, // $05 undefined -- exercised by the illegal-opcode scenario
		{"ROR", rorKernel},
		{"ASR", asrKernel},
		{"ASL", aslKernel},
		{"ROL", rolKernel},
		{"DEC", decKernel},
		{"", nil}, // $0B undefined
		{"INC", incKernel},
		{"TST", tstKernel},
		{"JMP", nil}, // handled specially below
		{"CLR", clrKernel},
	}

	for i, e := range singleOperand {
		op := uint8(i)
		if e.name == "" {
			continue
		}
		if e.name == "JMP" {
			baseTable[0x00+op] = opEntry{name: "JMP", mode: AddrDirect, cycles: 3, run: opJMP}
			baseTable[0x60+op] = opEntry{name: "JMP", mode: AddrIndexed, cycles: 3, run: opJMP}
			baseTable[0x70+op] = opEntry{name: "JMP", mode: AddrExtended, cycles: 3, run: opJMP}
			continue
		}
		kernel := e.kernel
		baseTable[0x00+op] = opEntry{name: e.name, mode: AddrDirect, cycles: 6, run: kindRMW8(false, kernel)}
		baseTable[0x40+op] = opEntry{name: e.name + "A", mode: AddrInherent, cycles: 2, run: kindRMW8(true, kernel)}
		baseTable[0x50+op] = opEntry{name: e.name + "B", mode: AddrInherent, cycles: 2, run: kindRMW8(false, kernel)}
		baseTable[0x60+op] = opEntry{name: e.name, mode: AddrIndexed, cycles: 6, run: kindRMW8(false, kernel)}
		baseTable[0x70+op] = opEntry{name: e.name, mode: AddrExtended, cycles: 7, run: kindRMW8(false, kernel)}
	}

	// Misc inherent / relative page-0 opcodes.
	baseTable[0x12] = opEntry{name: "NOP", mode: AddrInherent, cycles: 2, run: opNOP}
	baseTable[0x13] = opEntry{name: "SYNC", mode: AddrInherent, cycles: 2, run: opSYNC}
	baseTable[0x16] = opEntry{name: "LBRA", mode: AddrRelative16, cycles: 5, run: kindBranch16("BRA")}
	baseTable[0x17] = opEntry{name: "LBSR", mode: AddrRelative16, cycles: 9, run: opLBSR}
	baseTable[0x19] = opEntry{name: "DAA", mode: AddrInherent, cycles: 2, run: opDAA}
	baseTable[0x1A] = opEntry{name: "ORCC", mode: AddrImmediate8, cycles: 3, run: opORCC}
	baseTable[0x1C] = opEntry{name: "ANDCC", mode: AddrImmediate8, cycles: 3, run: opANDCC}
	baseTable[0x1D] = opEntry{name: "SEX", mode: AddrInherent, cycles: 2, run: opSEX}
	baseTable[0x1E] = opEntry{name: "EXG", mode: AddrInherent, cycles: 8, run: opEXG}
	baseTable[0x1F] = opEntry{name: "TFR", mode: AddrInherent, cycles: 6, run: opTFR}

	shortBranches := []string{"BRA", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ",
		"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE"}
	for i, name := range shortBranches {
		baseTable[0x20+uint8(i)] = opEntry{name: name, mode: AddrRelative8, cycles: 3, run: kindBranch8(name)}
	}

	baseTable[0x30] = opEntry{name: "LEAX", mode: AddrIndexed, cycles: 4, run: kindLea(regX16, true)}
	baseTable[0x31] = opEntry{name: "LEAY", mode: AddrIndexed, cycles: 4, run: kindLea(regY16, true)}
	baseTable[0x32] = opEntry{name: "LEAS", mode: AddrIndexed, cycles: 4, run: kindLea(regS16, false)}
	baseTable[0x33] = opEntry{name: "LEAU", mode: AddrIndexed, cycles: 4, run: kindLea(regU16, false)}
	baseTable[0x34] = opEntry{name: "PSHS", mode: AddrInherent, cycles: 5, run: opPSHS}
	baseTable[0x35] = opEntry{name: "PULS", mode: AddrInherent, cycles: 5, run: opPULS}
	baseTable[0x36] = opEntry{name: "PSHU", mode: AddrInherent, cycles: 5, run: opPSHU}
	baseTable[0x37] = opEntry{name: "PULU", mode: AddrInherent, cycles: 5, run: opPULU}
	baseTable[0x39] = opEntry{name: "RTS", mode: AddrInherent, cycles: 5, run: opRTS}
	baseTable[0x3A] = opEntry{name: "ABX", mode: AddrInherent, cycles: 3, run: opABX}
	baseTable[0x3B] = opEntry{name: "RTI", mode: AddrInherent, cycles: 6, run: opRTI}
	baseTable[0x3C] = opEntry{name: "CWAI", mode: AddrImmediate8, cycles: 20, run: opCWAI}
	baseTable[0x3D] = opEntry{name: "MUL", mode: AddrInherent, cycles: 11, run: opMUL}
	baseTable[0x3F] = opEntry{name: "SWI", mode: AddrInherent, cycles: 19, run: swi(VectorSWI1, true)}

	baseTable[0x8D] = opEntry{name: "BSR", mode: AddrRelative8, cycles: 7, run: opBSR}

	// 8-bit accumulator arithmetic families across immediate/direct/indexed/extended.
	type fam8 struct {
		immBase, dirBase, idxBase, extBase uint8
		name                               string
		r                                  reg8
		build                              func(reg8) opFunc
	}
	fams8 := []fam8{
		{0x80, 0x90, 0xA0, 0xB0, "SUBA", regA8, func(r reg8) opFunc { return kindSub8(r, false) }},
		{0x81, 0x91, 0xA1, 0xB1, "CMPA", regA8, kindCmp8},
		{0x82, 0x92, 0xA2, 0xB2, "SBCA", regA8, func(r reg8) opFunc { return kindSub8(r, true) }},
		{0x84, 0x94, 0xA4, 0xB4, "ANDA", regA8, func(r reg8) opFunc { return kindLogic8(r, bitAnd) }},
		{0x85, 0x95, 0xA5, 0xB5, "BITA", regA8, kindBit8},
		{0x86, 0x96, 0xA6, 0xB6, "LDA", regA8, kindLoad8},
		{0x88, 0x98, 0xA8, 0xB8, "EORA", regA8, func(r reg8) opFunc { return kindLogic8(r, bitEor) }},
		{0x89, 0x99, 0xA9, 0xB9, "ADCA", regA8, func(r reg8) opFunc { return kindAdd8(r, true) }},
		{0x8A, 0x9A, 0xAA, 0xBA, "ORA", regA8, func(r reg8) opFunc { return kindLogic8(r, bitOr) }},
		{0x8B, 0x9B, 0xAB, 0xBB, "ADDA", regA8, func(r reg8) opFunc { return kindAdd8(r, false) }},

		{0xC0, 0xD0, 0xE0, 0xF0, "SUBB", regB8, func(r reg8) opFunc { return kindSub8(r, false) }},
		{0xC1, 0xD1, 0xE1, 0xF1, "CMPB", regB8, kindCmp8},
		{0xC2, 0xD2, 0xE2, 0xF2, "SBCB", regB8, func(r reg8) opFunc { return kindSub8(r, true) }},
		{0xC4, 0xD4, 0xE4, 0xF4, "ANDB", regB8, func(r reg8) opFunc { return kindLogic8(r, bitAnd) }},
		{0xC5, 0xD5, 0xE5, 0xF5, "BITB", regB8, kindBit8},
		{0xC6, 0xD6, 0xE6, 0xF6, "LDB", regB8, kindLoad8},
		{0xC8, 0xD8, 0xE8, 0xF8, "EORB", regB8, func(r reg8) opFunc { return kindLogic8(r, bitEor) }},
		{0xC9, 0xD9, 0xE9, 0xF9, "ADCB", regB8, func(r reg8) opFunc { return kindAdd8(r, true) }},
		{0xCA, 0xDA, 0xEA, 0xFA, "ORB", regB8, func(r reg8) opFunc { return kindLogic8(r, bitOr) }},
		{0xCB, 0xDB, 0xEB, 0xFB, "ADDB", regB8, func(r reg8) opFunc { return kindAdd8(r, false) }},
	}
	for _, f := range fams8 {
		run := f.build(f.r)
		baseTable[f.immBase] = opEntry{name: f.name, mode: AddrImmediate8, cycles: 2, run: run}
		baseTable[f.dirBase] = opEntry{name: f.name, mode: AddrDirect, cycles: 4, run: run}
		baseTable[f.idxBase] = opEntry{name: f.name, mode: AddrIndexed, cycles: 4, run: run}
		baseTable[f.extBase] = opEntry{name: f.name, mode: AddrExtended, cycles: 5, run: run}
	}

	// Stores (no immediate form).
	storeFams := []struct {
		dirBase, idxBase, extBase uint8
		name                      string
		run                       opFunc
	}{
		{0x97, 0xA7, 0xB7, "STA", kindStore8(regA8)},
		{0xD7, 0xE7, 0xF7, "STB", kindStore8(regB8)},
	}
	for _, f := range storeFams {
		baseTable[f.dirBase] = opEntry{name: f.name, mode: AddrDirect, cycles: 4, run: f.run}
		baseTable[f.idxBase] = opEntry{name: f.name, mode: AddrIndexed, cycles: 4, run: f.run}
		baseTable[f.extBase] = opEntry{name: f.name, mode: AddrExtended, cycles: 5, run: f.run}
	}

	// 16-bit D/X families.
	baseTable[0x83] = opEntry{name: "SUBD", mode: AddrImmediate16, cycles: 4, run: kindSub16(regD16)}
	baseTable[0x93] = opEntry{name: "SUBD", mode: AddrDirect, cycles: 6, run: kindSub16(regD16)}
	baseTable[0xA3] = opEntry{name: "SUBD", mode: AddrIndexed, cycles: 6, run: kindSub16(regD16)}
	baseTable[0xB3] = opEntry{name: "SUBD", mode: AddrExtended, cycles: 7, run: kindSub16(regD16)}

	baseTable[0x8C] = opEntry{name: "CMPX", mode: AddrImmediate16, cycles: 4, run: kindCmp16(regX16)}
	baseTable[0x9C] = opEntry{name: "CMPX", mode: AddrDirect, cycles: 6, run: kindCmp16(regX16)}
	baseTable[0xAC] = opEntry{name: "CMPX", mode: AddrIndexed, cycles: 6, run: kindCmp16(regX16)}
	baseTable[0xBC] = opEntry{name: "CMPX", mode: AddrExtended, cycles: 7, run: kindCmp16(regX16)}

	baseTable[0x8E] = opEntry{name: "LDX", mode: AddrImmediate16, cycles: 3, run: kindLoad16(regX16)}
	baseTable[0x9E] = opEntry{name: "LDX", mode: AddrDirect, cycles: 5, run: kindLoad16(regX16)}
	baseTable[0xAE] = opEntry{name: "LDX", mode: AddrIndexed, cycles: 5, run: kindLoad16(regX16)}
	baseTable[0xBE] = opEntry{name: "LDX", mode: AddrExtended, cycles: 6, run: kindLoad16(regX16)}

	baseTable[0x9D] = opEntry{name: "JSR", mode: AddrDirect, cycles: 7, run: opJSR}
	baseTable[0xAD] = opEntry{name: "JSR", mode: AddrIndexed, cycles: 7, run: opJSR}
	baseTable[0xBD] = opEntry{name: "JSR", mode: AddrExtended, cycles: 8, run: opJSR}

	baseTable[0x9F] = opEntry{name: "STX", mode: AddrDirect, cycles: 5, run: kindStore16(regX16)}
	baseTable[0xAF] = opEntry{name: "STX", mode: AddrIndexed, cycles: 5, run: kindStore16(regX16)}
	baseTable[0xBF] = opEntry{name: "STX", mode: AddrExtended, cycles: 6, run: kindStore16(regX16)}

	baseTable[0xC3] = opEntry{name: "ADDD", mode: AddrImmediate16, cycles: 4, run: kindAdd16(regD16)}
	baseTable[0xD3] = opEntry{name: "ADDD", mode: AddrDirect, cycles: 6, run: kindAdd16(regD16)}
	baseTable[0xE3] = opEntry{name: "ADDD", mode: AddrIndexed, cycles: 6, run: kindAdd16(regD16)}
	baseTable[0xF3] = opEntry{name: "ADDD", mode: AddrExtended, cycles: 7, run: kindAdd16(regD16)}

	baseTable[0xCC] = opEntry{name: "LDD", mode: AddrImmediate16, cycles: 3, run: kindLoad16(regD16)}
	baseTable[0xDC] = opEntry{name: "LDD", mode: AddrDirect, cycles: 5, run: kindLoad16(regD16)}
	baseTable[0xEC] = opEntry{name: "LDD", mode: AddrIndexed, cycles: 5, run: kindLoad16(regD16)}
	baseTable[0xFC] = opEntry{name: "LDD", mode: AddrExtended, cycles: 6, run: kindLoad16(regD16)}

	baseTable[0xDD] = opEntry{name: "STD", mode: AddrDirect, cycles: 5, run: kindStore16(regD16)}
	baseTable[0xED] = opEntry{name: "STD", mode: AddrIndexed, cycles: 5, run: kindStore16(regD16)}
	baseTable[0xFD] = opEntry{name: "STD", mode: AddrExtended, cycles: 6, run: kindStore16(regD16)}

	baseTable[0xCE] = opEntry{name: "LDU", mode: AddrImmediate16, cycles: 3, run: kindLoad16(regU16)}
	baseTable[0xDE] = opEntry{name: "LDU", mode: AddrDirect, cycles: 5, run: kindLoad16(regU16)}
	baseTable[0xEE] = opEntry{name: "LDU", mode: AddrIndexed, cycles: 5, run: kindLoad16(regU16)}
	baseTable[0xFE] = opEntry{name: "LDU", mode: AddrExtended, cycles: 6, run: kindLoad16(regU16)}

	baseTable[0xDF] = opEntry{name: "STU", mode: AddrDirect, cycles: 5, run: kindStore16(regU16)}
	baseTable[0xEF] = opEntry{name: "STU", mode: AddrIndexed, cycles: 5, run: kindStore16(regU16)}
	baseTable[0xFF] = opEntry{name: "STU", mode: AddrExtended, cycles: 6, run: kindStore16(regU16)}

	// --- Page 1 ($10 prefix) ---
	longBranches := []string{"", "LBRN", "LBHI", "LBLS", "LBCC", "LBCS", "LBNE", "LBEQ",
		"LBVC", "LBVS", "LBPL", "LBMI", "LBGE", "LBLT", "LBGT", "LBLE"}
	baseCond := []string{"", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ",
		"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE"}
	for i := 1; i < len(longBranches); i++ {
		page1Table[0x20+uint8(i)] = opEntry{name: longBranches[i], mode: AddrRelative16, cycles: 5, run: kindBranch16(baseCond[i])}
	}
	page1Table[0x3F] = opEntry{name: "SWI2", mode: AddrInherent, cycles: 20, run: swi(VectorSWI2, false)}

	page1Table[0x83] = opEntry{name: "CMPD", mode: AddrImmediate16, cycles: 5, run: kindCmp16(regD16)}
	page1Table[0x93] = opEntry{name: "CMPD", mode: AddrDirect, cycles: 7, run: kindCmp16(regD16)}
	page1Table[0xA3] = opEntry{name: "CMPD", mode: AddrIndexed, cycles: 7, run: kindCmp16(regD16)}
	page1Table[0xB3] = opEntry{name: "CMPD", mode: AddrExtended, cycles: 8, run: kindCmp16(regD16)}

	page1Table[0x8C] = opEntry{name: "CMPY", mode: AddrImmediate16, cycles: 5, run: kindCmp16(regY16)}
	page1Table[0x9C] = opEntry{name: "CMPY", mode: AddrDirect, cycles: 7, run: kindCmp16(regY16)}
	page1Table[0xAC] = opEntry{name: "CMPY", mode: AddrIndexed, cycles: 7, run: kindCmp16(regY16)}
	page1Table[0xBC] = opEntry{name: "CMPY", mode: AddrExtended, cycles: 8, run: kindCmp16(regY16)}

	page1Table[0x8E] = opEntry{name: "LDY", mode: AddrImmediate16, cycles: 4, run: kindLoad16(regY16)}
	page1Table[0x9E] = opEntry{name: "LDY", mode: AddrDirect, cycles: 6, run: kindLoad16(regY16)}
	page1Table[0xAE] = opEntry{name: "LDY", mode: AddrIndexed, cycles: 6, run: kindLoad16(regY16)}
	page1Table[0xBE] = opEntry{name: "LDY", mode: AddrExtended, cycles: 7, run: kindLoad16(regY16)}

	page1Table[0x9F] = opEntry{name: "STY", mode: AddrDirect, cycles: 6, run: kindStore16(regY16)}
	page1Table[0xAF] = opEntry{name: "STY", mode: AddrIndexed, cycles: 6, run: kindStore16(regY16)}
	page1Table[0xBF] = opEntry{name: "STY", mode: AddrExtended, cycles: 7, run: kindStore16(regY16)}

	page1Table[0xCE] = opEntry{name: "LDS", mode: AddrImmediate16, cycles: 4, run: kindLoad16(regS16)}
	page1Table[0xDE] = opEntry{name: "LDS", mode: AddrDirect, cycles: 6, run: kindLoad16(regS16)}
	page1Table[0xEE] = opEntry{name: "LDS", mode: AddrIndexed, cycles: 6, run: kindLoad16(regS16)}
	page1Table[0xFE] = opEntry{name: "LDS", mode: AddrExtended, cycles: 7, run: kindLoad16(regS16)}

	page1Table[0xDF] = opEntry{name: "STS", mode: AddrDirect, cycles: 6, run: kindStore16(regS16)}
	page1Table[0xEF] = opEntry{name: "STS", mode: AddrIndexed, cycles: 6, run: kindStore16(regS16)}
	page1Table[0xFF] = opEntry{name: "STS", mode: AddrExtended, cycles: 7, run: kindStore16(regS16)}

	// --- Page 2 ($11 prefix) ---
	page2Table[0x3F] = opEntry{name: "SWI3", mode: AddrInherent, cycles: 20, run: swi(VectorSWI3, false)}
	page2Table[0x83] = opEntry{name: "CMPU", mode: AddrImmediate16, cycles: 5, run: kindCmp16(regU16)}
	page2Table[0x93] = opEntry{name: "CMPU", mode: AddrDirect, cycles: 7, run: kindCmp16(regU16)}
	page2Table[0xA3] = opEntry{name: "CMPU", mode: AddrIndexed, cycles: 7, run: kindCmp16(regU16)}
	page2Table[0xB3] = opEntry{name: "CMPU", mode: AddrExtended, cycles: 8, run: kindCmp16(regU16)}

	page2Table[0x8C] = opEntry{name: "CMPS", mode: AddrImmediate16, cycles: 5, run: kindCmp16(regS16)}
	page2Table[0x9C] = opEntry{name: "CMPS", mode: AddrDirect, cycles: 7, run: kindCmp16(regS16)}
	page2Table[0xAC] = opEntry{name: "CMPS", mode: AddrIndexed, cycles: 7, run: kindCmp16(regS16)}
	page2Table[0xBC] = opEntry{name: "CMPS", mode: AddrExtended, cycles: 8, run: kindCmp16(regS16)}
}
