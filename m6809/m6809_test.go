package m6809

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/jmchacon/vectrexia/disasm"
	"github.com/jmchacon/vectrexia/memory"
)

// flatRAM is a 64KiB byte-addressable test double implementing
// memory.Bank, sized so addressing never needs masking.
type flatRAM struct {
	data [65536]uint8
	last uint8
}

func (r *flatRAM) Read(addr uint16) uint8 {
	r.last = r.data[addr]
	return r.last
}
func (r *flatRAM) Write(addr uint16, val uint8) {
	r.data[addr] = val
	r.last = val
}
func (r *flatRAM) PowerOn()           {}
func (r *flatRAM) Parent() memory.Bank { return nil }
func (r *flatRAM) DatabusVal() uint8   { return r.last }

func newChip(t *testing.T) (*Chip, *flatRAM) {
	t.Helper()
	ram := &flatRAM{}
	ram.data[VectorReset] = 0x02
	ram.data[VectorReset+1] = 0x00
	c, err := Init(&ChipDef{RAM: ram})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	c.Reset()
	return c, ram
}

func TestResetVector(t *testing.T) {
	c, _ := newChip(t)
	if c.PC != 0x0200 {
		t.Errorf("PC after reset = $%04x, want $0200", c.PC)
	}
	if c.CC != FlagI|FlagF {
		t.Errorf("CC after reset = $%02x, want $%02x", c.CC, FlagI|FlagF)
	}
}

func TestABX(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x3A // ABX
	c.X, c.B = 0, 0x10
	cycles, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v, want ok", status)
	}
	if c.X != 0x10 {
		t.Errorf("X = $%04x, want $0010", c.X)
	}
	if cycles != 3 {
		t.Errorf("cycles = %d, want 3", cycles)
	}
}

func TestADDAImmediate(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x8B // ADDA immediate
	ram.data[0x0201] = 0x10
	c.A = 0x10
	startPC := c.PC
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.A != 0x20 {
		t.Errorf("A = $%02x, want $20", c.A)
	}
	if c.flag(FlagZ) || c.flag(FlagN) || c.flag(FlagV) || c.flag(FlagC) {
		t.Errorf("CC = $%02x, want Z=N=V=C=0", c.CC)
	}
	if c.PC != startPC+2 {
		t.Errorf("PC = $%04x, want $%04x", c.PC, startPC+2)
	}
}

func TestADDAExtended(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0xBB // ADDA extended
	ram.data[0x0201] = 0x10
	ram.data[0x0202] = 0x01
	ram.data[0x1001] = 0x15
	c.A = 0x10
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.A != 0x25 {
		t.Errorf("A = $%02x, want $25", c.A)
	}
}

func TestSUBAUnderflow(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x80 // SUBA immediate
	ram.data[0x0201] = 0x12
	c.A = 0x10
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v\nstate: %s", status, spew.Sdump(c))
	}
	if c.A != 0xFE {
		t.Errorf("A = $%02x, want $FE\nstate: %s", c.A, spew.Sdump(c))
	}
	if !c.flag(FlagN) {
		t.Error("N not set")
	}
	if !c.flag(FlagC) {
		t.Error("C (borrow) not set")
	}
}

func TestEXGXY(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x1E // EXG
	ram.data[0x0201] = 0x12 // X <-> Y
	c.X, c.Y = 0x00FF, 0xFF00
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.X != 0xFF00 || c.Y != 0x00FF {
		t.Errorf("X=$%04x Y=$%04x, want X=$FF00 Y=$00FF", c.X, c.Y)
	}
}

func TestTFRXY(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x1F // TFR
	ram.data[0x0201] = 0x12 // X -> Y
	c.X, c.Y = 0x1111, 0x0000
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.X != 0x1111 || c.Y != 0x1111 {
		t.Errorf("X=$%04x Y=$%04x, want both $1111", c.X, c.Y)
	}
}

func TestBSRRelative(t *testing.T) {
	c, ram := newChip(t)
	c.PC = 0
	c.SP = 0
	ram.data[0] = 0x8D // BSR
	ram.data[1] = 0x10 // +16
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.PC != 0x0012 {
		t.Errorf("PC = $%04x, want $0012", c.PC)
	}
	if ram.data[0xFFFF] != 0x02 || ram.data[0xFFFE] != 0x00 {
		t.Errorf("stacked return addr bytes = $%02x,$%02x, want $00,$02", ram.data[0xFFFE], ram.data[0xFFFF])
	}
}

func TestIllegalOpcode(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x05 // deliberately undefined
	_, status := c.Execute(IRQNone)
	if status != StatusUnknownOpcode {
		t.Errorf("status = %v, want unknown-opcode", status)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	c, ram := newChip(t)
	ram.data[0x0200] = 0x86 // LDA immediate
	ram.data[0x0201] = 0x42
	startPC := c.PC
	text, next := disasm.Step(startPC, ram)
	if text != "LDA #$42" {
		t.Errorf("disassembly = %q, want %q", text, "LDA #$42")
	}
	if next != startPC+2 {
		t.Errorf("next = $%04x, want $%04x", next, startPC+2)
	}
	_, status := c.Execute(IRQNone)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.A != 0x42 {
		t.Errorf("A = $%02x, want $42", c.A)
	}
}

func TestFIRQDispatch(t *testing.T) {
	c, ram := newChip(t)
	ram.data[VectorFIRQ] = 0x03
	ram.data[VectorFIRQ+1] = 0x00
	c.setFlag(FlagF, false)
	c.PC = 0x0200
	cycles, status := c.Execute(IRQLine_FIRQ)
	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	if c.PC != 0x0300 {
		t.Errorf("PC = $%04x, want $0300 (FIRQ vector)", c.PC)
	}
	if c.flag(FlagE) {
		t.Error("E should be clear after FIRQ (partial stack)")
	}
	if !c.flag(FlagI) || !c.flag(FlagF) {
		t.Error("I and F should both be set after FIRQ dispatch")
	}
	if cycles != 10 {
		t.Errorf("cycles = %d, want 10", cycles)
	}
}
