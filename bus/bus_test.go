package bus

import (
	"testing"

	"github.com/jmchacon/vectrexia/memory"
)

// fakeVIA is a minimal viaBank double that records the last register
// written and returns a fixed value on read.
type fakeVIA struct {
	lastReg uint8
	lastVal uint8
	readVal uint8
}

func (f *fakeVIA) Read(reg uint8) uint8 {
	f.lastReg = reg
	return f.readVal
}
func (f *fakeVIA) Write(reg uint8, val uint8) {
	f.lastReg = reg
	f.lastVal = val
}

// cartStub is a minimal memory.Bank double standing in for cartridge.Bank64K.
type cartStub struct {
	data [CartridgeEnd + 1]uint8
}

func (c *cartStub) Read(addr uint16) uint8      { return c.data[addr] }
func (c *cartStub) Write(addr uint16, v uint8)  { c.data[addr] = v }
func (c *cartStub) PowerOn()                    {}
func (c *cartStub) Parent() memory.Bank         { return nil }
func (c *cartStub) DatabusVal() uint8           { return 0 }

func TestCartridgeWindow(t *testing.T) {
	b, err := New(make([]byte, SystemROMSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cart := &cartStub{}
	cart.data[0x10] = 0x42
	b.SetCartridge(cart)
	if got := b.Read(0x10); got != 0x42 {
		t.Errorf("cartridge read = $%02x, want $42", got)
	}
}

func TestSystemROMReadOnly(t *testing.T) {
	rom := make([]byte, SystemROMSize)
	rom[0] = 0x7E
	b, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := b.Read(SystemROMStart); got != 0x7E {
		t.Errorf("system ROM read = $%02x, want $7E", got)
	}
	b.Write(SystemROMStart, 0xFF)
	if got := b.Read(SystemROMStart); got != 0x7E {
		t.Errorf("system ROM write should be dropped, read = $%02x, want $7E", got)
	}
}

func TestRAMMirroring(t *testing.T) {
	b, err := New(make([]byte, SystemROMSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Write(RAMStart, 0x33)
	if got := b.Read(RAMStart + RAMSize); got != 0x33 {
		t.Errorf("mirrored RAM read = $%02x, want $33", got)
	}
}

func TestSharedWindowWritesRAMAndVIA(t *testing.T) {
	b, err := New(make([]byte, SystemROMSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	via := &fakeVIA{}
	b.SetVIA(via)

	b.Write(SharedStart, 0x55)
	if via.lastReg != uint8(SharedStart&0x0F) || via.lastVal != 0x55 {
		t.Errorf("VIA did not see shared write: reg=$%x val=$%02x", via.lastReg, via.lastVal)
	}
	if got := b.Read(SharedStart); got != 0x55 {
		t.Errorf("shared-window read should come from RAM, got $%02x, want $55", got)
	}
}

func TestUnmappedReadsAreOpenBus(t *testing.T) {
	b, err := New(make([]byte, SystemROMSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Write(RAMStart, 0x99) // latches the open-bus value too
	if got := b.Read(UnmappedStart); got != 0x99 {
		t.Errorf("unmapped read = $%02x, want last databus value $99", got)
	}
}
