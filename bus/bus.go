// Package bus implements the Vectrex 16-bit address-space router: the
// single memory.Bank the CPU sees, which fans reads and writes out to
// cartridge ROM, system RAM, the VIA's register window, and the
// built-in BIOS ROM according to fixed address ranges.
package bus

import "github.com/jmchacon/vectrexia/memory"

// Address ranges, per the console's memory map.
const (
	CartridgeStart = 0x0000
	CartridgeEnd   = 0x7FFF

	UnmappedStart = 0x8000
	UnmappedEnd   = 0xC7FF

	RAMStart = 0xC800
	RAMEnd   = 0xCFFF
	RAMSize  = 0x0400 // 1KiB, mirrored across the C800-CFFF window

	ViaStart = 0xD000
	ViaEnd   = 0xD7FF

	SharedStart = 0xD800
	SharedEnd   = 0xDFFF

	SystemROMStart = 0xE000
	SystemROMEnd   = 0xFFFF
	SystemROMSize  = 0x2000 // 8KiB
)

// viaBank is the subset of the VIA chip the bus needs, satisfied by
// via6522.Chip.
type viaBank interface {
	Read(reg uint8) uint8
	Write(reg uint8, val uint8)
}

// Bus implements memory.Bank over the full 16-bit address space.
type Bus struct {
	cartridge memory.Bank // nil when no cartridge is loaded
	ram       memory.Bank
	via       viaBank
	systemROM [SystemROMSize]uint8

	unmappedRead uint8 // last value placed on the bus, for open-bus reads
}

// New constructs a Bus with a freshly zeroed 1KiB RAM bank. Cartridge
// and VIA are attached afterward via SetCartridge/SetVIA.
func New(systemROM []byte) (*Bus, error) {
	b := &Bus{}
	ram, err := memory.New8BitRAMBank(RAMSize, b)
	if err != nil {
		return nil, err
	}
	b.ram = ram
	copy(b.systemROM[:], systemROM)
	return b, nil
}

// SetCartridge attaches (or, with nil, detaches) the cartridge bank.
func (b *Bus) SetCartridge(cart memory.Bank) {
	b.cartridge = cart
}

// SetVIA attaches the VIA chip backing the $D000-$D7FF window.
func (b *Bus) SetVIA(via viaBank) {
	b.via = via
}

// Read implements memory.Bank.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= CartridgeEnd:
		if b.cartridge == nil {
			return b.unmappedRead
		}
		return b.cartridge.Read(addr)
	case addr >= UnmappedStart && addr <= UnmappedEnd:
		return b.unmappedRead
	case addr >= RAMStart && addr <= RAMEnd:
		return b.ram.Read((addr - RAMStart) % RAMSize)
	case addr >= ViaStart && addr <= ViaEnd:
		if b.via == nil {
			return b.unmappedRead
		}
		return b.via.Read(uint8(addr & 0x0F))
	case addr >= SharedStart && addr <= SharedEnd:
		// Both the VIA and RAM windows are wired here on real hardware;
		// RAM is the addressable read source.
		return b.ram.Read((addr - SharedStart) % RAMSize)
	case addr >= SystemROMStart:
		return b.systemROM[addr-SystemROMStart]
	default:
		return b.unmappedRead
	}
}

// Write implements memory.Bank.
func (b *Bus) Write(addr uint16, val uint8) {
	b.unmappedRead = val
	switch {
	case addr <= CartridgeEnd:
		if b.cartridge != nil {
			b.cartridge.Write(addr, val)
		}
	case addr >= UnmappedStart && addr <= UnmappedEnd:
		// no device attached
	case addr >= RAMStart && addr <= RAMEnd:
		b.ram.Write((addr-RAMStart)%RAMSize, val)
	case addr >= ViaStart && addr <= ViaEnd:
		if b.via != nil {
			b.via.Write(uint8(addr&0x0F), val)
		}
	case addr >= SharedStart && addr <= SharedEnd:
		b.ram.Write((addr-SharedStart)%RAMSize, val)
		if b.via != nil {
			b.via.Write(uint8(addr&0x0F), val)
		}
	case addr >= SystemROMStart:
		// system ROM is read-only
	}
}

// PowerOn implements memory.Bank by power-cycling RAM; ROM and
// cartridge contents are untouched.
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
	b.unmappedRead = 0
}

// Parent implements memory.Bank. The bus is the top of the chain.
func (b *Bus) Parent() memory.Bank {
	return nil
}

// DatabusVal implements memory.Bank, mirroring the open-bus latch.
func (b *Bus) DatabusVal() uint8 {
	return b.unmappedRead
}
