// Package cartridge implements the Vectrex cartridge slot: loading and
// validating a ROM image, and the two bank-switching disciplines that
// image can ask for -- a plain 64KiB-max read-only image, or a
// PB6-gated bank-switched variant some larger titles use.
package cartridge

import (
	"fmt"

	"github.com/jmchacon/vectrexia/memory"
)

// MaxImageSize is the largest ROM image the cartridge slot accepts.
const MaxImageSize = 64 * 1024

// BankSize is the size of one switchable bank in a BankSwitched image,
// spanning the entire $0000-$7FFF cartridge window.
const BankSize = 0x8000 // 32KiB

// TooLarge is returned by Load when an image exceeds MaxImageSize.
type TooLarge struct {
	Size int
}

func (e TooLarge) Error() string {
	return fmt.Sprintf("cartridge: image of %d bytes exceeds the %d byte limit", e.Size, MaxImageSize)
}

// Bank64K implements memory.Bank as a plain read-only image, mirrored
// if shorter than the $0000-$7FFF cartridge window. This is the
// default cartridge type; it has no bank-switching behavior.
type Bank64K struct {
	data       []uint8
	databusVal uint8
}

// Load validates and wraps image as a read-only cartridge bank. A
// rejected (too-large) image leaves no partial state behind.
func Load(image []byte) (*Bank64K, error) {
	if len(image) > MaxImageSize {
		return nil, TooLarge{Size: len(image)}
	}
	data := make([]uint8, len(image))
	copy(data, image)
	return &Bank64K{data: data}, nil
}

func (r *Bank64K) Read(addr uint16) uint8 {
	if len(r.data) == 0 {
		return r.databusVal
	}
	val := r.data[int(addr)%len(r.data)]
	r.databusVal = val
	return val
}

// Write is a no-op: ROM is not writable via the data bus.
func (r *Bank64K) Write(addr uint16, val uint8) {
	r.databusVal = val
}

func (r *Bank64K) PowerOn() {}

func (r *Bank64K) Parent() memory.Bank { return nil }

func (r *Bank64K) DatabusVal() uint8 { return r.databusVal }

// BankSwitched implements memory.Bank for cartridges that select one
// of several 32KiB banks over the whole $0000-$7FFF window by writing
// to VIA port B bit 6 (PB6). original_source treats cartridge writes
// as a pure no-op; this is an additive extension point for titles that
// use PB6 as a bank-select line, gated entirely through SelectBank so
// the default Bank64K behavior above is unaffected.
type BankSwitched struct {
	banks      [][BankSize]uint8
	selected   int
	databusVal uint8
}

// LoadBankSwitched splits image into BankSize chunks, rejecting images
// over MaxImageSize and padding a short final bank with zeros.
func LoadBankSwitched(image []byte) (*BankSwitched, error) {
	if len(image) > MaxImageSize {
		return nil, TooLarge{Size: len(image)}
	}
	n := (len(image) + BankSize - 1) / BankSize
	if n == 0 {
		n = 1
	}
	bs := &BankSwitched{banks: make([][BankSize]uint8, n)}
	for i := 0; i < n; i++ {
		start := i * BankSize
		end := start + BankSize
		if end > len(image) {
			end = len(image)
		}
		copy(bs.banks[i][:], image[start:end])
	}
	return bs, nil
}

// SelectBank changes which bank is mapped into $0000-$7FFF. The console
// does not call it: Console.LoadCartridge always builds a Bank64K, so
// PB6 is not connected to bank selection.
func (bs *BankSwitched) SelectBank(n int) {
	if n < 0 || n >= len(bs.banks) {
		return
	}
	bs.selected = n
}

func (bs *BankSwitched) Read(addr uint16) uint8 {
	val := bs.banks[bs.selected][addr%BankSize]
	bs.databusVal = val
	return val
}

// Write is a no-op: cartridge ROM is not writable via the data bus;
// bank selection happens out-of-band through SelectBank.
func (bs *BankSwitched) Write(addr uint16, val uint8) {
	bs.databusVal = val
}

func (bs *BankSwitched) PowerOn() { bs.selected = 0 }

func (bs *BankSwitched) Parent() memory.Bank { return nil }

func (bs *BankSwitched) DatabusVal() uint8 { return bs.databusVal }
