// Package io defines the basic interfaces for working with a bi-directional
// I/O port. It's intended that implementors of a peripheral (such as a
// 6522) call the input callback (if provided) on every clock tick and
// properly account for the fact that output won't mirror input for a
// clock cycle (to account for latches being loaded).
package io

// Port8 defines an 8 bit input-only I/O port.
type Port8 interface {
	// Input will return the current value being set on the given input port.
	Input() uint8
}

// PortIn8 is a callback-style 8 bit input port. Callers pass a func value
// (and an opaque ref, mirroring the C-style callback+ref pattern used by
// peripherals that only support a single static callback signature) rather
// than an interface so a single host object can register distinct readers
// for multiple ports without extra wrapper types.
type PortIn8 func(ref interface{}) uint8

// PortOut8 is a callback-style 8 bit output port, invoked whenever the
// owning peripheral latches a new output value.
type PortOut8 func(ref interface{}, val uint8)

// PortIn1 is a single bit input line such as CA1/CA2/CB1/CB2.
type PortIn1 func(ref interface{}) bool
