// Package vectorgen implements the Vectrex analog vector generator: a
// sample-and-hold multiplexer feeding X/Y integrators and a Z-axis
// brightness DAC, RAMP/ZERO signals subject to a fixed propagation
// delay, and a vector-capture stage that rasterizes the resulting beam
// path into an intensity-weighted line log.
package vectorgen

import "github.com/jmchacon/vectrexia/delay"

// Logical beam-position grid, matching the original hardware's DAC
// resolution.
const (
	GridWidth  = 33000
	GridHeight = 41000
)

// DefaultDecayPerCycle is the fraction of brightness a logged vector
// loses per cycle elapsed since it was closed; a full-intensity vector
// fades out in about 400,000 cycles.
const DefaultDecayPerCycle = 1.0 / 400000.0

// PropagationDelayCycles is the fixed latency between the VIA changing
// RAMP or ZERO and that change reaching the integrators.
const PropagationDelayCycles = 12

// multiplexer select values (port B bits 1-2).
const (
	muxYAxis = iota
	muxOffset
	muxZAxis
	muxUnused
)

// Line is one captured beam segment.
type Line struct {
	X0, Y0     int32
	X1, Y1     int32
	Intensity  float64
	StartCycle uint64
	EndCycle   uint64
}

// ChipDef configures a new Chip.
type ChipDef struct {
	DecayPerCycle float64
	Debug         bool
}

// Chip holds the vector generator's analog state.
type Chip struct {
	x, y             int32 // beam position in the logical grid
	rateX, rateY     int32
	xAxis, yAxis     uint8 // sample-and-hold registers fed from port A
	offset           uint8
	zAxis            uint8 // brightness, clamped non-negative

	ramp bool // current (post-delay) RAMP state; active when true
	zero bool // current (post-delay) ZERO state; active when true

	delayed delay.CallbackTimer
	cycle   uint64

	drawing    bool
	curStart   struct{ x, y int32 }
	curRate    struct{ x, y int32 }
	curZ       uint8
	startCycle uint64
	blankOn    bool

	lines    []Line
	decayPer float64

	debug bool
}

// Init returns a freshly constructed, centered Chip.
func Init(def *ChipDef) (*Chip, error) {
	decay := def.DecayPerCycle
	if decay == 0 {
		decay = DefaultDecayPerCycle
	}
	c := &Chip{decayPer: decay, debug: def.Debug}
	c.x, c.y = GridWidth/2, GridHeight/2
	return c, nil
}

var propagationNanos = delay.CyclesToNanos(PropagationDelayCycles)

// Step advances the vector generator by one CPU cycle, mirroring the
// orchestrator's per-cycle call with the VIA's latest outputs. portB
// bit 0 is the sample/hold switch (active low), bits 1-2 select the
// multiplexer channel, bit 7 is RAMP (active when 0); zero is CA2
// (ZERO active when 0) and blank is CB2.
func (c *Chip) Step(portA, portB uint8, zero, blank bool) {
	c.cycle++
	c.delayed.Tick(c.cycle)

	rampActive := portB&0x80 == 0
	zeroActive := !zero
	c.delayed.Enqueue(c.cycle, propagationNanos, func(uint64) { c.ramp = rampActive })
	c.delayed.Enqueue(c.cycle, propagationNanos, func(uint64) { c.zero = zeroActive })

	c.xAxis = portA ^ 0x80
	if portB&0x01 == 0 {
		switch (portB >> 1) & 0x03 {
		case muxYAxis:
			c.yAxis = portA ^ 0x80
		case muxOffset:
			c.offset = portA ^ 0x80
		case muxZAxis:
			z := portA
			if z&0x80 != 0 {
				z = 0
			}
			c.zAxis = z
		case muxUnused:
		}
	}

	rateChanged := c.updateRates()

	if c.zero {
		c.x, c.y = GridWidth/2, GridHeight/2
	} else if c.ramp {
		c.x += c.rateX
		c.y += c.rateY
	}

	c.updateCapture(blank, rateChanged)
}

func (c *Chip) updateRates() bool {
	newRateX := int32(c.xAxis) - int32(c.offset)
	newRateY := int32(c.offset) - int32(c.yAxis)
	changed := newRateX != c.rateX || newRateY != c.rateY
	c.rateX, c.rateY = newRateX, newRateY
	return changed
}

func (c *Chip) updateCapture(blank bool, rateChanged bool) {
	switch {
	case blank && !c.blankOn:
		c.beginVector()
	case !blank && c.blankOn:
		c.closeVector()
	case blank && c.blankOn && rateChanged:
		c.closeVector()
		c.beginVector()
	case blank && c.blankOn && c.ramp:
		// extend: endpoint tracked implicitly at close time
	}
	c.blankOn = blank
}

func (c *Chip) beginVector() {
	c.drawing = true
	c.curStart.x, c.curStart.y = c.x, c.y
	c.curRate.x, c.curRate.y = c.rateX, c.rateY
	c.curZ = c.zAxis
	c.startCycle = c.cycle
}

func (c *Chip) closeVector() {
	if !c.drawing {
		return
	}
	c.drawing = false
	if c.cycle == c.startCycle {
		return
	}
	c.lines = append(c.lines, Line{
		X0: c.curStart.x, Y0: c.curStart.y,
		X1: c.x, Y1: c.y,
		Intensity:  float64(c.curZ) / 255.0,
		StartCycle: c.startCycle,
		EndCycle:   c.cycle,
	})
}

// Lines returns the vector log as it currently stands, undecayed.
// ProduceFrame is the usual consumer; this is exposed for inspection
// and tests.
func (c *Chip) Lines() []Line {
	return c.lines
}

// ProduceFrame clears frame (row-major, width*height floats in [0,1])
// and rasterizes the vector log into it, decaying and then evicting
// any vector whose intensity has reached zero.
func (c *Chip) ProduceFrame(frame []float64, width, height int) {
	for i := range frame {
		frame[i] = 0
	}
	kept := c.lines[:0]
	for _, l := range c.lines {
		age := c.cycle - l.EndCycle
		intensity := l.Intensity - float64(age)*c.decayPer
		if intensity <= 0 {
			continue
		}
		x0 := int(int64(l.X0) * int64(width) / GridWidth)
		y0 := int(int64(l.Y0) * int64(height) / GridHeight)
		x1 := int(int64(l.X1) * int64(width) / GridWidth)
		y1 := int(int64(l.Y1) * int64(height) / GridHeight)
		bresenham(x0, y0, x1, y1, func(x, y int) {
			if x < 0 || x >= width || y < 0 || y >= height {
				return
			}
			idx := y*width + x
			frame[idx] += intensity
			if frame[idx] > 1.0 {
				frame[idx] = 1.0
			}
		})
		kept = append(kept, l)
	}
	c.lines = kept
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Debug returns the fixed tag "vectorgen" when ChipDef.Debug was set and
// "" otherwise; it does not include integrator or beam state.
func (c *Chip) Debug() string {
	if !c.debug {
		return ""
	}
	return "vectorgen"
}
