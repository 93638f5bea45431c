package vectorgen

import "testing"

func TestVectorCaptureRecordsLine(t *testing.T) {
	c, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Sample portA=0x40 onto the Z axis (mux select 2) with blank off.
	c.Step(0x40, 0x04, true, false)
	// Raise blank: begins a vector. Keep portA constant so the X rate
	// doesn't change mid-vector.
	c.Step(0x40, 0x05, true, true)
	c.Step(0x40, 0x05, true, true)
	// Drop blank: closes the vector.
	c.Step(0x40, 0x05, true, false)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("len(Lines()) = %d, want 1", len(lines))
	}
	l := lines[0]
	if l.StartCycle > l.EndCycle {
		t.Errorf("StartCycle %d > EndCycle %d", l.StartCycle, l.EndCycle)
	}
	if l.StartCycle == l.EndCycle {
		t.Errorf("zero-length vector should not be logged")
	}
	if l.Intensity <= 0 {
		t.Errorf("Intensity = %v, want > 0 (zAxis was sampled nonzero)", l.Intensity)
	}
}

func TestProduceFrameDecaysAndRemovesSpentLines(t *testing.T) {
	c, err := Init(&ChipDef{DecayPerCycle: 1.0})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	c.Step(0x40, 0x04, true, false)
	c.Step(0x40, 0x05, true, true)
	c.Step(0x40, 0x05, true, true)
	c.Step(0x40, 0x05, true, false)

	if len(c.Lines()) != 1 {
		t.Fatalf("expected one captured line before decay")
	}

	frame := make([]float64, 4*4)
	c.ProduceFrame(frame, 4, 4) // age 0: should survive this pass

	// Advance several idle cycles (blank off, ramp inactive) so the line ages out.
	for i := 0; i < 5; i++ {
		c.Step(0x40, 0xFF, true, false)
	}
	c.ProduceFrame(frame, 4, 4)

	if len(c.Lines()) != 0 {
		t.Errorf("len(Lines()) = %d, want 0 after the line's intensity decayed to zero", len(c.Lines()))
	}
}

func TestNoVectorWithoutBlank(t *testing.T) {
	c, err := Init(&ChipDef{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < 10; i++ {
		c.Step(0x40, 0xFF, true, false)
	}
	if len(c.Lines()) != 0 {
		t.Errorf("no vectors should be captured while blank stays off, got %d", len(c.Lines()))
	}
}
