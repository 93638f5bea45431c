package console

import (
	"testing"

	"github.com/jmchacon/vectrexia/cartridge"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	c, err := New(&ConsoleDef{SystemROM: make([]byte, 0x2000)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestLoadCartridgeRejectsOversized(t *testing.T) {
	c := newTestConsole(t)
	image := make([]byte, cartridge.MaxImageSize+1)
	if c.LoadCartridge(image) {
		t.Error("expected oversized cartridge to be rejected")
	}
}

func TestLoadCartridgeAccepted(t *testing.T) {
	c := newTestConsole(t)
	image := make([]byte, 1024)
	if !c.LoadCartridge(image) {
		t.Error("expected a small cartridge image to load")
	}
}

func TestRunCompletesAtLeastRequestedCycles(t *testing.T) {
	c := newTestConsole(t)
	image := make([]byte, 1024)
	c.LoadCartridge(image)

	ran := c.Run(1000)
	if ran < 1000 {
		t.Errorf("Run(1000) returned %d, want >= 1000", ran)
	}
}

func TestFramebufferDimensions(t *testing.T) {
	c := newTestConsole(t)
	fb := c.Framebuffer()
	if len(fb) != FrameWidth*FrameHeight {
		t.Errorf("len(Framebuffer()) = %d, want %d", len(fb), FrameWidth*FrameHeight)
	}
}

func TestAudioFillProducesRequestedSamples(t *testing.T) {
	c := newTestConsole(t)
	buf := make([]uint8, SamplesPerFrame)
	c.AudioFill(buf)
	if len(buf) != SamplesPerFrame {
		t.Errorf("len(buf) = %d, want %d", len(buf), SamplesPerFrame)
	}
}

func TestButtonMaskActiveLow(t *testing.T) {
	c := newTestConsole(t)
	// No buttons pressed: all bits should read 1 (active-low idle).
	if got := c.buttonMask(); got != 0xFF {
		t.Errorf("buttonMask() with nothing pressed = $%02x, want $FF", got)
	}
	c.SetPlayer(1, 0, 0, true, false, false, false)
	if got := c.buttonMask(); got&0x01 != 0 {
		t.Errorf("buttonMask() bit0 = %d with player 1 button 1 held, want 0 (active-low)", got&0x01)
	}
}

func TestJoystickInputComparator(t *testing.T) {
	c := newTestConsole(t)
	c.SetPlayer(1, 200, 0, false, false, false, false)
	// sel bits (portB>>1)&3 == 0 selects player 1 X axis.
	portB := uint8(0x00)
	if got := c.joystickInput(0x00, portB); got != 0x20 {
		t.Errorf("joystickInput: pot 200 > compare 0x00^0x80=0x80 should yield 0x20, got $%02x", got)
	}
	if got := c.joystickInput(0x7F, portB); got != 0 {
		t.Errorf("joystickInput: pot 200 should not exceed compare 0x7F^0x80=0xFF, got $%02x", got)
	}
}
