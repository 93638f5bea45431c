// Command vectrex runs the Vectrexia core: load a cartridge image and
// either drive a live SDL window or snapshot a fixed number of frames
// to a PNG file.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jmchacon/vectrexia/console"
)

var (
	frames   int
	snapshot string
	debug    bool
	live     bool
	scale    int
)

func main() {
	root := &cobra.Command{
		Use:   "vectrex <cartridge.bin>",
		Short: "Run a Vectrex cartridge and either display it live or snapshot its framebuffer",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().IntVar(&frames, "frames", 60, "number of video frames to run")
	root.Flags().StringVar(&snapshot, "out", "snapshot.png", "PNG file to write the final framebuffer to (when --live is not set)")
	root.Flags().BoolVar(&debug, "debug", false, "enable verbose chip-level logging")
	root.Flags().BoolVar(&live, "live", false, "open an SDL window and render frames as they're produced")
	root.Flags().IntVar(&scale, "scale", 2, "window scale factor, only used with --live")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	rom, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading cartridge: %w", err)
	}

	biosROM := make([]byte, 0x2000)

	c, err := console.New(&console.ConsoleDef{SystemROM: biosROM, Debug: debug})
	if err != nil {
		return fmt.Errorf("initializing console: %w", err)
	}
	if !c.LoadCartridge(rom) {
		return fmt.Errorf("cartridge %q rejected (likely over 64KiB)", args[0])
	}

	if live {
		return runLive(c)
	}

	for i := 0; i < frames; i++ {
		c.Run(console.CyclesPerFrame)
	}
	return writeSnapshot(c, snapshot)
}

// runLive opens an SDL window sized to the Vectrex's logical
// framebuffer and blits each decayed-intensity frame to it as a
// grayscale surface, following the direct Surface.Pixels()-poking
// idiom used for the console's own windowed output.
func runLive(c *console.Console) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	w, h := int32(console.FrameWidth*scale), int32(console.FrameHeight*scale)
	window, err := sdl.CreateWindow("vectrexia", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting surface: %w", err)
	}

	fb := make([]float64, console.FrameWidth*console.FrameHeight)
	for i := 0; i < frames; i++ {
		c.Run(console.CyclesPerFrame)
		copy(fb, c.Framebuffer())
		blit(surface, fb, scale)
		window.UpdateSurface()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				return nil
			}
		}
	}
	return nil
}

func blit(surface *sdl.Surface, fb []float64, scale int) {
	pixels := surface.Pixels()
	bpp := int32(surface.Format.BytesPerPixel)
	for y := 0; y < console.FrameHeight; y++ {
		for x := 0; x < console.FrameWidth; x++ {
			v := fb[y*console.FrameWidth+x]
			if v > 1 {
				v = 1
			}
			shade := uint8(v * 255)
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					px, py := int32(x*scale+sx), int32(y*scale+sy)
					i := py*surface.Pitch + px*bpp
					pixels[i+0] = shade
					pixels[i+1] = shade
					pixels[i+2] = shade
					pixels[i+3] = 0xFF
				}
			}
		}
	}
}

func writeSnapshot(c *console.Console, path string) error {
	fb := c.Framebuffer()
	img := image.NewGray(image.Rect(0, 0, console.FrameWidth, console.FrameHeight))
	for y := 0; y < console.FrameHeight; y++ {
		for x := 0; x < console.FrameWidth; x++ {
			v := fb[y*console.FrameWidth+x]
			if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
