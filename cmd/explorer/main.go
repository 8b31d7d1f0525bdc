// explorer is the interactive deepzoom viewer: the Mandelbrot (or
// multibrot) set on the primary view, a Julia set on the secondary one,
// and the orbit of the marker point drawn on top.

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/marben/deepzoom"
	"github.com/marben/deepzoom/controller"
	"github.com/marben/deepzoom/render"
)

type game struct {
	ctrl     *controller.Controller
	renderer *render.Renderer
	input    *input

	scale  float64
	w, h   int
	debug  bool
	hud    bool
	pixels *image.RGBA
	screen *ebiten.Image
	last   render.Frame
	took   time.Duration
}

func newGame(scale float64, debug bool) *game {
	return &game{
		ctrl:     controller.New(),
		renderer: render.NewRenderer(render.NewCache(render.GridWidth, render.GridHeight)),
		input:    newInput(),
		scale:    scale,
		debug:    debug,
		hud:      true,
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w = max(int(float64(outsideWidth)*g.scale), 1)
	g.h = max(int(float64(outsideHeight)*g.scale), 1)
	return g.w, g.h
}

func (g *game) Update() error {
	if g.input.update(g) {
		return ebiten.Termination
	}

	f := g.ctrl.Frame(time.Now())
	if g.pixels == nil || g.pixels.Bounds().Dx() != f.Width || g.pixels.Bounds().Dy() != f.Height {
		g.pixels = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(max(f.Width, 1), max(f.Height, 1))
	}

	g.renderer.Cache().ResetCounter()
	start := time.Now()
	if err := g.renderer.Render(context.Background(), &f, g.pixels); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	g.took = time.Since(start)
	g.last = f
	if g.debug && g.ctrl.LastInvalidation() != 0 {
		log.Printf("invalidated %s: %d cells in %s (%s)", g.ctrl.LastInvalidation(), g.renderer.Cache().Recomputed(), g.took, f.Mode)
	}
	if len(g.pixels.Pix) > 0 {
		g.screen.WritePixels(g.pixels.Pix)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.screen != nil {
		screen.DrawImage(g.screen, nil)
	}
	if x, y, ok := g.ctrl.ContextMenu(); ok {
		ebitenutil.DebugPrintAt(screen, "[enter] show iterations\n[esc] close", int(x), int(y))
	}
	if g.hud {
		ebitenutil.DebugPrint(screen, g.status())
	}
}

func (g *game) status() string {
	var b strings.Builder
	f := g.last
	set := g.ctrl.IterationSetting()
	fmt.Fprintf(&b, "zoom %.4g  %s\n", f.Primary.Zoom, f.Mode)
	fmt.Fprintf(&b, "iterations %.1f (%s %.1f)\n", f.Iterations, set.Mode, set.N)
	fmt.Fprintf(&b, "exponent %.2f  radius %.1f\n", f.Exponent, f.EscapeRadius)
	fmt.Fprintf(&b, "%s / %s / %s  period %.3f\n", f.Style, f.Partition, f.Palette, f.PalettePeriod)
	fmt.Fprintf(&b, "%.1f fps  render %s\n", ebiten.ActualFPS(), g.took.Round(time.Millisecond))
	if s, ok := g.ctrl.MarkerStats(); ok {
		fmt.Fprintf(&b, "marker: %d iterations, |z| %.3g, proximity %.3f\n", s.Count, s.FinalDistance, s.Proximity)
	}
	return b.String()
}

func main() {
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	scale := flag.Float64("scale", 1, "render resolution relative to the window")
	preset := flag.String("preset", "", "start at a named location")
	debug := flag.Bool("debug", false, "log every recomputation")
	flag.Parse()

	if *scale <= 0 || *scale > 4 {
		log.Fatalf("scale must be in (0, 4], got %g", *scale)
	}
	g := newGame(*scale, *debug)
	if *preset != "" {
		p, ok := deepzoom.PresetByName(*preset)
		if !ok {
			log.Fatalf("unknown preset %q", *preset)
		}
		center, err := p.Center()
		if err != nil {
			log.Fatalf("preset %s: %v", p.Name, err)
		}
		g.ctrl.JumpTo(p.Zoom, center)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("deepzoom")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("RunGame: %v", err)
	}
}
