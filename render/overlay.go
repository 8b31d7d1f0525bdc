package render

import (
	"image"
	"image/color"
	"math"

	"github.com/marben/deepzoom/camera"
)

const (
	markerRadius = 8
	splitWidth   = 2
)

var (
	overlayColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	markerColor  = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}
)

func drawOverlays(f *Frame, dst *image.RGBA) {
	if f.Split.Enabled {
		drawSplit(f, dst)
	}
	if f.ShowMarker {
		drawOrbit(f, dst)
		drawDisk(f, dst, f.MarkerX, f.MarkerY, markerRadius, markerColor)
	}
}

func drawSplit(f *Frame, dst *image.RGBA) {
	w, h := float64(f.Width), float64(f.Height)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if f.Split.Distance(w, h, float64(x)+0.5, float64(y)+0.5) < splitWidth/2.0 {
				dst.SetRGBA(x, y, overlayColor)
			}
		}
	}
}

// plot sets a pixel of the primary view; overlays never spill over the
// split line into the secondary view.
func plot(f *Frame, dst *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	if f.Owner(float64(x)+0.5, float64(y)+0.5) != camera.Primary {
		return
	}
	dst.SetRGBA(x, y, c)
}

func drawDisk(f *Frame, dst *image.RGBA, cx, cy, r float64, c color.RGBA) {
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				plot(f, dst, x, y, c)
			}
		}
	}
}

// drawOrbit connects the marker's orbit points with straight segments.
func drawOrbit(f *Frame, dst *image.RGBA) {
	if len(f.MarkerPoints) < 2 {
		return
	}
	m := f.Mapper()
	lim := float64(4 * max(f.Width, f.Height))
	px, py := m.FromOffset(f.Primary.Zoom, f.MarkerPoints[0]-f.Primary.Center)
	for _, z := range f.MarkerPoints[1:] {
		x, y := m.FromOffset(f.Primary.Zoom, z-f.Primary.Center)
		if math.Abs(x) < lim && math.Abs(y) < lim && math.Abs(px) < lim && math.Abs(py) < lim {
			drawLine(f, dst, px, py, x, y, overlayColor)
		}
		px, py = x, y
	}
}

func drawLine(f *Frame, dst *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps < 1 {
		plot(f, dst, int(math.Floor(x0)), int(math.Floor(y0)), c)
		return
	}
	sx, sy := dx/steps, dy/steps
	for i := 0.0; i <= steps; i++ {
		plot(f, dst, int(math.Floor(x0+sx*i)), int(math.Floor(y0+sy*i)), c)
	}
}
