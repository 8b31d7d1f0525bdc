package deepzoom

import (
	"context"
	"fmt"
	"image"

	"github.com/marben/deepzoom/render"
)

// OrbitPoint is one reference orbit sample on the wire.
type OrbitPoint struct {
	Re, Im float64
}

// TileJob is everything a remote renderer needs to reproduce a frame: the
// downcast camera, the reference orbit when the job is deep enough for
// perturbation, and the coloring parameters.
type TileJob struct {
	Width, Height      int
	CenterRe, CenterIm float64
	Zoom               float64

	// Orbit is empty for jobs iterated directly.
	Orbit []OrbitPoint

	Iterations   float64
	Exponent     float64
	EscapeRadius float64

	Style     uint32
	Partition uint32
	Palette   uint32

	PalettePeriod float64
	Smoothing     float64
	AnimateTime   float64
}

// NewTileJob snapshots the primary view of f.
func NewTileJob(f *render.Frame) TileJob {
	j := TileJob{
		Width:         f.Width,
		Height:        f.Height,
		CenterRe:      real(f.Primary.Center),
		CenterIm:      imag(f.Primary.Center),
		Zoom:          f.Primary.Zoom,
		Iterations:    f.Iterations,
		Exponent:      f.Exponent,
		EscapeRadius:  f.EscapeRadius,
		Style:         uint32(f.Style),
		Partition:     uint32(f.Partition),
		Palette:       uint32(f.Palette),
		PalettePeriod: f.PalettePeriod,
		Smoothing:     f.Smoothing,
		AnimateTime:   f.AnimateTime,
	}
	if f.Mode == render.ModePerturbation {
		j.Orbit = make([]OrbitPoint, len(f.Orbit))
		for i, z := range f.Orbit {
			j.Orbit[i] = OrbitPoint{Re: real(z), Im: imag(z)}
		}
	}
	return j
}

// Frame rebuilds the render frame of the job. Every pixel is dirty; tile
// workers keep no cache.
func (j TileJob) Frame() *render.Frame {
	f := &render.Frame{
		Width:  j.Width,
		Height: j.Height,
		Primary: render.ViewParams{
			Center: complex(j.CenterRe, j.CenterIm),
			Zoom:   j.Zoom,
			Dirty:  true,
		},
		Iterations:    j.Iterations,
		Exponent:      j.Exponent,
		EscapeRadius:  j.EscapeRadius,
		Style:         render.Style(j.Style),
		Partition:     render.Partition(j.Partition),
		Palette:       render.Palette(j.Palette),
		PalettePeriod: j.PalettePeriod,
		Smoothing:     j.Smoothing,
		AnimateTime:   j.AnimateTime,
	}
	if len(j.Orbit) > 0 {
		f.Mode = render.ModePerturbation
		f.Orbit = make([]complex128, len(j.Orbit))
		for i, p := range j.Orbit {
			f.Orbit[i] = complex(p.Re, p.Im)
		}
	}
	return f
}

// TileRenderer renders tiles on the local CPU.
type TileRenderer struct {
	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile image.Rectangle)
}

func (r TileRenderer) RenderTile(job TileJob, tile image.Rectangle) (image.RGBA, error) {
	if r.OnTileRender != nil {
		r.OnTileRender(tile)
	}

	// Image has global coordinates (tile.Min .. tile.Max)
	img := image.NewRGBA(tile)
	if err := render.NewRenderer(nil).Render(context.Background(), job.Frame(), img); err != nil {
		return image.RGBA{}, fmt.Errorf("render tile %s: %w", tile, err)
	}
	return *img, nil
}

var _ Renderer = TileRenderer{}
