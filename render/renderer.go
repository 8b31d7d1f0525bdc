package render

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// bandHeight is the number of rows one task of the pool renders.
const bandHeight = 8

// Renderer executes the kernels for every pixel of a frame, keeps the
// cache up to date and colorizes the result.
type Renderer struct {
	cache *Cache
}

// NewRenderer returns a renderer backed by cache. A nil cache makes every
// pixel iterate on every call; the tile workers run this way.
func NewRenderer(cache *Cache) *Renderer {
	return &Renderer{cache: cache}
}

func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Render fills dst.Bounds(), given in frame pixel coordinates, for frame f.
// Rows are rendered in bands on a bounded pool; every band owns its rows
// of the cache. Overlays are drawn once the pool is done.
func (r *Renderer) Render(ctx context.Context, f *Frame, dst *image.RGBA) error {
	rect := dst.Bounds().Intersect(image.Rect(0, 0, f.Width, f.Height))
	if rect.Empty() {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y0 := rect.Min.Y; y0 < rect.Max.Y; y0 += bandHeight {
		band := image.Rect(rect.Min.X, y0, rect.Max.X, min(y0+bandHeight, rect.Max.Y))
		g.Go(func() error {
			return r.renderBand(ctx, f, band, dst)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("rendering %s: %w", rect, err)
	}

	drawOverlays(f, dst)
	return nil
}

func (r *Renderer) renderBand(ctx context.Context, f *Frame, band image.Rectangle, dst *image.RGBA) error {
	m := f.Mapper()
	period, phase := f.scale()
	var written int64
	defer func() {
		if r.cache != nil {
			r.cache.recomputed.Add(written)
		}
	}()

	for y := band.Min.Y; y < band.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := band.Min.X; x < band.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			v := f.Owner(px, py)

			var cell Cell
			cached := r.cache != nil && r.cache.contains(x, y)
			if cached && !f.view(v).Dirty {
				cell = r.cache.At(x, y)
			} else {
				cell = f.shade(m, v, px, py)
				if cached {
					r.cache.Set(x, y, cell)
					written++
				}
			}
			dst.SetRGBA(x, y, f.colorize(cell, period, phase))
		}
	}
	return nil
}
