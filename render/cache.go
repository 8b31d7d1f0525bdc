package render

import "sync/atomic"

const (
	// GridWidth and GridHeight are the largest render resolution the cache
	// covers. Pixels beyond it are iterated every frame.
	GridWidth  = 2880
	GridHeight = 1620
)

const (
	cellInside uint32 = 1 << iota
	cellVisible
)

// Cell is the cached reduction result of one pixel: the style's value
// before and at the last step, and the proximity used to blend them.
type Cell struct {
	X0, X1 float32
	H      float32
	Flags  uint32
}

func (c Cell) Inside() bool  { return c.Flags&cellInside != 0 }
func (c Cell) Visible() bool { return c.Flags&cellVisible != 0 }

// Cache is the render-parameter raster, addressed by pixel. Whether a cell
// is current is decided per frame by the owning view's dirty flag, never
// stored in the cell. Distinct rows may be written concurrently.
type Cache struct {
	w, h  int
	cells []Cell

	recomputed atomic.Int64
}

func NewCache(w, h int) *Cache {
	w, h = max(w, 0), max(h, 0)
	return &Cache{w: w, h: h, cells: make([]Cell, w*h)}
}

func (c *Cache) Size() (w, h int) {
	return c.w, c.h
}

func (c *Cache) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// At returns the cell at (x, y); outside the raster it returns the zero cell.
func (c *Cache) At(x, y int) Cell {
	if !c.contains(x, y) {
		return Cell{}
	}
	return c.cells[y*c.w+x]
}

// Set stores cell at (x, y) and reports whether it was inside the raster.
func (c *Cache) Set(x, y int, cell Cell) bool {
	if !c.contains(x, y) {
		return false
	}
	c.cells[y*c.w+x] = cell
	return true
}

// Recomputed is the number of cells written by the renderer since the last
// ResetCounter.
func (c *Cache) Recomputed() int64 {
	return c.recomputed.Load()
}

func (c *Cache) ResetCounter() {
	c.recomputed.Store(0)
}
