package controller

// Invalidation is the set of derived state an input event made stale. The
// controller accumulates it between frames and Frame consumes it exactly
// once.
type Invalidation uint8

const (
	// InvalidatePrimary re-iterates the pixels of the Mandelbrot view.
	InvalidatePrimary Invalidation = 1 << iota
	// InvalidateSecondary re-iterates the pixels of the Julia view.
	InvalidateSecondary
	// InvalidateReference rebuilds the reference orbit.
	InvalidateReference
	// InvalidateMarker recomputes the marker trajectory.
	InvalidateMarker

	invalidateViews = InvalidatePrimary | InvalidateSecondary
	invalidateAll   = InvalidatePrimary | InvalidateSecondary | InvalidateReference | InvalidateMarker
)

func (i Invalidation) Has(f Invalidation) bool {
	return i&f == f
}

func (i Invalidation) String() string {
	if i == 0 {
		return "none"
	}
	s := ""
	for _, f := range []struct {
		flag Invalidation
		name string
	}{
		{InvalidatePrimary, "primary"},
		{InvalidateSecondary, "secondary"},
		{InvalidateReference, "reference"},
		{InvalidateMarker, "marker"},
	} {
		if i.Has(f.flag) {
			if s != "" {
				s += "|"
			}
			s += f.name
		}
	}
	return s
}
