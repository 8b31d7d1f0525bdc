package camera

// View identifies one of the two cameras.
type View int

const (
	Primary View = iota
	Secondary
)

func (v View) String() string {
	if v == Secondary {
		return "julia"
	}
	return "mandelbrot"
}

// Split partitions the screen between the primary and the secondary view.
// The axis is vertical when the screen is wider than tall, horizontal
// otherwise; Value is the fraction of the screen owned by the primary view.
type Split struct {
	Enabled bool
	Value   float64
}

// Vertical reports whether the split line runs vertically for a w x h screen.
func Vertical(w, h float64) bool {
	return w > h
}

// Owner returns which view renders the pixel at (x, y).
func (s Split) Owner(w, h, x, y float64) View {
	if !s.Enabled {
		return Primary
	}
	if Vertical(w, h) {
		if x > w*s.Value {
			return Secondary
		}
		return Primary
	}
	if y > h*s.Value {
		return Secondary
	}
	return Primary
}

// Distance is the distance in pixels from (x, y) to the split line.
func (s Split) Distance(w, h, x, y float64) float64 {
	var d float64
	if Vertical(w, h) {
		d = x - w*s.Value
	} else {
		d = y - h*s.Value
	}
	if d < 0 {
		return -d
	}
	return d
}
