package render

import (
	"math/cmplx"

	"github.com/marben/deepzoom/orbit"
)

// Style selects which statistic of the iterate stream a pixel is colored by.
type Style uint32

const (
	StyleIterations Style = iota
	StyleFinalDistance
	StyleFinalAngle
	StyleDistanceSum
	StyleNormSum
	StyleFinalNorm
	StyleAngleSum
	numStyles
)

var styleNames = [numStyles]string{
	"Iterations", "Final Distance", "Final Angle", "Distance Sum",
	"Norm Sum", "Final Norm", "Angle Sum",
}

func (s Style) String() string {
	if s < numStyles {
		return styleNames[s]
	}
	return "Style(?)"
}

// Next cycles through the styles.
func (s Style) Next() Style {
	return (s + 1) % numStyles
}

// Partition selects which category of pixels gets colored. Pixels of the
// other category are rendered black and carry no statistics.
type Partition uint32

const (
	PartitionOutside Partition = iota
	PartitionInside
	PartitionBoth
)

func (p Partition) String() string {
	switch p {
	case PartitionInside:
		return "Inside"
	case PartitionBoth:
		return "Both"
	}
	return "Outside"
}

// Next cycles through the partitions.
func (p Partition) Next() Partition {
	return (p + 1) % (PartitionBoth + 1)
}

func (p Partition) shows(inside bool) bool {
	switch p {
	case PartitionInside:
		return inside
	case PartitionBoth:
		return true
	}
	return !inside
}

// trail keeps the last three iterates and the running sums, each both
// before and at the last step.
type trail struct {
	zs [3]complex128

	dist, prevDist   float64
	norm, prevNorm   float64
	angle, prevAngle float64
}

func newTrail(seed complex128) *trail {
	return &trail{zs: [3]complex128{0, 0, seed}}
}

func (t *trail) push(z complex128) {
	t.zs[0], t.zs[1], t.zs[2] = t.zs[1], t.zs[2], z
	t.prevDist, t.prevNorm, t.prevAngle = t.dist, t.norm, t.angle
	t.dist += cmplx.Abs(t.zs[2] - t.zs[1])
	t.norm += cmplx.Abs(z)
	t.angle += orbit.TurnAngle(t.zs[0], t.zs[1], t.zs[2])
}

// pick returns the style's value before and at the last step.
func (s Style) pick(res Result, t *trail) (x0, x1 float64) {
	switch s {
	case StyleFinalDistance:
		return abs(t.zs[1] - t.zs[0]), abs(t.zs[2] - t.zs[1])
	case StyleFinalAngle:
		return cmplx.Phase(t.zs[1]), cmplx.Phase(t.zs[2])
	case StyleDistanceSum:
		return t.prevDist, t.dist
	case StyleNormSum:
		return t.prevNorm, t.norm
	case StyleFinalNorm:
		return abs(t.zs[1]), abs(t.zs[2])
	case StyleAngleSum:
		return t.prevAngle, t.angle
	}
	return float64(res.Count), float64(res.Count + 1)
}

// shade iterates one pixel and reduces it to a cache cell.
func shade[K kernel](k K, p Params, style Style, part Partition) Cell {
	var t *trail
	var visit func(complex128)
	if style != StyleIterations {
		t = newTrail(k.Seed())
		visit = t.push
	}
	res := k.Iterate(p, visit)

	var flags uint32
	if res.Inside {
		flags |= cellInside
	}
	if !part.shows(res.Inside) {
		return Cell{Flags: flags}
	}
	x0, x1 := style.pick(res, t)
	return Cell{X0: float32(x0), X1: float32(x1), H: float32(res.Proximity), Flags: flags | cellVisible}
}
