package controller

import (
	"math"
)

// Key is a logical key the controller reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyControl
	KeyZoomIn        // z
	KeyZoomOut       // x
	KeyPeriodUp      // p
	KeyPeriodDown    // o
	KeyAnimate       // k
	KeySlower        // j
	KeyFaster        // l
	KeyFewerIters    // u
	KeyMoreIters     // i
	KeyExponentDown  // g
	KeyExponentUp    // h
	KeyExponentFloor // G
	KeyExponentCeil  // H
)

// KeyForRune maps a typed character to its Key.
func KeyForRune(r rune) Key {
	switch r {
	case 'z':
		return KeyZoomIn
	case 'x':
		return KeyZoomOut
	case 'p':
		return KeyPeriodUp
	case 'o':
		return KeyPeriodDown
	case 'k':
		return KeyAnimate
	case 'j':
		return KeySlower
	case 'l':
		return KeyFaster
	case 'u':
		return KeyFewerIters
	case 'i':
		return KeyMoreIters
	case 'g':
		return KeyExponentDown
	case 'h':
		return KeyExponentUp
	case 'G':
		return KeyExponentFloor
	case 'H':
		return KeyExponentCeil
	}
	return KeyUnknown
}

const (
	moveSpeed      = 0.2
	zoomRate       = 1.4
	periodRate     = 1.2
	speedRate      = 2.0
	iterationsRate = 5.0
	exponentRate   = 0.2
)

// deltas are the per-second rates of the held keys. Multiplicative rates
// are factors, zero meaning not held.
type deltas struct {
	translate  complex128
	zoom       float64
	period     float64
	speed      float64
	iterations float64
	exponent   float64
}

// Key handles a key press or release.
func (c *Controller) Key(k Key, pressed bool) {
	if k == KeyControl {
		c.ctrlDown = pressed
		return
	}
	if !pressed {
		c.releaseKey(k)
		return
	}
	d := &c.deltas
	switch k {
	case KeyUp:
		d.translate = complex(real(d.translate), -moveSpeed)
	case KeyDown:
		d.translate = complex(real(d.translate), moveSpeed)
	case KeyLeft:
		d.translate = complex(-moveSpeed, imag(d.translate))
	case KeyRight:
		d.translate = complex(moveSpeed, imag(d.translate))
	case KeyZoomIn:
		d.zoom = zoomRate
	case KeyZoomOut:
		d.zoom = 1 / zoomRate
	case KeyPeriodUp:
		d.period = periodRate
	case KeyPeriodDown:
		d.period = 1 / periodRate
	case KeyAnimate:
		c.anim.enabled = !c.anim.enabled
	case KeyFaster:
		d.speed = speedRate
	case KeySlower:
		d.speed = 1 / speedRate
	case KeyFewerIters:
		d.iterations = -iterationsRate
	case KeyMoreIters:
		d.iterations = iterationsRate
	case KeyExponentDown:
		d.exponent = -exponentRate
	case KeyExponentUp:
		d.exponent = exponentRate
	case KeyExponentFloor:
		c.SetExponent(math.Ceil(c.exponent) - 1)
	case KeyExponentCeil:
		c.SetExponent(math.Floor(c.exponent) + 1)
	}
}

// releaseKey stops a delta only if it still runs in the released key's
// direction, so overlapping presses of opposite keys behave.
func (c *Controller) releaseKey(k Key) {
	d := &c.deltas
	x, y := real(d.translate), imag(d.translate)
	switch k {
	case KeyUp:
		d.translate = complex(x, max(y, 0))
	case KeyDown:
		d.translate = complex(x, min(y, 0))
	case KeyLeft:
		d.translate = complex(max(x, 0), y)
	case KeyRight:
		d.translate = complex(min(x, 0), y)
	case KeyZoomIn:
		if d.zoom > 1 {
			d.zoom = 0
		}
	case KeyZoomOut:
		if d.zoom < 1 {
			d.zoom = 0
		}
	case KeyPeriodUp:
		if d.period > 1 {
			d.period = 0
		}
	case KeyPeriodDown:
		if d.period < 1 {
			d.period = 0
		}
	case KeyFaster:
		if d.speed > 1 {
			d.speed = 0
		}
	case KeySlower:
		if d.speed < 1 {
			d.speed = 0
		}
	case KeyFewerIters:
		d.iterations = max(d.iterations, 0)
	case KeyMoreIters:
		d.iterations = min(d.iterations, 0)
	case KeyExponentDown:
		d.exponent = max(d.exponent, 0)
	case KeyExponentUp:
		d.exponent = min(d.exponent, 0)
	}
}

// rate turns a per-second factor into the factor for dt seconds.
func rate(factor, dt float64) float64 {
	return (factor-1)*dt + 1
}

// applyDeltas advances every held key by dt seconds.
func (c *Controller) applyDeltas(dt float64) {
	d := c.deltas
	if dt <= 0 {
		return
	}
	if d.zoom != 0 {
		if c.primary.SetZoom(c.primary.Zoom * rate(d.zoom, dt)) {
			c.primaryChanged()
		}
	}
	if d.translate != 0 {
		step := d.translate * complex(dt, 0)
		if (c.ctrlDown && c.marker.enabled) || c.split.Enabled {
			c.marker.position = c.marker.position.AddFloat(step / complex(c.primary.Zoom, 0))
			c.invalidate(InvalidateMarker | InvalidateSecondary)
		} else {
			c.primary.Pan(step)
			c.primaryChanged()
		}
	}
	if d.period != 0 {
		c.palettePeriod *= rate(d.period, dt)
	}
	if d.speed != 0 {
		c.anim.speed *= rate(d.speed, dt)
	}
	if d.iterations != 0 {
		c.iterations.N += d.iterations * dt
		c.iterations.clamp(c.primary.Zoom)
		c.invalidate(invalidateAll)
	}
	if d.exponent != 0 {
		c.SetExponent(c.exponent + d.exponent*dt)
	}
}
