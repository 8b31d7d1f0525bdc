package controller

import (
	"math"
	"time"

	"github.com/marben/deepzoom/camera"
)

// TouchPhase is the stage of a touch point.
type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

type touchKind int

const (
	touchPrimary touchKind = iota
	touchSecondary
	touchSplit
	touchMarker
)

type touch struct {
	x, y  float64
	kind  touchKind
	moved bool
	start time.Time
}

// Touch handles one touch event. A single moving touch pans the view (or
// drags the split or marker) it started on; with two touches down the
// motion pinch-zooms instead. A touch held still for longer than 700ms
// opens the context menu.
func (c *Controller) Touch(id int, phase TouchPhase, x, y float64, now time.Time) {
	switch phase {
	case TouchStarted:
		kind := touchPrimary
		switch {
		case c.OnSplit(x, y):
			kind = touchSplit
		case c.OnMarker(x, y):
			kind = touchMarker
		case c.InSecondary(x, y):
			kind = touchSecondary
		}
		c.touches[id] = &touch{x: x, y: y, kind: kind, start: now}

	case TouchMoved:
		c.contextMenu = false
		t, ok := c.touches[id]
		if !ok {
			return
		}
		t.moved = true
		if len(c.touches) > 1 {
			c.pinch(id, t, x, y)
		} else {
			c.drag(t, x, y)
		}
		t.x, t.y = x, y

	case TouchEnded, TouchCancelled:
		t, ok := c.touches[id]
		if !ok {
			return
		}
		delete(c.touches, id)
		if !t.moved && now.Sub(t.start) > longPress {
			c.openContextMenu(x, y)
		}
	}
}

func (c *Controller) touchCamera(t *touch) *camera.Camera {
	switch t.kind {
	case touchPrimary:
		return c.primary
	case touchSecondary:
		return c.secondary
	}
	return nil
}

func (c *Controller) drag(t *touch, x, y float64) {
	if x == t.x && y == t.y {
		return
	}
	switch t.kind {
	case touchSplit:
		c.moveSplit(t.x, t.y, x, y)
	case touchMarker:
		c.moveMarker(t.x, t.y, x, y)
	default:
		if c.h == 0 {
			return
		}
		cam := c.touchCamera(t)
		cam.Pan(complex((t.x-x)/float64(c.h), (t.y-y)/float64(c.h)))
		c.cameraChanged(cam)
	}
}

// pinch zooms by the ratio of the new to the old distance between the
// moving touch and another one, anchored at their midpoint.
func (c *Controller) pinch(id int, t *touch, x, y float64) {
	cam := c.touchCamera(t)
	if cam == nil {
		return
	}
	var other *touch
	for oid, o := range c.touches {
		if oid != id {
			other = o
			break
		}
	}
	before := math.Hypot(t.x-other.x, t.y-other.y)
	after := math.Hypot(x-other.x, y-other.y)
	if before == 0 || after == 0 {
		return
	}
	mx, my := (x+other.x)/2, (y+other.y)/2
	if cam.ZoomAt(c.mapper(), mx, my, after/before) {
		c.cameraChanged(cam)
	}
}
