package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/marben/deepzoom/controller"
)

var heldKeys = map[ebiten.Key]controller.Key{
	ebiten.KeyArrowUp:    controller.KeyUp,
	ebiten.KeyArrowDown:  controller.KeyDown,
	ebiten.KeyArrowLeft:  controller.KeyLeft,
	ebiten.KeyArrowRight: controller.KeyRight,
	ebiten.KeyW:          controller.KeyUp,
	ebiten.KeyS:          controller.KeyDown,
	ebiten.KeyA:          controller.KeyLeft,
	ebiten.KeyD:          controller.KeyRight,
	ebiten.KeyControl:    controller.KeyControl,
	ebiten.KeyZ:          controller.KeyForRune('z'),
	ebiten.KeyX:          controller.KeyForRune('x'),
	ebiten.KeyP:          controller.KeyForRune('p'),
	ebiten.KeyO:          controller.KeyForRune('o'),
	ebiten.KeyK:          controller.KeyForRune('k'),
	ebiten.KeyJ:          controller.KeyForRune('j'),
	ebiten.KeyL:          controller.KeyForRune('l'),
	ebiten.KeyU:          controller.KeyForRune('u'),
	ebiten.KeyI:          controller.KeyForRune('i'),
	ebiten.KeyG:          controller.KeyForRune('g'),
	ebiten.KeyH:          controller.KeyForRune('h'),
}

var cursors = map[controller.Cursor]ebiten.CursorShapeType{
	controller.CursorDefault:          ebiten.CursorShapeDefault,
	controller.CursorGrab:             ebiten.CursorShapePointer,
	controller.CursorGrabbing:         ebiten.CursorShapeMove,
	controller.CursorResizeHorizontal: ebiten.CursorShapeEWResize,
	controller.CursorResizeVertical:   ebiten.CursorShapeNSResize,
}

var buttons = map[ebiten.MouseButton]controller.Button{
	ebiten.MouseButtonLeft:   controller.ButtonLeft,
	ebiten.MouseButtonMiddle: controller.ButtonMiddle,
	ebiten.MouseButtonRight:  controller.ButtonRight,
}

// input turns the ebiten input state of one tick into controller events.
type input struct {
	cursorX, cursorY int
	keys             []ebiten.Key
	touchIDs         []ebiten.TouchID
	touches          map[ebiten.TouchID]point
}

type point struct{ x, y int }

func newInput() *input {
	return &input{cursorX: math.MinInt, touches: make(map[ebiten.TouchID]point)}
}

// update feeds the tick's events to the game's controller and reports
// whether the user asked to quit.
func (in *input) update(g *game) bool {
	c := g.ctrl
	c.Resize(g.w, g.h)

	if x, y := ebiten.CursorPosition(); x != in.cursorX || y != in.cursorY {
		in.cursorX, in.cursorY = x, y
		c.PointerMove(float64(x), float64(y))
	}
	for eb, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			c.PointerButton(b, true)
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			c.PointerButton(b, false)
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		c.Scroll(dy)
	}
	in.updateTouches(c)
	ebiten.SetCursorShape(cursors[c.CursorShape()])

	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		switch {
		case shift && k == ebiten.KeyG:
			c.Key(controller.KeyExponentFloor, true)
			continue
		case shift && k == ebiten.KeyH:
			c.Key(controller.KeyExponentCeil, true)
			continue
		}
		if ck, ok := heldKeys[k]; ok {
			c.Key(ck, true)
			continue
		}
		if in.toggle(g, k) {
			return true
		}
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		if ck, ok := heldKeys[k]; ok {
			c.Key(ck, false)
		}
	}
	return false
}

// toggle handles the one-shot keys and reports whether the key quits.
func (in *input) toggle(g *game, k ebiten.Key) bool {
	c := g.ctrl
	switch k {
	case ebiten.KeyQ:
		return true
	case ebiten.KeyEscape:
		c.CloseContextMenu()
	case ebiten.KeyEnter:
		if x, y, ok := c.ContextMenu(); ok {
			c.ShowIterationsAt(x, y)
		}
	case ebiten.KeyTab:
		c.SetStyle(c.Style().Next())
	case ebiten.KeyC:
		c.SetPalette(c.Palette().Next())
	case ebiten.KeyV:
		c.SetPartition(c.Partition().Next())
	case ebiten.KeyY:
		c.SetJulia(!c.Julia())
	case ebiten.KeyM:
		c.SetMarker(!c.MarkerEnabled())
	case ebiten.KeyN:
		c.ToggleIterationMode()
	case ebiten.KeyBracketLeft:
		c.PrevIteration()
	case ebiten.KeyBracketRight:
		c.NextIteration()
	case ebiten.KeyMinus:
		c.SetEscapeRadius(c.EscapeRadius() / 2)
	case ebiten.KeyEqual:
		c.SetEscapeRadius(c.EscapeRadius() * 2)
	case ebiten.KeyF:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case ebiten.KeyF1:
		g.hud = !g.hud
	}
	return false
}

func (in *input) updateTouches(c *controller.Controller) {
	now := time.Now()
	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.touches[id] = point{x, y}
		c.Touch(int(id), controller.TouchStarted, float64(x), float64(y), now)
	}
	for id, p := range in.touches {
		if inpututil.IsTouchJustReleased(id) {
			delete(in.touches, id)
			c.Touch(int(id), controller.TouchEnded, float64(p.x), float64(p.y), now)
			continue
		}
		if x, y := ebiten.TouchPosition(id); x != p.x || y != p.y {
			in.touches[id] = point{x, y}
			c.Touch(int(id), controller.TouchMoved, float64(x), float64(y), now)
		}
	}
}
