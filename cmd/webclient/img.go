//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
)

func canvasContext() js.Value {
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	return canvas.Call("getContext", "2d")
}

// initCanvas sizes the canvas to the full image and fills it with color.
func initCanvas(width, height int, color string) {
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	canvas.Set("width", width)
	canvas.Set("height", height)

	ctx := canvas.Call("getContext", "2d")
	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}

// drawTileToCanvas puts tile at its own position in the full image.
func drawTileToCanvas(tile *image.RGBA) {
	r := tile.Rect
	if r.Empty() {
		return
	}
	// Pix of a tile starts at r.Min, so the buffer maps 1:1 to ImageData
	// as long as the stride is tight.
	pix := tile.Pix
	if tile.Stride != 4*r.Dx() {
		pix = make([]byte, 0, 4*r.Dx()*r.Dy())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			off := tile.PixOffset(r.Min.X, y)
			pix = append(pix, tile.Pix[off:off+4*r.Dx()]...)
		}
	}
	jsData := js.Global().Get("Uint8ClampedArray").New(len(pix))
	js.CopyBytesToJS(jsData, pix)

	imageData := js.Global().Get("ImageData").New(jsData, r.Dx(), r.Dy())
	canvasContext().Call("putImageData", imageData, r.Min.X, r.Min.Y)
}
