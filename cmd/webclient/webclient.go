//go:build js && wasm

// webclient is the browser worker of deepzoom. It renders tiles for the
// server and paints every finished tile, whoever rendered it, onto the page.

package main

import (
	"fmt"
	"image"
	"log"
	"syscall/js"
	"time"

	"github.com/marben/deepzoom"
	"github.com/marben/irpc"
)

const pollInterval = 250 * time.Millisecond

func main() {
	loc := js.Global().Get("window").Get("location")
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + loc.Get("host").String() + "/ws"

	logScreenf("connecting to %s", websocketUrl)
	websocket := js.Global().Get("WebSocket").New(websocketUrl)
	conn := newWSConn(websocket)

	renderer := deepzoom.TileRenderer{OnTileRender: func(tile image.Rectangle) { logScreenf("rendering tile: %s", tile) }}
	rendererService := deepzoom.NewRendererIrpcService(renderer)
	endpoint := irpc.NewEndpoint(conn, irpc.WithEndpointServices(rendererService))

	tilesProvider, err := deepzoom.NewTileProviderIrpcClient(endpoint)
	if err != nil {
		logFatalf("failed to create TileProvider client: %v", err)
	}

	width, height, err := tilesProvider.FullImageDimensions()
	if err != nil {
		logFatalf("FullImageDimensions: %v", err)
	}
	logScreenf("image %dx%d", width, height)
	initCanvas(width, height, "#1b1b2f")

	if err := tilesLoadLoop(tilesProvider); err != nil {
		logFatalf("tilesLoadLoop: %v", err)
	}
	logScreenf("all tiles done")

	// keep the wasm module alive, the server may still call our renderer
	select {}
}

// logScreenf appends a formatted line to the log element.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	logElem := js.Global().Get("document").Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

// tilesLoadLoop polls the server for finished tiles and draws the ones not
// drawn yet. It returns once every tile is on the canvas.
func tilesLoadLoop(tp deepzoom.TileProvider) error {
	totalTiles, err := tp.TotalTilesCount()
	if err != nil {
		return fmt.Errorf("tp.TotalTilesCount: %w", err)
	}
	hudSet("tilesTotal", totalTiles)

	drawn := make(map[image.Rectangle]struct{})
	for len(drawn) < totalTiles {
		finishedTiles, err := tp.FinishedTiles()
		if err != nil {
			return fmt.Errorf("FinishedTiles: %w", err)
		}
		for _, t := range finishedTiles {
			if _, found := drawn[t]; found {
				continue
			}
			tileImg, err := tp.GetTileImg(t)
			if err != nil {
				return fmt.Errorf("get tile %v: %w", t, err)
			}
			drawTileToCanvas(&tileImg)
			drawn[t] = struct{}{}
		}
		hudSet("tilesDone", len(drawn))

		workers, err := tp.WorkersCount()
		if err != nil {
			return fmt.Errorf("tp.WorkersCount: %w", err)
		}
		hudSet("workersRunning", workers)

		// polling keeps the api one-directional
		time.Sleep(pollInterval)
	}
	return nil
}

func hudSet(id string, v int) {
	js.Global().Get("document").Call("getElementById", id).Set("textContent", v)
}
