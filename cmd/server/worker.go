package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	"github.com/marben/deepzoom"
)

var errTileNotFinished = errors.New("tile not finished")

// imgWorkScheduler splits one job into tiles and hands them out to every
// connected renderer. It implements deepzoom.ImgProvider and
// deepzoom.TileProvider.
type imgWorkScheduler struct {
	workers int
	job     deepzoom.TileJob
	img     *image.RGBA

	// ctx is canceled once the last tile arrives
	ctx       context.Context
	ctxCancel context.CancelFunc

	totalTiles int
	finished   []image.Rectangle

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	m         sync.Mutex
}

func newImgWorkScheduler(job deepzoom.TileJob, tileSize int) *imgWorkScheduler {
	img := image.NewRGBA(image.Rect(0, 0, job.Width, job.Height))
	allTilesSlice := splitRectNoClip(img.Bounds(), tileSize, tileSize)
	allTiles := make(map[image.Rectangle]struct{}, len(allTilesSlice))
	for _, t := range allTilesSlice {
		allTiles[t] = struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	if len(allTiles) == 0 {
		cancel()
	}
	return &imgWorkScheduler{
		job:        job,
		img:        img,
		unstarted:  allTiles,
		inProcess:  make(map[image.Rectangle]struct{}),
		totalTiles: len(allTiles),
		ctx:        ctx,
		ctxCancel:  cancel,
	}
}

func (iws *imgWorkScheduler) popTile() (tile image.Rectangle, found bool) {
	iws.m.Lock()
	defer iws.m.Unlock()

	// Get unstarted tile
	if len(iws.unstarted) > 0 {
		for tile = range iws.unstarted {
			break
		}
		delete(iws.unstarted, tile)
		iws.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one
	if len(iws.inProcess) > 0 {
		for tile = range iws.inProcess {
			break
		}
		return tile, true
	}

	return image.Rectangle{}, false
}

// GetImage implements deepzoom.ImgProvider.
func (iws *imgWorkScheduler) GetImage() (image.RGBA, error) {
	<-iws.ctx.Done()
	iws.m.Lock()
	defer iws.m.Unlock()
	return *iws.img, nil
}

func (iws *imgWorkScheduler) FullImageDimensions() (int, int, error) {
	return iws.job.Width, iws.job.Height, nil
}

func (iws *imgWorkScheduler) TotalTilesCount() (int, error) {
	return iws.totalTiles, nil
}

func (iws *imgWorkScheduler) FinishedTiles() ([]image.Rectangle, error) {
	iws.m.Lock()
	defer iws.m.Unlock()
	return append([]image.Rectangle(nil), iws.finished...), nil
}

// GetTileImg returns a copy of a finished tile in full image coordinates.
func (iws *imgWorkScheduler) GetTileImg(tile image.Rectangle) (image.RGBA, error) {
	iws.m.Lock()
	defer iws.m.Unlock()

	for _, t := range iws.finished {
		if t == tile {
			out := image.NewRGBA(tile)
			draw.Draw(out, tile, iws.img, tile.Min, draw.Src)
			return *out, nil
		}
	}
	return image.RGBA{}, fmt.Errorf("%s: %w", tile, errTileNotFinished)
}

func (iws *imgWorkScheduler) WorkersCount() (int, error) {
	iws.m.Lock()
	defer iws.m.Unlock()
	return iws.workers, nil
}

func (iws *imgWorkScheduler) progress() float32 {
	iws.m.Lock()
	defer iws.m.Unlock()
	if iws.totalTiles == 0 {
		return 1
	}
	return float32(len(iws.finished)) / float32(iws.totalTiles)
}

func (iws *imgWorkScheduler) tileFinished(tileImg image.RGBA) {
	defer log.Printf("finished: %.3f", iws.progress())

	rect := tileImg.Bounds()
	iws.m.Lock()
	defer iws.m.Unlock()

	// a tile handed out twice is only counted once
	if _, found := iws.inProcess[rect]; !found {
		return
	}
	draw.Draw(iws.img, rect, &tileImg, rect.Min, draw.Src)
	delete(iws.inProcess, rect)
	iws.finished = append(iws.finished, rect)

	if len(iws.unstarted) == 0 && len(iws.inProcess) == 0 {
		iws.ctxCancel()
	}
}

func (iws *imgWorkScheduler) incActiveWorker() {
	iws.m.Lock()
	iws.workers++
	w := iws.workers
	iws.m.Unlock()

	log.Printf("workers: %d", w)
}

func (iws *imgWorkScheduler) decActiveWorkers() {
	iws.m.Lock()
	iws.workers--
	w := iws.workers
	iws.m.Unlock()

	log.Printf("workers: %d", w)
}

// addRenderer renders unfinished tiles on renderer until none are left.
// It can be called from multiple goroutines in parallel.
func (iws *imgWorkScheduler) addRenderer(renderer deepzoom.Renderer) error {
	iws.incActiveWorker()
	defer iws.decActiveWorkers()

	for {
		tile, found := iws.popTile()
		if !found {
			return nil
		}
		tileImg, err := renderer.RenderTile(iws.job, tile)
		if err != nil {
			return fmt.Errorf("render tile %s: %w", tile, err)
		}
		if tileImg.Bounds() != tile {
			return fmt.Errorf("renderer returned %s for tile %s", tileImg.Bounds(), tile)
		}
		iws.tileFinished(tileImg)
	}
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []image.Rectangle
	for oy := 0; oy < r.Dy(); oy += tileH {
		th := min(tileH, r.Dy()-oy)
		for ox := 0; ox < r.Dx(); ox += tileW {
			tw := min(tileW, r.Dx()-ox)
			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}
	return tiles
}
