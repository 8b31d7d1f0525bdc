//go:generate go run github.com/marben/irpc/cmd/irpc $GOFILE

// Package deepzoom is the distributed still renderer's wire API: the
// scheduler hands tile jobs to remote renderers and serves the assembled
// image. Each interface gets an irpc service and client from go generate.
package deepzoom

import (
	"image"
)

// ImgProvider serves the fully rendered image. GetImage blocks until every
// tile is done.
type ImgProvider interface {
	GetImage() (image.RGBA, error)
}

// TileProvider lets a client follow a render in progress.
type TileProvider interface {
	FullImageDimensions() (width int, height int, err error)
	TotalTilesCount() (int, error)
	FinishedTiles() ([]image.Rectangle, error)
	GetTileImg(tile image.Rectangle) (image.RGBA, error)
	WorkersCount() (int, error)
}

// Renderer renders one tile of a job. The returned image has the tile's
// bounds in full image coordinates.
type Renderer interface {
	RenderTile(job TileJob, tile image.Rectangle) (image.RGBA, error)
}
