// cliclient lends its CPU to a deepzoom server. It renders tiles until the
// job is done, then downloads the full image and saves it as a PNG file.

package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"net"
	"os"

	"github.com/marben/deepzoom"
	"github.com/marben/irpc"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8081", "server tcp address")
	out := flag.String("out", "deepzoom.png", "output png file")
	flag.Parse()

	log.Printf("connecting to %s", *addr)
	tcpConn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	// the server calls back into our renderer to have tiles rendered on this machine
	renderer := deepzoom.TileRenderer{OnTileRender: func(tile image.Rectangle) { log.Printf("rendering tile: %s", tile) }}
	rendererService := deepzoom.NewRendererIrpcService(renderer)
	ep := irpc.NewEndpoint(tcpConn, irpc.WithEndpointServices(rendererService))

	client, err := deepzoom.NewImgProviderIrpcClient(ep)
	if err != nil {
		return fmt.Errorf("failed to create ImgProvider client: %w", err)
	}

	// blocks until every tile is finished, by us or by other workers
	img, err := client.GetImage()
	if err != nil {
		return fmt.Errorf("client.GetImage: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, &img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	log.Printf("image %dx%d saved to %q", img.Bounds().Dx(), img.Bounds().Dy(), *out)
	return nil
}
