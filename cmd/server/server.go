package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/marben/deepzoom"
	"github.com/marben/deepzoom/controller"
	"github.com/marben/irpc"
	"golang.org/x/sync/errgroup"
)

// main is the entry point for the tile server.
// All rendering is performed by clients (web and CLI); the server only
// computes the reference orbit once and distributes tiles.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	preset := flag.String("preset", "seahorse-valley", "camera preset to render")
	width := flag.Int("w", 1920, "image width")
	height := flag.Int("h", 1080, "image height")
	iters := flag.Float64("iters", 0, "fixed iteration count; 0 follows the zoom")
	tileSize := flag.Int("tile", 64, "tile size in pixels")
	tcpPort := flag.Int("tcp", 8081, "tcp port for cli workers")
	httpPort := flag.Int("http", 8080, "http port for the web client")
	origin := flag.String("origin", "*", "allowed websocket origin pattern")
	flag.Parse()

	if *tileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", *tileSize)
	}
	job, err := buildJob(*preset, *width, *height, *iters)
	if err != nil {
		return fmt.Errorf("buildJob: %w", err)
	}
	imgWorkScheduler := newImgWorkScheduler(job, *tileSize)

	// ImgProvider serves the full image to cli clients once every tile is done.
	// TileProvider gives web clients a view of the progressive render.
	// Both are backed by the same scheduler so cli and web workers share the work.
	imgProviderIrpcService := deepzoom.NewImgProviderIrpcService(imgWorkScheduler)
	tileProviderIrpcService := deepzoom.NewTileProviderIrpcService(imgWorkScheduler)

	// irpc server with onConnect hook to plug clients into rendering
	irpcServer := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		go func() {
			log.Printf("got connection from: %s", ep.RemoteAddr())

			// Each client provides a deepzoom.Renderer we render tiles on
			rendererIrpcClient, err := deepzoom.NewRendererIrpcClient(ep)
			if err != nil {
				log.Printf("err: new Rendering client: %v", err)
				return
			}
			if err := imgWorkScheduler.addRenderer(rendererIrpcClient); err != nil {
				log.Printf("err: render on client %q: %v", ep.RemoteAddr(), err)
				return
			}
		}()
	}))
	irpcServer.AddService(imgProviderIrpcService, tileProviderIrpcService)

	log.Printf("tcp listening on port: %d", *tcpPort)
	tcpListener, err := net.Listen("tcp", fmt.Sprintf(":%d", *tcpPort))
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	websocketListener, httpServer := webServer(context.Background(), *httpPort, *origin)

	// the first serve loop to fail takes the server down
	var g errgroup.Group

	// httpServer provides index.html, main.wasm along with websocket endpoint
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil {
			return fmt.Errorf("httpServer: %w", err)
		}
		return nil
	})

	// irpcServer serves both the tcp and the websocket listener
	g.Go(func() error {
		if err := irpcServer.Serve(tcpListener); err != nil {
			return fmt.Errorf("server.Serve tcp: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := irpcServer.Serve(websocketListener); err != nil {
			return fmt.Errorf("server.Serve ws: %w", err)
		}
		return nil
	})

	log.Printf("deepzoom server waiting for tcp and websocket connections")
	return g.Wait()
}

// buildJob sets a controller up the way the explorer would show the preset
// and snapshots its first frame, reference orbit included.
func buildJob(name string, w, h int, iters float64) (deepzoom.TileJob, error) {
	if w <= 0 || h <= 0 {
		return deepzoom.TileJob{}, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	p, ok := deepzoom.PresetByName(name)
	if !ok {
		return deepzoom.TileJob{}, fmt.Errorf("unknown preset %q", name)
	}
	center, err := p.Center()
	if err != nil {
		return deepzoom.TileJob{}, err
	}

	c := controller.New()
	c.Resize(w, h)
	c.JumpTo(p.Zoom, center)
	if iters > 0 {
		c.ToggleIterationMode()
		c.SetIterations(iters)
	}
	f := c.Frame(time.Now())
	log.Printf("preset %s: zoom %g, %.1f iterations, %s mode, %d reference points",
		p.Name, f.Primary.Zoom, f.Iterations, f.Mode, len(f.Orbit))
	return deepzoom.NewTileJob(&f), nil
}
