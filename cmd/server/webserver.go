package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// webServer creates a server serving files in ./static, with a websocket
// endpoint whose connections are accepted from the returned net.Listener.
func webServer(ctx context.Context, port int, originPattern string) (net.Listener, *http.Server) {
	l := newWSListener(ctx, fmt.Sprintf("localhost:%d/ws", port))
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l, originPattern))
	mux.Handle("/", http.FileServer(http.Dir("./static")))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", port)
	return l, srv
}

// websocketHandler upgrades the request and passes the connection on to
// the listener.
func websocketHandler(l *wsListener, originPattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{originPattern},
		})
		if err != nil {
			log.Println(err)
			return
		}

		select {
		case l.ch <- c:
		case <-l.ctx.Done():
			c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

// wsListener implements net.Listener over accepted websocket connections.
type wsListener struct {
	ch        chan *websocket.Conn
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	addr      wsAddr
}

func newWSListener(ctx context.Context, addr string) *wsListener {
	ctx, cancel := context.WithCancel(ctx)
	return &wsListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Addr() net.Addr {
	return l.addr
}

func (l *wsListener) Close() error {
	l.closeOnce.Do(l.cancel)
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
