//go:build js && wasm

package main

import (
	"io"
	"sync"
	"syscall/js"
)

// wsConn is a browser WebSocket seen as an io.ReadWriteCloser, so an irpc
// endpoint can run over it. Messages are read in order; a message larger
// than the caller's buffer is handed out over several Reads.
type wsConn struct {
	ws js.Value

	// js callbacks may run between a Write's checks and its send
	mu     sync.Mutex
	closed bool
	err    error

	messages chan []byte
	pending  []byte

	ready     chan struct{} // closed once the socket opened, failed or closed
	readyOnce sync.Once
	funcs     []js.Func
}

func newWSConn(ws js.Value) *wsConn {
	c := &wsConn{
		ws:       ws,
		messages: make(chan []byte, 16),
		ready:    make(chan struct{}),
	}
	ws.Set("binaryType", "arraybuffer")
	c.on("onopen", func(js.Value) { c.markReady() })
	c.on("onerror", c.onError)
	c.on("onmessage", c.onMessage)
	c.on("onclose", c.onClose)
	return c
}

func (c *wsConn) on(event string, handle func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		handle(ev)
		return nil
	})
	c.funcs = append(c.funcs, f)
	c.ws.Set(event, f)
}

func (c *wsConn) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// onError may fire on an open socket as well as on a failed connect.
func (c *wsConn) onError(js.Value) {
	c.mu.Lock()
	if c.err == nil {
		c.err = io.ErrUnexpectedEOF
	}
	c.mu.Unlock()
	c.markReady()
}

func (c *wsConn) onMessage(ev js.Value) {
	messageBytes(ev.Get("data"), c.deliver)
}

func (c *wsConn) deliver(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.messages <- b
	}
}

func (c *wsConn) onClose(js.Value) {
	logScreenf("websocket closed")
	c.shutdown()
}

// shutdown marks the connection closed and reports whether it was open.
func (c *wsConn) shutdown() bool {
	c.mu.Lock()
	wasOpen := !c.closed
	if wasOpen {
		c.closed = true
		close(c.messages)
	}
	c.mu.Unlock()
	c.markReady()
	return wasOpen
}

func (c *wsConn) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		msg, ok := <-c.messages
		if !ok {
			return 0, io.EOF
		}
		c.pending = msg
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	<-c.ready

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.err != nil:
		return 0, c.err
	case c.closed:
		return 0, io.ErrClosedPipe
	}

	buf := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(buf, p)
	c.ws.Call("send", buf)
	return len(p), nil
}

func (c *wsConn) Close() error {
	if !c.shutdown() {
		return nil
	}
	c.ws.Call("close")
	for _, f := range c.funcs {
		f.Release()
	}
	return nil
}

// messageBytes copies a message payload to Go. Blobs resolve
// asynchronously, so the bytes are passed to deliver instead of returned.
func messageBytes(data js.Value, deliver func([]byte)) {
	global := js.Global()
	switch {
	case data.InstanceOf(global.Get("ArrayBuffer")):
		deliver(copyTypedArray(global.Get("Uint8Array").New(data)))
	case data.InstanceOf(global.Get("Uint8Array")), data.InstanceOf(global.Get("Uint8ClampedArray")):
		deliver(copyTypedArray(data))
	case data.InstanceOf(global.Get("Blob")):
		var then js.Func
		then = js.FuncOf(func(_ js.Value, args []js.Value) any {
			defer then.Release()
			deliver(copyTypedArray(global.Get("Uint8Array").New(args[0])))
			return nil
		})
		data.Call("arrayBuffer").Call("then", then)
	default:
		logScreenf("dropping websocket message of type %s", data.Type())
	}
}

func copyTypedArray(u8 js.Value) []byte {
	b := make([]byte, u8.Get("byteLength").Int())
	js.CopyBytesToGo(b, u8)
	return b
}
