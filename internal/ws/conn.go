package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
)

// Conn wraps a websocket with an outbound queue and the per-connection
// relay state. room and clientID are written only by the connection's own
// read loop and read again after that loop exits; they need no lock.
type Conn struct {
	ws     *websocket.Conn
	out    chan []byte
	closed atomic.Bool

	room     string // current room id, empty while unjoined
	clientID string // caller-supplied, unvalidated
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection with an outbound buffer of the given size
func NewConn(ws *websocket.Conn, buf int) *Conn {
	if buf <= 0 {
		buf = 256
	}
	return &Conn{ws: ws, out: make(chan []byte, buf)}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// Send queues a payload without blocking. Returns false if the connection
// is closed or its buffer is full; the frame is dropped either way.
func (c *Conn) Send(b []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.out <- b:
		return true
	default: // skip if send buffer is full
		return false
	}
}

// Open reports whether the transport is still usable for sends
func (c *Conn) Open() bool { return !c.closed.Load() }

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close marks the connection not-open and closes the WS normally
func (c *Conn) Close() error {
	c.closed.Store(true)
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
