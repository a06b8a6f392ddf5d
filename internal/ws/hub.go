package ws

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/Dima4663737373/doodle/pkg/metrics"
)

// SessionArchive records room lifetimes. It never sees drawing payloads.
type SessionArchive interface {
	RoomOpened(ctx context.Context, roomID string) error
	RoomClosed(ctx context.Context, roomID string, peak int) error
}

// Hub owns the room registry and drives every connection's lifecycle.
// Registry access is serialized by its mutex; each connection's messages
// are routed in receipt order by its own read loop.
type Hub struct {
	log     *slog.Logger
	bus     *Bus           // nil when redis is disabled
	archive SessionArchive // nil when postgres is disabled

	reg     *registry
	sendBuf int
}

// NewHub sets up the hub. bus and archive may be nil.
func NewHub(logger *slog.Logger, bus *Bus, archive SessionArchive, sendBuf int) *Hub {
	return &Hub{log: logger, bus: bus, archive: archive, reg: newRegistry(), sendBuf: sendBuf}
}

// Run forwards bus traffic from other instances to local room members
func (h *Hub) Run(ctx context.Context) {
	if h.bus != nil {
		go h.bus.Subscribe(ctx, func(roomID string, payload []byte) {
			h.broadcast(roomID, nil, payload)
		})
	}
	<-ctx.Done()
}

// ServeWS handles a new /ws connection. The socket starts unjoined; room
// association only happens through join messages.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(sock, h.sendBuf)
	metrics.ConnectionsActive.Inc()
	h.log.Debug("ws.connect", "remote", r.RemoteAddr)

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound reader: route each frame fully before reading the next
	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.route(ctx, c, raw)
	}

	// Transport close implies leave
	if c.room != "" {
		h.leaveRoom(c)
	}
	_ = c.Close()
	metrics.ConnectionsActive.Dec()
	h.log.Debug("ws.disconnect", "remote", r.RemoteAddr, "client", c.clientID)
}

// broadcast delivers payload to every open member of roomID except sender.
// Best-effort: a dropped or failed send is counted, never retried, and
// never evicts the member.
func (h *Hub) broadcast(roomID string, sender *Conn, payload []byte) {
	for _, m := range h.reg.members(roomID) {
		if m == sender || !m.Open() {
			continue
		}
		if !m.Send(payload) {
			metrics.SendsDropped.Inc()
		}
	}
}

// ActiveRooms returns current member counts by room id, for the admin API
func (h *Hub) ActiveRooms() map[string]int { return h.reg.snapshot() }

func (h *Hub) roomOpened(roomID string) {
	metrics.RoomsActive.Inc()
	h.log.Info("room.created", "room", roomID)
	if h.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.archive.RoomOpened(ctx, roomID); err != nil {
			h.log.Error("archive.room_opened", "room", roomID, "err", err)
		}
	}()
}

func (h *Hub) roomClosed(roomID string, peak int) {
	metrics.RoomsActive.Dec()
	h.log.Info("room.closed", "room", roomID, "peak", peak)
	if h.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.archive.RoomClosed(ctx, roomID, peak); err != nil {
			h.log.Error("archive.room_closed", "room", roomID, "err", err)
		}
	}()
}
