package ws

import (
	"context"
	"encoding/json"

	"github.com/Dima4663737373/doodle/pkg/metrics"
)

// Message types recognized by the router. Canvas-mutating types are relayed
// verbatim; anything not listed here is ignored so newer clients can speak
// to older relays.
const (
	typeJoin      = "join"
	typeJoined    = "joined"
	typeLeave     = "leave"
	typeDraw      = "draw"
	typeStrokeEnd = "strokeEnd"
	typeFill      = "fill"
	typeClear     = "clear"
	typeUndo      = "undo"
)

var relayTypes = map[string]struct{}{
	typeDraw:      {},
	typeStrokeEnd: {},
	typeFill:      {},
	typeClear:     {},
	typeUndo:      {},
}

// envelope picks out the routing fields; everything else in the payload is
// passed through untouched.
type envelope struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	ClientID string `json:"clientId"`
}

type joinedMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// route dispatches one raw inbound payload for c. Malformed payloads are
// dropped and the connection stays usable.
func (h *Hub) route(ctx context.Context, c *Conn, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
		metrics.MalformedPayloads.Inc()
		h.log.Debug("ws.payload.malformed", "err", err)
		return
	}

	switch env.Type {
	case typeJoin:
		h.handleJoin(c, env)
	case typeLeave:
		h.handleLeave(c)
	default:
		if _, ok := relayTypes[env.Type]; !ok {
			return // unknown type, forward compatibility
		}
		h.handleRelay(ctx, c, env.Type, raw)
	}
}

// handleJoin associates c with env.RoomID. A join while already in another
// room migrates: the old membership is dropped first, so a connection is
// never in two rooms at once.
func (h *Hub) handleJoin(c *Conn, env envelope) {
	if c.room != "" && c.room != env.RoomID {
		h.leaveRoom(c)
	}
	created := h.reg.join(env.RoomID, c)
	c.room = env.RoomID
	c.clientID = env.ClientID
	if created {
		h.roomOpened(env.RoomID)
	}
	h.log.Debug("room.join", "room", env.RoomID, "client", env.ClientID)

	b, _ := json.Marshal(joinedMsg{Type: typeJoined, RoomID: env.RoomID})
	c.Send(b)
}

// handleLeave drops c's current membership; the transport stays open
func (h *Hub) handleLeave(c *Conn) {
	if c.room == "" {
		return
	}
	h.leaveRoom(c)
}

// handleRelay fans the raw payload out to the rest of c's room and across
// instances via the bus. A relay from an unjoined connection is a no-op.
func (h *Hub) handleRelay(ctx context.Context, c *Conn, typ string, raw []byte) {
	if c.room == "" {
		return
	}
	metrics.MessagesRelayed.WithLabelValues(typ).Inc()
	h.broadcast(c.room, c, raw)
	if h.bus != nil {
		if err := h.bus.Publish(ctx, c.room, raw); err != nil {
			h.log.Debug("bus.publish", "err", err)
		}
	}
}

// leaveRoom removes c from its room, clears the association, and reports
// the room's destruction to the archive when it empties.
func (h *Hub) leaveRoom(c *Conn) {
	id := c.room
	c.room = ""
	_, destroyed, peak := h.reg.leave(id, c)
	if destroyed {
		h.roomClosed(id, peak)
	}
	h.log.Debug("room.leave", "room", id, "client", c.clientID)
}
