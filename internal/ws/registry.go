package ws

import "sync"

// room holds the member set for one room id plus the peak membership seen
// over its lifetime, reported to the session archive when it closes.
type room struct {
	members map[*Conn]struct{}
	peak    int
}

// registry maps room ids to member sets. A room exists in the map iff its
// member set is non-empty: the last leave deletes the entry immediately.
// Membership is a non-owning reference; connection lifetime belongs to the
// accept path.
type registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func newRegistry() *registry {
	return &registry{rooms: map[string]*room{}}
}

// ensure returns the room for id, creating an empty one if absent.
// Caller must hold the write lock.
func (g *registry) ensure(id string) (*room, bool) {
	rm := g.rooms[id]
	if rm != nil {
		return rm, false
	}
	rm = &room{members: map[*Conn]struct{}{}}
	g.rooms[id] = rm
	return rm, true
}

// join adds c to the room, creating it if needed.
// Reports whether the room was created by this call.
func (g *registry) join(id string, c *Conn) (created bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, created := g.ensure(id)
	rm.members[c] = struct{}{}
	if n := len(rm.members); n > rm.peak {
		rm.peak = n
	}
	return created
}

// leave removes c from the room; deleting the entry when the set empties.
// Removing a non-member is a no-op. Reports whether c was removed, whether
// the room was destroyed, and the room's peak membership if destroyed.
func (g *registry) leave(id string, c *Conn) (removed, destroyed bool, peak int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.rooms[id]
	if rm == nil {
		return false, false, 0
	}
	if _, ok := rm.members[c]; !ok {
		return false, false, 0
	}
	delete(rm.members, c)
	if len(rm.members) == 0 {
		delete(g.rooms, id)
		return true, true, rm.peak
	}
	return true, false, 0
}

// members returns a snapshot of the room's current member set,
// or nil if the room does not exist.
func (g *registry) members(id string) []*Conn {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rm := g.rooms[id]
	if rm == nil {
		return nil
	}
	out := make([]*Conn, 0, len(rm.members))
	for c := range rm.members {
		out = append(out, c)
	}
	return out
}

// size returns the current member count for id, 0 if absent
func (g *registry) size(id string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rm := g.rooms[id]
	if rm == nil {
		return 0
	}
	return len(rm.members)
}

// snapshot returns member counts for every active room
func (g *registry) snapshot() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]int, len(g.rooms))
	for id, rm := range g.rooms {
		out[id] = len(rm.members)
	}
	return out
}
