package httpx

import (
	"net/http"
	"sort"
	"time"

	"github.com/Dima4663737373/doodle/internal/store"
)

// LiveRooms is the hub surface the admin API needs.
type LiveRooms interface {
	ActiveRooms() map[string]int
}

type AdminAPI struct {
	Hub LiveRooms
	DB  *store.Postgres // nil when the session archive is disabled
}

type roomInfo struct {
	RoomID  string `json:"roomId"`
	Members int    `json:"members"`
}

type sessionInfo struct {
	RoomID      string     `json:"roomId"`
	OpenedAt    time.Time  `json:"openedAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	PeakMembers *int       `json:"peakMembers,omitempty"`
}

// Rooms lists live rooms with their member counts
func (a *AdminAPI) Rooms(w http.ResponseWriter, r *http.Request) {
	counts := a.Hub.ActiveRooms()

	out := make([]roomInfo, 0, len(counts))
	for id, n := range counts {
		out = append(out, roomInfo{RoomID: id, Members: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	writeJSON(w, out)
}

// Sessions lists up to 100 recent room sessions from the archive
func (a *AdminAPI) Sessions(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		http.Error(w, "session archive disabled", http.StatusServiceUnavailable)
		return
	}

	sessions, err := a.DB.ListSessions(r.Context(), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]sessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionInfo{
			RoomID: s.RoomID, OpenedAt: s.OpenedAt, ClosedAt: s.ClosedAt, PeakMembers: s.PeakMembers,
		})
	}
	writeJSON(w, out)
}
