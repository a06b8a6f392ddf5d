package store

import "time"

type RoomSession struct {
	ID          string
	RoomID      string
	OpenedAt    time.Time
	ClosedAt    *time.Time // nil while the room is still live
	PeakMembers *int       // nil until the session closes
}
