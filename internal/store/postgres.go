package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"log/slog"

	"github.com/Dima4663737373/doodle/internal/app"
)

type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgres connects to postgres and returns a pool wrapper
func NewPostgres(ctx context.Context, cfg app.Config, log *slog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, log: log}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// RoomOpened records the start of a room's lifetime
func (p *Postgres) RoomOpened(ctx context.Context, roomID string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO room_sessions (room_id)
		VALUES ($1)
	`, roomID)
	return err
}

// RoomClosed stamps the most recent open session for the room with its
// close time and peak membership
func (p *Postgres) RoomClosed(ctx context.Context, roomID string, peak int) error {
	ct, err := p.pool.Exec(ctx, `
		UPDATE room_sessions
		SET closed_at = NOW(), peak_members = $2
		WHERE id = (
			SELECT id FROM room_sessions
			WHERE room_id = $1 AND closed_at IS NULL
			ORDER BY opened_at DESC
			LIMIT 1
		)
	`, roomID, peak)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no open session")
	}
	return nil
}

// ListSessions returns recent room sessions, newest first
func (p *Postgres) ListSessions(ctx context.Context, limit int) ([]RoomSession, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, room_id, opened_at, closed_at, peak_members
		FROM room_sessions
		ORDER BY opened_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomSession
	for rows.Next() {
		var s RoomSession
		if err := rows.Scan(&s.ID, &s.RoomID, &s.OpenedAt, &s.ClosedAt, &s.PeakMembers); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
