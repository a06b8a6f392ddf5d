package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/Dima4663737373/doodle/internal/app"
)

// BusMessage crosses instances; Origin lets the publishing instance skip
// its own messages so local members never see a payload twice.
type BusMessage struct {
	Origin  string `json:"origin"`
	RoomID  string `json:"roomId"`
	Payload []byte `json:"payload"`
}

// Bus fans relay payloads out across instances over redis pub/sub.
// Delivery inherits the relay's best-effort contract.
type Bus struct {
	rdb      *redis.Client
	log      *slog.Logger
	instance string
}

// NewBus connects to redis and verifies connectivity
func NewBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*Bus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Bus{rdb: rdb, log: log, instance: instanceID()}, nil
}

// Publish sends a relayed payload to the redis channel for a room
func (b *Bus) Publish(ctx context.Context, roomID string, payload []byte) error {
	raw, _ := json.Marshal(BusMessage{Origin: b.instance, RoomID: roomID, Payload: payload})
	return b.rdb.Publish(ctx, channel(roomID), raw).Err()
}

// Subscribe listens to all room channels and invokes fn for each message
// published by another instance
func (b *Bus) Subscribe(ctx context.Context, fn func(roomID string, payload []byte)) {
	pubsub := b.rdb.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var bm BusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.log.Debug("bus.decode", "err", err)
				continue
			}
			if bm.RoomID == "" || bm.Origin == b.instance {
				continue
			}
			fn(bm.RoomID, bm.Payload)
		}
	}
}

// Close shuts down the redis connection
func (b *Bus) Close() { _ = b.rdb.Close() }

// channel namespacing for room pub/sub
func channel(roomID string) string { return "room:" + roomID }

func instanceID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
