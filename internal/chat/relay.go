package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

// Channel is the Redis channel that carries chat deliveries between instances.
const Channel = "chat:messages"

type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, handle func([]byte)) error
}

type delivery struct {
	Recipients []string           `json:"recipients"`
	Message    models.ChatMessage `json:"message"`
}

// RedisRelay fans chat messages out to every API instance, each of which
// delivers to its own connections.
type RedisRelay struct {
	bus PubSub
	hub *Hub
}

func NewRedisRelay(bus PubSub, hub *Hub) *RedisRelay {
	return &RedisRelay{bus: bus, hub: hub}
}

func (r *RedisRelay) Notify(ctx context.Context, recipients []string, msg models.ChatMessage) error {
	payload, err := json.Marshal(delivery{Recipients: recipients, Message: msg})
	if err != nil {
		return fmt.Errorf("encode delivery: %w", err)
	}
	return r.bus.Publish(ctx, Channel, payload)
}

// Run delivers relayed messages until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	slog.Info("Chat relay subscribed", "channel", Channel)
	return r.bus.Subscribe(ctx, Channel, r.handle)
}

// Serve keeps the relay subscribed until ctx is done. A dropped subscription
// is retried after a delay that doubles up to maxDelay and resets once a
// subscription has stayed up longer than maxDelay.
func (r *RedisRelay) Serve(ctx context.Context, minDelay, maxDelay time.Duration) {
	delay := minDelay
	for {
		started := time.Now()
		err := r.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > maxDelay {
			delay = minDelay
		}

		slog.Error("Chat relay stopped, resubscribing", "error", err, "delay", delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxDelay)
	}
}

func (r *RedisRelay) handle(payload []byte) {
	var d delivery
	if err := json.Unmarshal(payload, &d); err != nil {
		slog.Warn("Dropping malformed chat delivery", "error", err)
		return
	}
	r.hub.Deliver(d.Recipients, d.Message)
}
