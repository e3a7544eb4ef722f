package broadcast

import (
	"context"
	"fmt"

	"pinstack/internal/pins/domain/broadcast"
	"pinstack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroadcaster implements the Broadcaster port over Redis pub/sub. Every
// API instance publishes vote updates to votes:{pinId} channels and each
// instance's websocket layer subscribes, so fan-out works across processes.
type RedisBroadcaster struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedisBroadcaster creates a broadcaster on an existing Redis client.
func NewRedisBroadcaster(client *redis.Client, log logger.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
		log:    log.WithComponent("redis_broadcaster"),
	}
}

// Publish sends payload to a channel. Zero receivers is not an error.
func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe opens a pub/sub subscription on the given channels. Messages are
// forwarded until cancel is called or the context ends.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, channels ...string) (<-chan broadcast.Message, func() error, error) {
	if len(channels) == 0 {
		return nil, nil, fmt.Errorf("at least one channel is required")
	}

	pubsub := b.client.Subscribe(ctx, channels...)

	// Force the subscription to be established before returning so a publish
	// immediately after Subscribe is not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan broadcast.Message, 64)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- broadcast.Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() error {
		if err := pubsub.Close(); err != nil {
			b.log.Warn("failed to close subscription", zap.Error(err))
			return err
		}
		return nil
	}

	return out, cancel, nil
}

// Close is a no-op: the Redis client is owned by the DI container.
func (b *RedisBroadcaster) Close() error {
	return nil
}
