package broadcast

import "context"

// Message is a raw payload received from a subscription.
type Message struct {
	Channel string
	Payload []byte
}

// Broadcaster is the pub/sub port for realtime vote fan-out. The production
// adapter rides on Redis channels so updates cross process boundaries; tests
// use an in-memory implementation.
type Broadcaster interface {
	// Publish sends payload to every subscriber of channel. Fire and forget:
	// delivery to zero subscribers is not an error.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe starts receiving messages for the given channels. The returned
	// cancel function stops delivery and closes the message channel.
	Subscribe(ctx context.Context, channels ...string) (<-chan Message, func() error, error)

	// Close tears down the underlying connection.
	Close() error
}
