package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pinstack/internal/pins/domain/broadcast"
	"pinstack/internal/pins/domain/model"
	"pinstack/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer is the per-subscriber queue depth. A subscriber that falls
// this far behind starts dropping updates; clients resync from the next one.
const subscriberBuffer = 16

// RealtimeUsecase is the in-process fan-out registry between the broadcaster
// and websocket connections. One upstream subscription exists per pin no
// matter how many local clients watch it.
type RealtimeUsecase interface {
	// Subscribe registers a watcher on a pin's vote updates. The returned id
	// must be passed to Unsubscribe when the watcher goes away.
	Subscribe(ctx context.Context, pinID string) (string, <-chan model.VoteUpdate, error)
	// Unsubscribe removes a watcher and closes its channel. Unknown ids are
	// ignored.
	Unsubscribe(pinID, subscriberID string)
	// Stop tears down every topic and upstream subscription.
	Stop()
}

type pinTopic struct {
	subscribers map[string]chan model.VoteUpdate
	cancel      func() error
	done        chan struct{}
}

type realtimeUsecase struct {
	broadcaster broadcast.Broadcaster
	log         logger.Logger

	mu     sync.Mutex
	topics map[string]*pinTopic
}

// NewRealtimeUsecase creates a new realtime fan-out registry.
func NewRealtimeUsecase(broadcaster broadcast.Broadcaster, log logger.Logger) RealtimeUsecase {
	return &realtimeUsecase{
		broadcaster: broadcaster,
		log:         log.WithComponent("realtime"),
		topics:      make(map[string]*pinTopic),
	}
}

// Subscribe attaches a new watcher, starting the upstream subscription on the
// pin's channel if this is the first one.
func (uc *realtimeUsecase) Subscribe(ctx context.Context, pinID string) (string, <-chan model.VoteUpdate, error) {
	if pinID == "" {
		return "", nil, fmt.Errorf("pinID is required")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	topic, ok := uc.topics[pinID]
	if !ok {
		msgs, cancel, err := uc.broadcaster.Subscribe(context.Background(), model.VoteChannel(pinID))
		if err != nil {
			return "", nil, fmt.Errorf("failed to subscribe to pin %s: %w", pinID, err)
		}

		topic = &pinTopic{
			subscribers: make(map[string]chan model.VoteUpdate),
			cancel:      cancel,
			done:        make(chan struct{}),
		}
		uc.topics[pinID] = topic

		go uc.pump(pinID, topic, msgs)
	}

	id := uuid.New().String()
	ch := make(chan model.VoteUpdate, subscriberBuffer)
	topic.subscribers[id] = ch

	uc.log.Debug("subscriber attached",
		zap.String("pinId", pinID),
		zap.String("subscriberId", id),
		zap.Int("subscribers", len(topic.subscribers)))

	return id, ch, nil
}

// pump forwards upstream messages to every local subscriber. Sends are
// non-blocking so one stalled websocket cannot wedge the topic.
func (uc *realtimeUsecase) pump(pinID string, topic *pinTopic, msgs <-chan broadcast.Message) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var update model.VoteUpdate
			if err := json.Unmarshal(msg.Payload, &update); err != nil {
				uc.log.Warn("dropping malformed vote update", zap.String("pinId", pinID), zap.Error(err))
				continue
			}

			uc.mu.Lock()
			for id, ch := range topic.subscribers {
				select {
				case ch <- update:
				default:
					uc.log.Warn("dropping update for slow subscriber",
						zap.String("pinId", pinID),
						zap.String("subscriberId", id))
				}
			}
			uc.mu.Unlock()

		case <-topic.done:
			return
		}
	}
}

// Unsubscribe detaches a watcher; the last one out closes the upstream
// subscription.
func (uc *realtimeUsecase) Unsubscribe(pinID, subscriberID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	topic, ok := uc.topics[pinID]
	if !ok {
		return
	}

	ch, ok := topic.subscribers[subscriberID]
	if !ok {
		return
	}
	delete(topic.subscribers, subscriberID)
	close(ch)

	if len(topic.subscribers) == 0 {
		uc.closeTopicLocked(pinID, topic)
	}
}

// Stop tears everything down.
func (uc *realtimeUsecase) Stop() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for pinID, topic := range uc.topics {
		for id, ch := range topic.subscribers {
			delete(topic.subscribers, id)
			close(ch)
		}
		uc.closeTopicLocked(pinID, topic)
	}
}

func (uc *realtimeUsecase) closeTopicLocked(pinID string, topic *pinTopic) {
	close(topic.done)
	if err := topic.cancel(); err != nil {
		uc.log.Warn("failed to close upstream subscription", zap.String("pinId", pinID), zap.Error(err))
	}
	delete(uc.topics, pinID)
}
