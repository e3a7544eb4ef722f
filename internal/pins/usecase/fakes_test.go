package usecase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pinstack/internal/pins/domain/broadcast"
	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
)

// fakePinRepo is an in-memory PinRepository that mirrors the Mongo adapter's
// behavior, including the feed composition semantics.
type fakePinRepo struct {
	mu   sync.Mutex
	pins map[string]*model.Pin
	// failFeed makes QueryFeed return an error, to exercise the unavailable
	// path.
	failFeed bool
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{pins: make(map[string]*model.Pin)}
}

func (r *fakePinRepo) CreatePin(ctx context.Context, pin *model.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *pin
	r.pins[pin.ID] = &cp
	return nil
}

func (r *fakePinRepo) GetPinByID(ctx context.Context, id string) (*model.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pin, ok := r.pins[id]
	if !ok {
		return nil, sharederrors.ErrPinNotFound
	}
	cp := *pin
	cp.LikedByUsers = append([]string(nil), pin.LikedByUsers...)
	return &cp, nil
}

func (r *fakePinRepo) GetPinsByIDs(ctx context.Context, ids []string) ([]*model.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Pin
	for _, id := range ids {
		if pin, ok := r.pins[id]; ok {
			cp := *pin
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePinRepo) UpdatePin(ctx context.Context, pin *model.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.pins[pin.ID]
	if !ok {
		return sharederrors.ErrPinNotFound
	}
	cp := *pin
	cp.LikedByUsers = stored.LikedByUsers
	r.pins[pin.ID] = &cp
	return nil
}

func (r *fakePinRepo) DeletePin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pins[id]; !ok {
		return sharederrors.ErrPinNotFound
	}
	delete(r.pins, id)
	return nil
}

func (r *fakePinRepo) ListPinsByUser(ctx context.Context, userID string) ([]*model.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Pin
	for _, pin := range r.pins {
		if pin.UserID == userID {
			cp := *pin
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePinRepo) QueryFeed(ctx context.Context, q repository.FeedQuery) ([]*model.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failFeed {
		return nil, errors.New("store offline")
	}

	var matched []*model.Pin
	for _, pin := range r.pins {
		if pin.Status != model.StatusPublished {
			continue
		}
		if q.Text != "" {
			text := strings.ToLower(q.Text)
			if !strings.Contains(strings.ToLower(pin.Title), text) &&
				!strings.Contains(strings.ToLower(pin.Description), text) &&
				!strings.Contains(strings.ToLower(pin.CodeSnippet), text) &&
				!strings.Contains(strings.ToLower(pin.Language), text) {
				continue
			}
		}
		if q.Language != "" && pin.Language != q.Language {
			continue
		}
		if len(q.Tags) > 0 && !tagsOverlap(pin.Tags, q.Tags) {
			continue
		}
		cp := *pin
		cp.LikedByUsers = append([]string(nil), pin.LikedByUsers...)
		matched = append(matched, &cp)
	}

	switch q.Sort {
	case repository.SortNewest:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case repository.SortMostVoted:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].LikeCount() != matched[j].LikeCount() {
				return matched[i].LikeCount() > matched[j].LikeCount()
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	default:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].LikeCount() != matched[j].LikeCount() {
				return matched[i].LikeCount() > matched[j].LikeCount()
			}
			if matched[i].ViewCount != matched[j].ViewCount {
				return matched[i].ViewCount > matched[j].ViewCount
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	if q.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func tagsOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r *fakePinRepo) ToggleVote(ctx context.Context, pinID, userID string) (*model.VoteState, model.VoteAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pin, ok := r.pins[pinID]
	if !ok {
		return nil, "", sharederrors.ErrPinNotFound
	}

	for i, id := range pin.LikedByUsers {
		if id == userID {
			pin.LikedByUsers = append(pin.LikedByUsers[:i], pin.LikedByUsers[i+1:]...)
			return &model.VoteState{PinID: pinID, Count: len(pin.LikedByUsers), IsLiked: false}, model.ActionUnliked, nil
		}
	}

	pin.LikedByUsers = append(pin.LikedByUsers, userID)
	return &model.VoteState{PinID: pinID, Count: len(pin.LikedByUsers), IsLiked: true}, model.ActionLiked, nil
}

func (r *fakePinRepo) IncrementViewCount(ctx context.Context, pinID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pin, ok := r.pins[pinID]
	if !ok {
		return sharederrors.ErrPinNotFound
	}
	pin.ViewCount++
	return nil
}

func (r *fakePinRepo) AdjustSaveCount(ctx context.Context, pinID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pin, ok := r.pins[pinID]
	if !ok {
		return sharederrors.ErrPinNotFound
	}
	pin.SaveCount += delta
	if pin.SaveCount < 0 {
		pin.SaveCount = 0
	}
	return nil
}

// memoryBroadcaster is an in-process Broadcaster for tests. Published payloads
// are recorded and fanned out to live subscriptions synchronously.
type memoryBroadcaster struct {
	mu        sync.Mutex
	published map[string][][]byte
	subs      map[string][]chan broadcast.Message
}

func newMemoryBroadcaster() *memoryBroadcaster {
	return &memoryBroadcaster{
		published: make(map[string][][]byte),
		subs:      make(map[string][]chan broadcast.Message),
	}
}

func (b *memoryBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := append([]byte(nil), payload...)
	b.published[channel] = append(b.published[channel], cp)
	for _, ch := range b.subs[channel] {
		select {
		case ch <- broadcast.Message{Channel: channel, Payload: cp}:
		default:
		}
	}
	return nil
}

func (b *memoryBroadcaster) Subscribe(ctx context.Context, channels ...string) (<-chan broadcast.Message, func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan broadcast.Message, 64)
	for _, channel := range channels {
		b.subs[channel] = append(b.subs[channel], ch)
	}

	cancel := func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, channel := range channels {
			kept := b.subs[channel][:0]
			for _, sub := range b.subs[channel] {
				if sub != ch {
					kept = append(kept, sub)
				}
			}
			b.subs[channel] = kept
		}
		close(ch)
		return nil
	}
	return ch, cancel, nil
}

func (b *memoryBroadcaster) Close() error { return nil }

func (b *memoryBroadcaster) publishedTo(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.published[channel]...)
}
