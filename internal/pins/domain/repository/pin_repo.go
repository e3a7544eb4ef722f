package repository

import (
	"context"

	"pinstack/internal/pins/domain/model"
)

// FeedSort selects the feed ordering.
type FeedSort string

const (
	SortNewest    FeedSort = "newest"
	SortMostVoted FeedSort = "most-voted"
	SortTrending  FeedSort = "trending"
)

// FeedQuery is the composed filter the feed endpoint executes against the
// store. All filters are conjunctive; zero values mean "no filter".
type FeedQuery struct {
	// Text matches title, description, code snippet or language, case
	// insensitive.
	Text string
	// Language is an exact match on the pin's language.
	Language string
	// Tags requires at least one tag in common with the pin.
	Tags []string
	Sort FeedSort
	// Offset/Limit window the result. Limit must be set by the caller.
	Offset int
	Limit  int
}

// PinRepository is the persistence port for pins, including the atomic vote
// set mutations.
type PinRepository interface {
	CreatePin(ctx context.Context, pin *model.Pin) error
	GetPinByID(ctx context.Context, id string) (*model.Pin, error)
	GetPinsByIDs(ctx context.Context, ids []string) ([]*model.Pin, error)
	UpdatePin(ctx context.Context, pin *model.Pin) error
	DeletePin(ctx context.Context, id string) error

	ListPinsByUser(ctx context.Context, userID string) ([]*model.Pin, error)

	// QueryFeed returns published pins matching the composed query.
	QueryFeed(ctx context.Context, q FeedQuery) ([]*model.Pin, error)

	// ToggleVote flips userID's membership in the pin's vote set with a single
	// atomic array mutation per direction, and returns the resulting state.
	ToggleVote(ctx context.Context, pinID, userID string) (*model.VoteState, model.VoteAction, error)

	IncrementViewCount(ctx context.Context, pinID string) error
	AdjustSaveCount(ctx context.Context, pinID string, delta int) error
}
