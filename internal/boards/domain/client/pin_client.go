package client

import "context"

// PinSummary is the slice of pin data the boards module needs when composing a
// board view. The full pin model lives in the pins module.
type PinSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	AuthorID    string   `json:"authorId"`
	LikeCount   int      `json:"likeCount"`
	SaveCount   int      `json:"saveCount"`
}

// PinClient decouples the boards module from the pins module. Implemented by an
// adapter over the pins usecase and faked in tests.
type PinClient interface {
	// PinExists reports whether the pin exists at all (any status).
	PinExists(ctx context.Context, pinID string) (bool, error)
	// GetPinSummaries fetches display data for the given pin ids, preserving
	// input order and skipping ids that no longer resolve.
	GetPinSummaries(ctx context.Context, pinIDs []string) ([]PinSummary, error)
	// AdjustSaveCount applies a +1/-1 delta to the pin's save counter.
	AdjustSaveCount(ctx context.Context, pinID string, delta int) error
}
