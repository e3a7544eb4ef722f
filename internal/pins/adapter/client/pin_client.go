package client

import (
	"context"

	boardsclient "pinstack/internal/boards/domain/client"
	"pinstack/internal/pins/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
)

// PinClientAdapter implements the boards module's PinClient port on top of the
// pin repository.
type PinClientAdapter struct {
	pins repository.PinRepository
}

// NewPinClientAdapter creates a new adapter for the boards module.
func NewPinClientAdapter(pins repository.PinRepository) *PinClientAdapter {
	return &PinClientAdapter{pins: pins}
}

// PinExists reports whether the pin exists, any status.
func (a *PinClientAdapter) PinExists(ctx context.Context, pinID string) (bool, error) {
	_, err := a.pins.GetPinByID(ctx, pinID)
	if err != nil {
		if sharederrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPinSummaries fetches display data for the given pin ids, preserving input
// order and skipping ids that no longer resolve.
func (a *PinClientAdapter) GetPinSummaries(ctx context.Context, pinIDs []string) ([]boardsclient.PinSummary, error) {
	pins, err := a.pins.GetPinsByIDs(ctx, pinIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]boardsclient.PinSummary, 0, len(pins))
	for _, pin := range pins {
		summaries = append(summaries, boardsclient.PinSummary{
			ID:          pin.ID,
			Title:       pin.Title,
			Description: pin.Description,
			Language:    pin.Language,
			Tags:        pin.Tags,
			ImageURL:    pin.ImageURL,
			AuthorID:    pin.UserID,
			LikeCount:   pin.LikeCount(),
			SaveCount:   pin.SaveCount,
		})
	}
	return summaries, nil
}

// AdjustSaveCount applies a +1/-1 delta to the pin's save counter.
func (a *PinClientAdapter) AdjustSaveCount(ctx context.Context, pinID string, delta int) error {
	return a.pins.AdjustSaveCount(ctx, pinID, delta)
}
