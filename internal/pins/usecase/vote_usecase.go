package usecase

import (
	"context"
	"encoding/json"

	"pinstack/internal/pins/domain/broadcast"
	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/domain/repository"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"go.uber.org/zap"
)

// VoteUsecase implements the vote toggle and read path. Toggles broadcast a
// vote_update to the pin's channel so every connected client converges on the
// same count.
type VoteUsecase interface {
	// ToggleVote flips the caller's vote and returns the resulting state.
	ToggleVote(ctx context.Context, pinID, userID string) (*model.VoteState, error)
	// GetVotes returns the current count and the caller's own flag. An empty
	// userID reads as an anonymous viewer.
	GetVotes(ctx context.Context, pinID, userID string) (*model.VoteState, error)
}

type voteUsecase struct {
	pins        repository.PinRepository
	broadcaster broadcast.Broadcaster
	bus         eventbus.EventBusInterface
	log         logger.Logger
}

// NewVoteUsecase creates a new vote usecase.
func NewVoteUsecase(
	pins repository.PinRepository,
	broadcaster broadcast.Broadcaster,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) VoteUsecase {
	return &voteUsecase{
		pins:        pins,
		broadcaster: broadcaster,
		bus:         bus,
		log:         log,
	}
}

// ToggleVote flips the caller's membership in the vote set. The store mutation
// is atomic; the broadcast afterwards is best effort and never fails the
// toggle, since the HTTP response already carries the authoritative state.
func (uc *voteUsecase) ToggleVote(ctx context.Context, pinID, userID string) (*model.VoteState, error) {
	state, action, err := uc.pins.ToggleVote(ctx, pinID, userID)
	if err != nil {
		return nil, err
	}

	update := model.VoteUpdate{
		Type:    model.VoteUpdateType,
		PinID:   pinID,
		Count:   state.Count,
		IsLiked: state.IsLiked,
		UserID:  userID,
		Action:  action,
	}

	if payload, err := json.Marshal(update); err != nil {
		uc.log.Error("failed to marshal vote update", zap.String("pinId", pinID), zap.Error(err))
	} else if err := uc.broadcaster.Publish(ctx, model.VoteChannel(pinID), payload); err != nil {
		uc.log.Warn("failed to broadcast vote update", zap.String("pinId", pinID), zap.Error(err))
	}

	eventType := eventbus.EventTypePinLiked
	if action == model.ActionUnliked {
		eventType = eventbus.EventTypePinUnliked
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEvent(eventType, update))

	return state, nil
}

// GetVotes reads the current vote state for the caller.
func (uc *voteUsecase) GetVotes(ctx context.Context, pinID, userID string) (*model.VoteState, error) {
	pin, err := uc.pins.GetPinByID(ctx, pinID)
	if err != nil {
		return nil, err
	}

	return &model.VoteState{
		PinID:   pinID,
		Count:   pin.LikeCount(),
		IsLiked: pin.IsLikedBy(userID),
	}, nil
}
