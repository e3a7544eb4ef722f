package usecase

import (
	"context"
	"fmt"
	"time"

	"pinstack/internal/boards/domain/client"
	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveUsecase records pin saves into boards, including the implicit personal
// "Saved" board created on first use.
type SaveUsecase interface {
	// SavePin saves a pin into boardID, or into the caller's "Saved" board when
	// boardID is empty. Duplicate saves per (user, pin, board) are a conflict.
	SavePin(ctx context.Context, userID, email, pinID, boardID string) (*model.PinSave, error)
	UnsavePin(ctx context.Context, userID, pinID, boardID string) error
	ListSaves(ctx context.Context, userID string) ([]*model.PinSave, error)
}

type saveUsecase struct {
	boards repository.BoardRepository
	saves  repository.SaveRepository
	board  BoardUsecase
	pins   client.PinClient
	bus    eventbus.EventBusInterface
	log    logger.Logger
}

// NewSaveUsecase creates a new save usecase.
func NewSaveUsecase(
	boards repository.BoardRepository,
	saves repository.SaveRepository,
	board BoardUsecase,
	pins client.PinClient,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) SaveUsecase {
	return &saveUsecase{
		boards: boards,
		saves:  saves,
		board:  board,
		pins:   pins,
		bus:    bus,
		log:    log,
	}
}

// SavePin records a PinSave, places the pin on the target board and bumps the
// pin's save counter.
func (uc *saveUsecase) SavePin(ctx context.Context, userID, email, pinID, boardID string) (*model.PinSave, error) {
	exists, err := uc.pins.PinExists(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pin: %w", err)
	}
	if !exists {
		return nil, sharederrors.ErrPinNotFound
	}

	if boardID == "" {
		board, err := uc.ensureSavedBoard(ctx, userID)
		if err != nil {
			return nil, err
		}
		boardID = board.ID
	}

	if existing, err := uc.saves.GetSave(ctx, userID, pinID, boardID); err == nil && existing != nil {
		return nil, sharederrors.ErrPinAlreadySaved
	} else if err != nil && err != sharederrors.ErrNotFound {
		return nil, err
	}

	save := &model.PinSave{
		ID:        uuid.New().String(),
		UserID:    userID,
		PinID:     pinID,
		BoardID:   boardID,
		CreatedAt: time.Now(),
	}

	if err := uc.saves.CreateSave(ctx, save); err != nil {
		return nil, fmt.Errorf("failed to create save: %w", err)
	}

	// Board placement is best-effort on top of the save record: the pin may
	// already be on the board through another collaborator.
	if _, err := uc.board.AddPinToBoard(ctx, boardID, pinID, userID, email); err != nil &&
		err != sharederrors.ErrPinAlreadyOnBoard {
		uc.log.WithContext(ctx).Warn("failed to place saved pin on board",
			zap.String("boardID", boardID),
			zap.String("pinID", pinID),
			zap.Error(err))
	}

	if err := uc.pins.AdjustSaveCount(ctx, pinID, 1); err != nil {
		uc.log.WithContext(ctx).Warn("failed to bump save count",
			zap.String("pinID", pinID),
			zap.Error(err))
	}

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypePinSaved,
		map[string]string{"pinId": pinID, "boardId": boardID, "userId": userID},
		"save_usecase",
	))

	return save, nil
}

// UnsavePin removes a save record and decrements the pin's save counter.
func (uc *saveUsecase) UnsavePin(ctx context.Context, userID, pinID, boardID string) error {
	if boardID == "" {
		board, err := uc.boards.GetBoardByOwnerAndName(ctx, userID, model.SavedBoardName)
		if err != nil {
			return sharederrors.ErrNotFound
		}
		boardID = board.ID
	}

	if err := uc.saves.DeleteSave(ctx, userID, pinID, boardID); err != nil {
		return err
	}

	if err := uc.pins.AdjustSaveCount(ctx, pinID, -1); err != nil {
		uc.log.WithContext(ctx).Warn("failed to decrement save count",
			zap.String("pinID", pinID),
			zap.Error(err))
	}

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypePinUnsaved,
		map[string]string{"pinId": pinID, "boardId": boardID, "userId": userID},
		"save_usecase",
	))

	return nil
}

// ListSaves returns the caller's save records.
func (uc *saveUsecase) ListSaves(ctx context.Context, userID string) ([]*model.PinSave, error) {
	return uc.saves.ListSavesForUser(ctx, userID)
}

// ensureSavedBoard finds or creates the caller's implicit personal board.
func (uc *saveUsecase) ensureSavedBoard(ctx context.Context, userID string) (*model.Board, error) {
	board, err := uc.boards.GetBoardByOwnerAndName(ctx, userID, model.SavedBoardName)
	if err == nil {
		return board, nil
	}
	if err != sharederrors.ErrBoardNotFound {
		return nil, err
	}

	now := time.Now()
	board = &model.Board{
		ID:        uuid.New().String(),
		Name:      model.SavedBoardName,
		IsPublic:  false,
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.boards.CreateBoard(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create saved board: %w", err)
	}
	return board, nil
}
