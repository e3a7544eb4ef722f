package usecase

import (
	"context"
	"fmt"
	"time"

	"pinstack/internal/boards/domain/client"
	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBoardRequest carries the fields accepted on board creation.
type CreateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}

// UpdateBoardRequest carries the mutable board fields. Nil pointers mean
// "leave unchanged".
type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// BoardView is a board plus its pins in sort order and the caller's resolved
// access descriptor.
type BoardView struct {
	Board  *model.Board        `json:"board"`
	Pins   []client.PinSummary `json:"pins"`
	Access model.BoardAccess   `json:"access"`
}

// BoardUsecase implements board CRUD and board-pin membership.
type BoardUsecase interface {
	CreateBoard(ctx context.Context, ownerID string, req CreateBoardRequest) (*model.Board, error)
	GetBoard(ctx context.Context, boardID, userID, email string) (*BoardView, error)
	ListBoards(ctx context.Context, userID, email string) ([]*model.Board, error)
	UpdateBoard(ctx context.Context, boardID, userID, email string, req UpdateBoardRequest) (*model.Board, error)
	DeleteBoard(ctx context.Context, boardID, userID string) error

	AddPinToBoard(ctx context.Context, boardID, pinID, userID, email string) (*model.BoardPin, error)
	RemovePinFromBoard(ctx context.Context, boardID, pinID, userID, email string) error
}

type boardUsecase struct {
	boards    repository.BoardRepository
	collabs   repository.CollaboratorRepository
	boardPins repository.BoardPinRepository
	access    AccessUsecase
	pins      client.PinClient
	log       logger.Logger
}

// NewBoardUsecase creates a new board usecase.
func NewBoardUsecase(
	boards repository.BoardRepository,
	collabs repository.CollaboratorRepository,
	boardPins repository.BoardPinRepository,
	access AccessUsecase,
	pins client.PinClient,
	log logger.Logger,
) BoardUsecase {
	return &boardUsecase{
		boards:    boards,
		collabs:   collabs,
		boardPins: boardPins,
		access:    access,
		pins:      pins,
		log:       log,
	}
}

// CreateBoard creates a board owned by the caller.
func (uc *boardUsecase) CreateBoard(ctx context.Context, ownerID string, req CreateBoardRequest) (*model.Board, error) {
	now := time.Now()
	board := &model.Board{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := board.ValidateFields(); err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	if err := uc.boards.CreateBoard(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// GetBoard returns the board view for the caller, or ErrBoardAccessDenied when
// the resolved access level is none.
func (uc *boardUsecase) GetBoard(ctx context.Context, boardID, userID, email string) (*BoardView, error) {
	board, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return nil, err
	}
	if !access.Granted() {
		return nil, sharederrors.ErrBoardAccessDenied
	}

	entries, err := uc.boardPins.ListBoardPins(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list board pins: %w", err)
	}

	pinIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		pinIDs = append(pinIDs, e.PinID)
	}

	pins, err := uc.pins.GetPinSummaries(ctx, pinIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pins for board: %w", err)
	}

	return &BoardView{Board: board, Pins: pins, Access: access}, nil
}

// ListBoards returns the boards the caller owns plus those shared with them.
func (uc *boardUsecase) ListBoards(ctx context.Context, userID, email string) ([]*model.Board, error) {
	owned, err := uc.boards.GetBoardsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned boards: %w", err)
	}

	collabRecords, err := uc.collabs.ListCollaborationsForUser(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborations: %w", err)
	}

	seen := make(map[string]bool, len(owned))
	for _, b := range owned {
		seen[b.ID] = true
	}

	result := owned
	for _, rec := range collabRecords {
		if !rec.IsActive() || seen[rec.BoardID] {
			continue
		}
		board, err := uc.boards.GetBoardByID(ctx, rec.BoardID)
		if err != nil {
			if err == sharederrors.ErrBoardNotFound {
				continue // board deleted out from under the invite
			}
			return nil, err
		}
		seen[board.ID] = true
		result = append(result, board)
	}

	return result, nil
}

// UpdateBoard applies partial updates; requires edit capability.
func (uc *boardUsecase) UpdateBoard(ctx context.Context, boardID, userID, email string, req UpdateBoardRequest) (*model.Board, error) {
	board, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit {
		return nil, sharederrors.ErrBoardAccessDenied
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.IsPublic != nil {
		board.IsPublic = *req.IsPublic
	}
	board.UpdatedAt = time.Now()

	if err := board.ValidateFields(); err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	if err := uc.boards.UpdateBoard(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// DeleteBoard removes a board and its dependent records. Only the owner may
// delete.
func (uc *boardUsecase) DeleteBoard(ctx context.Context, boardID, userID string) error {
	board, err := uc.boards.GetBoardByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		return sharederrors.ErrNotBoardOwner
	}

	if err := uc.boardPins.RemovePinsForBoard(ctx, boardID); err != nil {
		return fmt.Errorf("failed to remove board pins: %w", err)
	}
	if err := uc.collabs.DeleteCollaboratorsForBoard(ctx, boardID); err != nil {
		return fmt.Errorf("failed to remove collaborators: %w", err)
	}
	if err := uc.boards.DeleteBoard(ctx, boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	uc.log.WithContext(ctx).Info("board deleted",
		zap.String("boardID", boardID),
		zap.String("ownerID", userID))
	return nil
}

// AddPinToBoard places a pin on a board at sortOrder max+1. Duplicate
// placements return ErrPinAlreadyOnBoard.
func (uc *boardUsecase) AddPinToBoard(ctx context.Context, boardID, pinID, userID, email string) (*model.BoardPin, error) {
	_, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit {
		return nil, sharederrors.ErrBoardAccessDenied
	}

	exists, err := uc.pins.PinExists(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pin: %w", err)
	}
	if !exists {
		return nil, sharederrors.ErrPinNotFound
	}

	if existing, err := uc.boardPins.GetBoardPin(ctx, boardID, pinID); err == nil && existing != nil {
		return nil, sharederrors.ErrPinAlreadyOnBoard
	} else if err != nil && err != sharederrors.ErrNotFound {
		return nil, err
	}

	maxOrder, err := uc.boardPins.MaxSortOrder(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sort order: %w", err)
	}

	bp := &model.BoardPin{
		BoardID:   boardID,
		PinID:     pinID,
		SortOrder: maxOrder + 1,
		AddedBy:   userID,
		AddedAt:   time.Now(),
	}

	if err := uc.boardPins.AddPinToBoard(ctx, bp); err != nil {
		return nil, fmt.Errorf("failed to add pin to board: %w", err)
	}

	return bp, nil
}

// RemovePinFromBoard removes a pin from a board; requires edit capability.
func (uc *boardUsecase) RemovePinFromBoard(ctx context.Context, boardID, pinID, userID, email string) error {
	_, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return err
	}
	if !access.CanEdit {
		return sharederrors.ErrBoardAccessDenied
	}

	return uc.boardPins.RemovePinFromBoard(ctx, boardID, pinID)
}
