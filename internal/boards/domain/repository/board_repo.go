package repository

import (
	"context"

	"pinstack/internal/boards/domain/model"
)

// BoardRepository defines the interface for board persistence.
type BoardRepository interface {
	CreateBoard(ctx context.Context, board *model.Board) error
	GetBoardByID(ctx context.Context, id string) (*model.Board, error)
	GetBoardsByOwner(ctx context.Context, ownerID string) ([]*model.Board, error)
	GetBoardByOwnerAndName(ctx context.Context, ownerID, name string) (*model.Board, error)
	UpdateBoard(ctx context.Context, board *model.Board) error
	DeleteBoard(ctx context.Context, id string) error
}

// CollaboratorRepository defines the interface for collaborator persistence.
type CollaboratorRepository interface {
	CreateCollaborator(ctx context.Context, collab *model.Collaborator) error
	GetCollaboratorByID(ctx context.Context, id string) (*model.Collaborator, error)
	GetCollaboratorByBoardAndUser(ctx context.Context, boardID, userID string) (*model.Collaborator, error)
	GetCollaboratorByBoardAndEmail(ctx context.Context, boardID, email string) (*model.Collaborator, error)
	ListCollaborators(ctx context.Context, boardID string) ([]*model.Collaborator, error)
	ListCollaborationsForUser(ctx context.Context, userID, email string) ([]*model.Collaborator, error)
	UpdateCollaborator(ctx context.Context, collab *model.Collaborator) error
	LinkUserID(ctx context.Context, collabID, userID string) error
	DeleteCollaborator(ctx context.Context, id string) error
	DeleteCollaboratorsForBoard(ctx context.Context, boardID string) error
}

// BoardPinRepository defines the interface for board-pin join persistence.
type BoardPinRepository interface {
	AddPinToBoard(ctx context.Context, bp *model.BoardPin) error
	GetBoardPin(ctx context.Context, boardID, pinID string) (*model.BoardPin, error)
	ListBoardPins(ctx context.Context, boardID string) ([]*model.BoardPin, error)
	MaxSortOrder(ctx context.Context, boardID string) (int, error)
	RemovePinFromBoard(ctx context.Context, boardID, pinID string) error
	RemovePinsForBoard(ctx context.Context, boardID string) error
}

// SaveRepository defines the interface for pin-save persistence.
type SaveRepository interface {
	CreateSave(ctx context.Context, save *model.PinSave) error
	GetSave(ctx context.Context, userID, pinID, boardID string) (*model.PinSave, error)
	ListSavesForUser(ctx context.Context, userID string) ([]*model.PinSave, error)
	DeleteSave(ctx context.Context, userID, pinID, boardID string) error
}
