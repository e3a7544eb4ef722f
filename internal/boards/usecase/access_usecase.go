package usecase

import (
	"context"
	"strings"

	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"

	"go.uber.org/zap"
)

// AccessUsecase computes the access descriptor for a (board, user) pair. It is
// the single authorization predicate consumed by every board and pin handler
// instead of each route re-deriving the owner-or-editor check inline.
type AccessUsecase interface {
	// Resolve returns the board and the caller's access descriptor. A missing
	// board yields ErrBoardNotFound; an empty userID resolves as an anonymous
	// viewer (public or none). Callers must map AccessNone to 403.
	Resolve(ctx context.Context, boardID, userID, email string) (*model.Board, model.BoardAccess, error)
}

type accessUsecase struct {
	boards  repository.BoardRepository
	collabs repository.CollaboratorRepository
	log     logger.Logger
}

// NewAccessUsecase creates a new access resolution usecase.
func NewAccessUsecase(
	boards repository.BoardRepository,
	collabs repository.CollaboratorRepository,
	log logger.Logger,
) AccessUsecase {
	return &accessUsecase{
		boards:  boards,
		collabs: collabs,
		log:     log,
	}
}

// Resolve implements the owner/collaborator/public lattice. The email fallback
// reconciles invites issued before the invitee had an account: the first
// authenticated visit patches the pending record's userId in place, so the
// owner never has to re-invite. Re-running the link is a no-op.
func (uc *accessUsecase) Resolve(ctx context.Context, boardID, userID, email string) (*model.Board, model.BoardAccess, error) {
	board, err := uc.boards.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, model.BoardAccess{Level: model.AccessNone}, err
	}

	isOwner := userID != "" && board.OwnerID == userID

	var record *model.Collaborator
	if userID != "" {
		record, err = uc.collabs.GetCollaboratorByBoardAndUser(ctx, boardID, userID)
		if err != nil && err != sharederrors.ErrCollaboratorNotFound {
			return nil, model.BoardAccess{Level: model.AccessNone}, err
		}
	}

	if record == nil && email != "" {
		// Email-matched record wins over a possibly stale userId linkage:
		// last-authenticated-identity takes precedence.
		record, err = uc.collabs.GetCollaboratorByBoardAndEmail(ctx, boardID, strings.ToLower(strings.TrimSpace(email)))
		if err != nil && err != sharederrors.ErrCollaboratorNotFound {
			return nil, model.BoardAccess{Level: model.AccessNone}, err
		}
		if record != nil && userID != "" && record.UserID != userID {
			if linkErr := uc.collabs.LinkUserID(ctx, record.ID, userID); linkErr != nil {
				uc.log.WithContext(ctx).Error("failed to link collaborator to user",
					zap.String("collaboratorID", record.ID),
					zap.String("boardID", boardID),
					zap.Error(linkErr))
				return nil, model.BoardAccess{Level: model.AccessNone}, linkErr
			}
			record.UserID = userID
		}
	}

	isCollaborator := record != nil && record.IsActive()

	access := model.BoardAccess{
		IsOwner:                isOwner,
		IsCollaborator:         isCollaborator,
		CanManageCollaborators: isOwner,
		Collaborator:           record,
	}

	switch {
	case isOwner:
		access.Level = model.AccessOwner
	case isCollaborator && record.Status == model.StatusAccepted:
		access.Level = model.AccessCollaborator
	case isCollaborator && record.Status == model.StatusPending:
		access.Level = model.AccessPending
	case board.IsPublic:
		access.Level = model.AccessPublic
	default:
		access.Level = model.AccessNone
	}

	access.CanEdit = isOwner ||
		(isCollaborator && record.Status == model.StatusAccepted && record.Role == model.RoleEditor)

	return board, access, nil
}
