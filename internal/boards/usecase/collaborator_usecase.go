package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinstack/internal/boards/domain/model"
	"pinstack/internal/boards/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InviteRequest carries the fields for inviting a collaborator by email.
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CollaboratorUsecase implements the invite lifecycle: invite by email while
// the invitee may not yet have an account, accept/decline on first visit,
// remove by the owner at any time.
type CollaboratorUsecase interface {
	ListCollaborators(ctx context.Context, boardID, userID, email string) ([]*model.Collaborator, error)
	InviteCollaborator(ctx context.Context, boardID, userID string, req InviteRequest) (*model.Collaborator, error)
	RemoveCollaborator(ctx context.Context, boardID, collabID, userID string) error
	AcceptInvite(ctx context.Context, boardID, userID, email string) (*model.Collaborator, error)
	DeclineInvite(ctx context.Context, boardID, userID, email string) error
}

type collaboratorUsecase struct {
	boards  repository.BoardRepository
	collabs repository.CollaboratorRepository
	access  AccessUsecase
	bus     eventbus.EventBusInterface
	log     logger.Logger
}

// NewCollaboratorUsecase creates a new collaborator usecase.
func NewCollaboratorUsecase(
	boards repository.BoardRepository,
	collabs repository.CollaboratorRepository,
	access AccessUsecase,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) CollaboratorUsecase {
	return &collaboratorUsecase{
		boards:  boards,
		collabs: collabs,
		access:  access,
		bus:     bus,
		log:     log,
	}
}

// ListCollaborators returns the board's collaborator records. Owners and
// collaborators (accepted or pending) may list.
func (uc *collaboratorUsecase) ListCollaborators(ctx context.Context, boardID, userID, email string) ([]*model.Collaborator, error) {
	_, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner && !access.IsCollaborator {
		return nil, sharederrors.ErrBoardAccessDenied
	}

	return uc.collabs.ListCollaborators(ctx, boardID)
}

// InviteCollaborator creates a pending record for the given email. Only the
// owner may invite; a second active record for the same (board, email) is a
// conflict.
func (uc *collaboratorUsecase) InviteCollaborator(ctx context.Context, boardID, userID string, req InviteRequest) (*model.Collaborator, error) {
	board, err := uc.boards.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, sharederrors.ErrNotBoardOwner
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, sharederrors.NewValidationError("email is required")
	}

	role := model.CollaboratorRole(req.Role)
	if role == "" {
		role = model.RoleViewer
	}

	existing, err := uc.collabs.GetCollaboratorByBoardAndEmail(ctx, boardID, email)
	if err != nil && err != sharederrors.ErrCollaboratorNotFound {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, sharederrors.ErrCollaboratorExists
	}

	collab := &model.Collaborator{
		ID:        uuid.New().String(),
		BoardID:   boardID,
		Email:     email,
		Role:      role,
		Status:    model.StatusPending,
		InvitedAt: time.Now(),
	}

	if err := collab.ValidateFields(); err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	if err := uc.collabs.CreateCollaborator(ctx, collab); err != nil {
		return nil, fmt.Errorf("failed to create collaborator: %w", err)
	}

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeCollaboratorInvited,
		map[string]string{"boardId": boardID, "email": email, "role": string(role)},
		"collaborator_usecase",
	))

	return collab, nil
}

// RemoveCollaborator deletes a collaborator record. Only the owner may remove.
func (uc *collaboratorUsecase) RemoveCollaborator(ctx context.Context, boardID, collabID, userID string) error {
	board, err := uc.boards.GetBoardByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		return sharederrors.ErrNotBoardOwner
	}

	collab, err := uc.collabs.GetCollaboratorByID(ctx, collabID)
	if err != nil {
		return err
	}
	if collab.BoardID != boardID {
		return sharederrors.ErrCollaboratorNotFound
	}

	return uc.collabs.DeleteCollaborator(ctx, collabID)
}

// AcceptInvite transitions the caller's pending record to accepted, back-filling
// the userId. The record is found through the access resolver so the
// link-by-email migration runs first.
func (uc *collaboratorUsecase) AcceptInvite(ctx context.Context, boardID, userID, email string) (*model.Collaborator, error) {
	_, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return nil, err
	}
	if access.Collaborator == nil {
		return nil, sharederrors.ErrCollaboratorNotFound
	}

	collab := access.Collaborator
	if collab.Status == model.StatusAccepted {
		return collab, nil // already accepted, idempotent
	}
	if collab.Status != model.StatusPending {
		return nil, sharederrors.ErrCollaboratorNotFound
	}

	now := time.Now()
	collab.Status = model.StatusAccepted
	collab.AcceptedAt = &now
	collab.UserID = userID

	if err := uc.collabs.UpdateCollaborator(ctx, collab); err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	uc.log.WithContext(ctx).Info("collaboration invite accepted",
		zap.String("boardID", boardID),
		zap.String("userID", userID))

	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeInviteAccepted,
		map[string]string{"boardId": boardID, "userId": userID},
		"collaborator_usecase",
	))

	return collab, nil
}

// DeclineInvite transitions the caller's pending record to declined.
func (uc *collaboratorUsecase) DeclineInvite(ctx context.Context, boardID, userID, email string) error {
	_, access, err := uc.access.Resolve(ctx, boardID, userID, email)
	if err != nil {
		return err
	}
	if access.Collaborator == nil || access.Collaborator.Status != model.StatusPending {
		return sharederrors.ErrCollaboratorNotFound
	}

	collab := access.Collaborator
	collab.Status = model.StatusDeclined
	collab.UserID = userID

	return uc.collabs.UpdateCollaborator(ctx, collab)
}
