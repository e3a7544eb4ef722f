package usecase

import (
	"context"
	"fmt"
	"time"

	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/domain/repository"
	sharederrors "pinstack/internal/shared/errors"
	"pinstack/internal/shared/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePinRequest carries the fields accepted on pin creation.
type CreatePinRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags,omitempty"`
	CodeSnippet string   `json:"codeSnippet,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	SourceURL   string   `json:"sourceUrl,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// UpdatePinRequest carries the mutable pin fields. Nil pointers mean "leave
// unchanged".
type UpdatePinRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Language    *string   `json:"language,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	CodeSnippet *string   `json:"codeSnippet,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	SourceURL   *string   `json:"sourceUrl,omitempty"`
	Status      *string   `json:"status,omitempty"`
}

// PinView is a pin enriched with the viewer-dependent vote fields.
type PinView struct {
	*model.Pin
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}

// NewPinView builds the response shape for a given viewer. An anonymous viewer
// always sees isLiked=false.
func NewPinView(pin *model.Pin, viewerID string) *PinView {
	return &PinView{
		Pin:       pin,
		LikeCount: pin.LikeCount(),
		IsLiked:   pin.IsLikedBy(viewerID),
	}
}

// PinUsecase implements pin CRUD.
type PinUsecase interface {
	CreatePin(ctx context.Context, authorID string, req CreatePinRequest) (*model.Pin, error)
	// GetPin returns the viewer's pin view and bumps the view counter.
	GetPin(ctx context.Context, pinID, viewerID string) (*PinView, error)
	UpdatePin(ctx context.Context, pinID, userID string, req UpdatePinRequest) (*model.Pin, error)
	DeletePin(ctx context.Context, pinID, userID string) error
	ListUserPins(ctx context.Context, userID, viewerID string) ([]*PinView, error)
}

type pinUsecase struct {
	pins repository.PinRepository
	log  logger.Logger
}

// NewPinUsecase creates a new pin usecase.
func NewPinUsecase(pins repository.PinRepository, log logger.Logger) PinUsecase {
	return &pinUsecase{pins: pins, log: log}
}

// CreatePin creates a pin authored by the caller. Status defaults to published.
func (uc *pinUsecase) CreatePin(ctx context.Context, authorID string, req CreatePinRequest) (*model.Pin, error) {
	status := model.StatusPublished
	if req.Status != "" {
		status = model.PinStatus(req.Status)
	}

	now := time.Now()
	pin := &model.Pin{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Language:     req.Language,
		Tags:         req.Tags,
		CodeSnippet:  req.CodeSnippet,
		ImageURL:     req.ImageURL,
		SourceURL:    req.SourceURL,
		UserID:       authorID,
		Status:       status,
		LikedByUsers: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := pin.ValidateFields(); err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	if err := uc.pins.CreatePin(ctx, pin); err != nil {
		return nil, fmt.Errorf("failed to create pin: %w", err)
	}

	uc.log.Info("pin created", zap.String("pinId", pin.ID), zap.String("userId", authorID))
	return pin, nil
}

// GetPin returns the pin for the viewer. The view counter bump is best effort;
// a failed bump never fails the read.
func (uc *pinUsecase) GetPin(ctx context.Context, pinID, viewerID string) (*PinView, error) {
	pin, err := uc.pins.GetPinByID(ctx, pinID)
	if err != nil {
		return nil, err
	}

	// Unpublished pins exist only for their author; everyone else sees a 404,
	// never a 403.
	if pin.Status != model.StatusPublished && pin.UserID != viewerID {
		return nil, sharederrors.ErrPinNotFound
	}

	if err := uc.pins.IncrementViewCount(ctx, pinID); err != nil {
		uc.log.Warn("failed to bump view count", zap.String("pinId", pinID), zap.Error(err))
	} else {
		pin.ViewCount++
	}

	return NewPinView(pin, viewerID), nil
}

// UpdatePin applies partial updates; author only.
func (uc *pinUsecase) UpdatePin(ctx context.Context, pinID, userID string, req UpdatePinRequest) (*model.Pin, error) {
	pin, err := uc.pins.GetPinByID(ctx, pinID)
	if err != nil {
		return nil, err
	}
	if pin.UserID != userID {
		return nil, sharederrors.NewAuthorizationError("only the author can modify this pin")
	}

	if req.Title != nil {
		pin.Title = *req.Title
	}
	if req.Description != nil {
		pin.Description = *req.Description
	}
	if req.Language != nil {
		pin.Language = *req.Language
	}
	if req.Tags != nil {
		pin.Tags = *req.Tags
	}
	if req.CodeSnippet != nil {
		pin.CodeSnippet = *req.CodeSnippet
	}
	if req.ImageURL != nil {
		pin.ImageURL = *req.ImageURL
	}
	if req.SourceURL != nil {
		pin.SourceURL = *req.SourceURL
	}
	if req.Status != nil {
		pin.Status = model.PinStatus(*req.Status)
	}
	pin.UpdatedAt = time.Now()

	if err := pin.ValidateFields(); err != nil {
		return nil, sharederrors.NewValidationError(err.Error())
	}

	if err := uc.pins.UpdatePin(ctx, pin); err != nil {
		return nil, fmt.Errorf("failed to update pin: %w", err)
	}
	return pin, nil
}

// DeletePin removes a pin; author only.
func (uc *pinUsecase) DeletePin(ctx context.Context, pinID, userID string) error {
	pin, err := uc.pins.GetPinByID(ctx, pinID)
	if err != nil {
		return err
	}
	if pin.UserID != userID {
		return sharederrors.NewAuthorizationError("only the author can delete this pin")
	}

	return uc.pins.DeletePin(ctx, pinID)
}

// ListUserPins returns a user's pins. Viewers other than the author only see
// published pins.
func (uc *pinUsecase) ListUserPins(ctx context.Context, userID, viewerID string) ([]*PinView, error) {
	pins, err := uc.pins.ListPinsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*PinView, 0, len(pins))
	for _, pin := range pins {
		if pin.Status != model.StatusPublished && viewerID != userID {
			continue
		}
		views = append(views, NewPinView(pin, viewerID))
	}
	return views, nil
}
