package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollaboratorRole determines what an accepted collaborator may do on a board.
type CollaboratorRole string

const (
	RoleViewer CollaboratorRole = "viewer"
	RoleEditor CollaboratorRole = "editor"
)

// CollaboratorStatus tracks the invite lifecycle.
type CollaboratorStatus string

const (
	StatusPending  CollaboratorStatus = "pending"
	StatusAccepted CollaboratorStatus = "accepted"
	StatusDeclined CollaboratorStatus = "declined"
)

// Collaborator represents a user (or pending email) granted access to a board.
// The record is identified primarily by email until a userId is linked; at most
// one active record exists per (boardId, email).
type Collaborator struct {
	ID         string             `json:"id" bson:"id,omitempty"`
	ObjectID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	BoardID    string             `json:"boardId" bson:"boardId"`
	UserID     string             `json:"userId,omitempty" bson:"userId,omitempty"`
	Email      string             `json:"email" bson:"email"`
	Role       CollaboratorRole   `json:"role" bson:"role"`
	Status     CollaboratorStatus `json:"status" bson:"status"`
	InvitedAt  time.Time          `json:"invitedAt" bson:"invitedAt"`
	AcceptedAt *time.Time         `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
}

// ValidateFields checks structural invariants before persistence.
func (c *Collaborator) ValidateFields() error {
	if c.BoardID == "" {
		return errors.New("boardId is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("email is required")
	}
	if c.Role != RoleViewer && c.Role != RoleEditor {
		return errors.New("role must be viewer or editor")
	}
	return nil
}

// IsActive reports whether the record still counts toward the
// one-active-record-per-(boardId,email) invariant.
func (c *Collaborator) IsActive() bool {
	return c.Status == StatusPending || c.Status == StatusAccepted
}
