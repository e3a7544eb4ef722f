package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Board represents a named, ordered collection of pins owned by one user.
type Board struct {
	ID          string             `json:"id" bson:"id,omitempty"`
	ObjectID    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	IsPublic    bool               `json:"isPublic" bson:"isPublic"`
	OwnerID     string             `json:"ownerId" bson:"ownerId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SavedBoardName is the name of the implicit personal board created on first save.
const SavedBoardName = "Saved"

// ValidateFields checks structural invariants before persistence.
func (b *Board) ValidateFields() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("board name is required")
	}
	if b.OwnerID == "" {
		return errors.New("board owner is required")
	}
	return nil
}

// AccessLevel describes the caller's relationship to a board. Levels are
// ordered: owner > collaborator > pending > public > none.
type AccessLevel string

const (
	AccessOwner        AccessLevel = "owner"
	AccessCollaborator AccessLevel = "collaborator"
	AccessPending      AccessLevel = "pending"
	AccessPublic       AccessLevel = "public"
	AccessNone         AccessLevel = "none"
)

// BoardAccess is the access descriptor computed for a (board, user) pair.
type BoardAccess struct {
	Level                  AccessLevel   `json:"accessLevel"`
	IsOwner                bool          `json:"isOwner"`
	IsCollaborator         bool          `json:"isCollaborator"`
	CanEdit                bool          `json:"canEdit"`
	CanManageCollaborators bool          `json:"canManageCollaborators"`
	Collaborator           *Collaborator `json:"collaborator,omitempty"`
}

// Granted reports whether the descriptor allows viewing the board at all.
func (a BoardAccess) Granted() bool {
	return a.Level != AccessNone
}
