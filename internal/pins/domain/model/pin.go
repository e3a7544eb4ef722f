package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PinStatus is the publication state of a pin. Only published pins appear in
// the public feed.
type PinStatus string

const (
	StatusDraft     PinStatus = "draft"
	StatusPending   PinStatus = "pending"
	StatusPublished PinStatus = "published"
	StatusArchived  PinStatus = "archived"
)

// Pin is a code or UI snippet card. LikedByUsers is the authoritative vote set;
// the numeric Likes field survives from documents written before the set was
// introduced and only matters when LikedByUsers is absent.
type Pin struct {
	ID          string             `bson:"id" json:"id"`
	ObjectID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Language    string             `bson:"language" json:"language"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CodeSnippet string             `bson:"codeSnippet,omitempty" json:"codeSnippet,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SourceURL   string             `bson:"sourceUrl,omitempty" json:"sourceUrl,omitempty"`
	UserID      string             `bson:"userId" json:"userId"`
	Status      PinStatus          `bson:"status" json:"status"`

	LikedByUsers []string `bson:"likedByUsers,omitempty" json:"-"`
	Likes        int      `bson:"likes,omitempty" json:"-"`

	ViewCount int `bson:"viewCount" json:"viewCount"`
	SaveCount int `bson:"saveCount" json:"saveCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LikeCount returns the vote total, falling back to the legacy counter for
// documents that predate the per-user set.
func (p *Pin) LikeCount() int {
	if p.LikedByUsers != nil {
		return len(p.LikedByUsers)
	}
	return p.Likes
}

// IsLikedBy reports whether userID is in the vote set.
func (p *Pin) IsLikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range p.LikedByUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ValidateFields validates the pin document before persistence.
func (p *Pin) ValidateFields() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("pin id cannot be empty")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("pin title cannot be empty")
	}
	if len(p.Title) > 200 {
		return fmt.Errorf("pin title cannot exceed 200 characters")
	}
	if strings.TrimSpace(p.Language) == "" {
		return fmt.Errorf("pin language cannot be empty")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("pin author cannot be empty")
	}
	switch p.Status {
	case StatusDraft, StatusPending, StatusPublished, StatusArchived:
	default:
		return fmt.Errorf("invalid pin status: %s", p.Status)
	}
	return nil
}
