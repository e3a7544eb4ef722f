package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PinSave records that a user saved a pin into a board (including the implicit
// personal "Saved" board). Unique per (userId, pinId, boardId).
type PinSave struct {
	ID        string             `json:"id" bson:"id,omitempty"`
	ObjectID  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	PinID     string             `json:"pinId" bson:"pinId"`
	BoardID   string             `json:"boardId" bson:"boardId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
