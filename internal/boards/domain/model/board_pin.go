package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardPin is the join record placing a pin on a board. A pin appears at most
// once per board; sortOrder is assigned max+1 on insertion, no reindexing.
type BoardPin struct {
	ObjectID  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	BoardID   string             `json:"boardId" bson:"boardId"`
	PinID     string             `json:"pinId" bson:"pinId"`
	SortOrder int                `json:"sortOrder" bson:"sortOrder"`
	AddedBy   string             `json:"addedBy" bson:"addedBy"`
	AddedAt   time.Time          `json:"addedAt" bson:"addedAt"`
}
