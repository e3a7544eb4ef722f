package mongodb

import (
	"context"

	"pinstack/internal/boards/domain/model"
	sharederrors "pinstack/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBoardPinRepository implements BoardPinRepository using MongoDB.
type MongoBoardPinRepository struct {
	collection *mongo.Collection
}

// NewMongoBoardPinRepository creates a new MongoDB board-pin repository.
func NewMongoBoardPinRepository(db *mongo.Database) (*MongoBoardPinRepository, error) {
	repo := &MongoBoardPinRepository{
		collection: db.Collection("board_pins"),
	}

	// Unique index enforces the at-most-once-per-board invariant at the store.
	boardPinIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "boardId", Value: 1}, {Key: "pinId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(context.Background(), boardPinIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// AddPinToBoard inserts a join record. A duplicate key maps to the conflict error.
func (r *MongoBoardPinRepository) AddPinToBoard(ctx context.Context, bp *model.BoardPin) error {
	_, err := r.collection.InsertOne(ctx, bp)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sharederrors.ErrPinAlreadyOnBoard
		}
		return err
	}
	return nil
}

// GetBoardPin fetches the join record for (board, pin).
func (r *MongoBoardPinRepository) GetBoardPin(ctx context.Context, boardID, pinID string) (*model.BoardPin, error) {
	var bp model.BoardPin
	err := r.collection.FindOne(ctx, bson.M{"boardId": boardID, "pinId": pinID}).Decode(&bp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrNotFound
		}
		return nil, err
	}
	return &bp, nil
}

// ListBoardPins returns a board's pins in display order.
func (r *MongoBoardPinRepository) ListBoardPins(ctx context.Context, boardID string) ([]*model.BoardPin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"boardId": boardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pins []*model.BoardPin
	if err := cursor.All(ctx, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// MaxSortOrder returns the highest sortOrder on the board, 0 when empty.
func (r *MongoBoardPinRepository) MaxSortOrder(ctx context.Context, boardID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sortOrder", Value: -1}})

	var bp model.BoardPin
	err := r.collection.FindOne(ctx, bson.M{"boardId": boardID}, opts).Decode(&bp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return bp.SortOrder, nil
}

// RemovePinFromBoard deletes the join record.
func (r *MongoBoardPinRepository) RemovePinFromBoard(ctx context.Context, boardID, pinID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"boardId": boardID, "pinId": pinID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrNotFound
	}
	return nil
}

// RemovePinsForBoard deletes every join record for a board.
func (r *MongoBoardPinRepository) RemovePinsForBoard(ctx context.Context, boardID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"boardId": boardID})
	return err
}
