package mongodb

import (
	"context"
	"time"

	"pinstack/internal/boards/domain/model"
	sharederrors "pinstack/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBoardRepository implements BoardRepository using MongoDB.
type MongoBoardRepository struct {
	collection *mongo.Collection
}

// NewMongoBoardRepository creates a new MongoDB board repository.
func NewMongoBoardRepository(db *mongo.Database) (*MongoBoardRepository, error) {
	repo := &MongoBoardRepository{
		collection: db.Collection("boards"),
	}

	ctx := context.Background()

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateBoard inserts a new board.
func (r *MongoBoardRepository) CreateBoard(ctx context.Context, board *model.Board) error {
	now := time.Now()
	if board.CreatedAt.IsZero() {
		board.CreatedAt = now
	}
	board.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, board)
	return err
}

// GetBoardByID fetches a board by its string id.
func (r *MongoBoardRepository) GetBoardByID(ctx context.Context, id string) (*model.Board, error) {
	var board model.Board
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&board)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// GetBoardsByOwner lists boards owned by the given user, newest first.
func (r *MongoBoardRepository) GetBoardsByOwner(ctx context.Context, ownerID string) ([]*model.Board, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var boards []*model.Board
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoardByOwnerAndName fetches a board by owner and exact name. Used for the
// implicit "Saved" board lookup.
func (r *MongoBoardRepository) GetBoardByOwnerAndName(ctx context.Context, ownerID, name string) (*model.Board, error) {
	var board model.Board
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID, "name": name}).Decode(&board)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// UpdateBoard replaces the mutable board fields.
func (r *MongoBoardRepository) UpdateBoard(ctx context.Context, board *model.Board) error {
	board.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        board.Name,
		"description": board.Description,
		"isPublic":    board.IsPublic,
		"updatedAt":   board.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": board.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrBoardNotFound
	}
	return nil
}

// DeleteBoard removes a board document.
func (r *MongoBoardRepository) DeleteBoard(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrBoardNotFound
	}
	return nil
}
