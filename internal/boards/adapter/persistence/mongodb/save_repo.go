package mongodb

import (
	"context"

	"pinstack/internal/boards/domain/model"
	sharederrors "pinstack/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSaveRepository implements SaveRepository using MongoDB.
type MongoSaveRepository struct {
	collection *mongo.Collection
}

// NewMongoSaveRepository creates a new MongoDB pin-save repository.
func NewMongoSaveRepository(db *mongo.Database) (*MongoSaveRepository, error) {
	repo := &MongoSaveRepository{
		collection: db.Collection("pin_saves"),
	}

	// Unique compound index enforces one save per (user, pin, board).
	saveIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "pinId", Value: 1},
			{Key: "boardId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(context.Background(), saveIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateSave inserts a save record. A duplicate key maps to the conflict error.
func (r *MongoSaveRepository) CreateSave(ctx context.Context, save *model.PinSave) error {
	_, err := r.collection.InsertOne(ctx, save)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sharederrors.ErrPinAlreadySaved
		}
		return err
	}
	return nil
}

// GetSave fetches the save record for (user, pin, board).
func (r *MongoSaveRepository) GetSave(ctx context.Context, userID, pinID, boardID string) (*model.PinSave, error) {
	var save model.PinSave
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "pinId": pinID, "boardId": boardID}).Decode(&save)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrNotFound
		}
		return nil, err
	}
	return &save, nil
}

// ListSavesForUser returns a user's saves, newest first.
func (r *MongoSaveRepository) ListSavesForUser(ctx context.Context, userID string) ([]*model.PinSave, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var saves []*model.PinSave
	if err := cursor.All(ctx, &saves); err != nil {
		return nil, err
	}
	return saves, nil
}

// DeleteSave removes the save record.
func (r *MongoSaveRepository) DeleteSave(ctx context.Context, userID, pinID, boardID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "pinId": pinID, "boardId": boardID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrNotFound
	}
	return nil
}
