package mongodb

import (
	"context"

	"pinstack/internal/boards/domain/model"
	sharederrors "pinstack/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollaboratorRepository implements CollaboratorRepository using MongoDB.
type MongoCollaboratorRepository struct {
	collection *mongo.Collection
}

// NewMongoCollaboratorRepository creates a new MongoDB collaborator repository.
func NewMongoCollaboratorRepository(db *mongo.Database) (*MongoCollaboratorRepository, error) {
	repo := &MongoCollaboratorRepository{
		collection: db.Collection("collaborators"),
	}

	ctx := context.Background()

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	boardEmailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "boardId", Value: 1}, {Key: "email", Value: 1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, boardEmailIndex); err != nil {
		return nil, err
	}

	boardUserIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "boardId", Value: 1}, {Key: "userId", Value: 1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, boardUserIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateCollaborator inserts a new collaborator record.
func (r *MongoCollaboratorRepository) CreateCollaborator(ctx context.Context, collab *model.Collaborator) error {
	_, err := r.collection.InsertOne(ctx, collab)
	return err
}

// GetCollaboratorByID fetches a record by its string id.
func (r *MongoCollaboratorRepository) GetCollaboratorByID(ctx context.Context, id string) (*model.Collaborator, error) {
	var collab model.Collaborator
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&collab)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrCollaboratorNotFound
		}
		return nil, err
	}
	return &collab, nil
}

// GetCollaboratorByBoardAndUser fetches an active record linked to a userId.
func (r *MongoCollaboratorRepository) GetCollaboratorByBoardAndUser(ctx context.Context, boardID, userID string) (*model.Collaborator, error) {
	filter := bson.M{
		"boardId": boardID,
		"userId":  userID,
		"status":  bson.M{"$in": []string{string(model.StatusPending), string(model.StatusAccepted)}},
	}

	var collab model.Collaborator
	err := r.collection.FindOne(ctx, filter).Decode(&collab)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrCollaboratorNotFound
		}
		return nil, err
	}
	return &collab, nil
}

// GetCollaboratorByBoardAndEmail fetches an active record by invite email.
func (r *MongoCollaboratorRepository) GetCollaboratorByBoardAndEmail(ctx context.Context, boardID, email string) (*model.Collaborator, error) {
	filter := bson.M{
		"boardId": boardID,
		"email":   email,
		"status":  bson.M{"$in": []string{string(model.StatusPending), string(model.StatusAccepted)}},
	}

	var collab model.Collaborator
	err := r.collection.FindOne(ctx, filter).Decode(&collab)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrCollaboratorNotFound
		}
		return nil, err
	}
	return &collab, nil
}

// ListCollaborators returns every record for a board, invite order.
func (r *MongoCollaboratorRepository) ListCollaborators(ctx context.Context, boardID string) ([]*model.Collaborator, error) {
	opts := options.Find().SetSort(bson.D{{Key: "invitedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"boardId": boardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collabs []*model.Collaborator
	if err := cursor.All(ctx, &collabs); err != nil {
		return nil, err
	}
	return collabs, nil
}

// ListCollaborationsForUser returns records matching the user by linked id or
// by invite email, so not-yet-linked invites surface too.
func (r *MongoCollaboratorRepository) ListCollaborationsForUser(ctx context.Context, userID, email string) ([]*model.Collaborator, error) {
	or := []bson.M{}
	if userID != "" {
		or = append(or, bson.M{"userId": userID})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collabs []*model.Collaborator
	if err := cursor.All(ctx, &collabs); err != nil {
		return nil, err
	}
	return collabs, nil
}

// UpdateCollaborator replaces the mutable record fields.
func (r *MongoCollaboratorRepository) UpdateCollaborator(ctx context.Context, collab *model.Collaborator) error {
	update := bson.M{"$set": bson.M{
		"userId":     collab.UserID,
		"role":       collab.Role,
		"status":     collab.Status,
		"acceptedAt": collab.AcceptedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": collab.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrCollaboratorNotFound
	}
	return nil
}

// LinkUserID back-fills the userId on an email-matched record. Safe to re-run.
func (r *MongoCollaboratorRepository) LinkUserID(ctx context.Context, collabID, userID string) error {
	update := bson.M{"$set": bson.M{"userId": userID}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": collabID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrCollaboratorNotFound
	}
	return nil
}

// DeleteCollaborator removes a record.
func (r *MongoCollaboratorRepository) DeleteCollaborator(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrCollaboratorNotFound
	}
	return nil
}

// DeleteCollaboratorsForBoard removes all records for a board.
func (r *MongoCollaboratorRepository) DeleteCollaboratorsForBoard(ctx context.Context, boardID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"boardId": boardID})
	return err
}
