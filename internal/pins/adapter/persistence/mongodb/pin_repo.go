package mongodb

import (
	"context"
	"regexp"

	"pinstack/internal/pins/domain/model"
	"pinstack/internal/pins/domain/repository"
	sharederrors "pinstack/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPinRepository implements PinRepository using MongoDB.
type MongoPinRepository struct {
	collection *mongo.Collection
}

// NewMongoPinRepository creates a new MongoDB pin repository.
func NewMongoPinRepository(db *mongo.Database) (*MongoPinRepository, error) {
	repo := &MongoPinRepository{
		collection: db.Collection("pins"),
	}

	ctx := context.Background()

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, userIndex); err != nil {
		return nil, err
	}

	// Feed filters hit status+language+createdAt; tags get their own multikey
	// index.
	feedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "language", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, feedIndex); err != nil {
		return nil, err
	}

	tagsIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "tags", Value: 1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, tagsIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreatePin inserts a new pin document.
func (r *MongoPinRepository) CreatePin(ctx context.Context, pin *model.Pin) error {
	_, err := r.collection.InsertOne(ctx, pin)
	return err
}

// GetPinByID fetches a pin by its string id.
func (r *MongoPinRepository) GetPinByID(ctx context.Context, id string) (*model.Pin, error) {
	var pin model.Pin
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&pin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sharederrors.ErrPinNotFound
		}
		return nil, err
	}
	return &pin, nil
}

// GetPinsByIDs fetches pins for the given ids. Missing ids are skipped; the
// result preserves input order.
func (r *MongoPinRepository) GetPinsByIDs(ctx context.Context, ids []string) ([]*model.Pin, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fetched []*model.Pin
	if err := cursor.All(ctx, &fetched); err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Pin, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	ordered := make([]*model.Pin, 0, len(fetched))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// UpdatePin replaces the mutable pin fields.
func (r *MongoPinRepository) UpdatePin(ctx context.Context, pin *model.Pin) error {
	update := bson.M{"$set": bson.M{
		"title":       pin.Title,
		"description": pin.Description,
		"language":    pin.Language,
		"tags":        pin.Tags,
		"codeSnippet": pin.CodeSnippet,
		"imageUrl":    pin.ImageURL,
		"sourceUrl":   pin.SourceURL,
		"status":      pin.Status,
		"updatedAt":   pin.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": pin.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrPinNotFound
	}
	return nil
}

// DeletePin removes a pin document.
func (r *MongoPinRepository) DeletePin(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrPinNotFound
	}
	return nil
}

// ListPinsByUser returns a user's pins, newest first, all statuses.
func (r *MongoPinRepository) ListPinsByUser(ctx context.Context, userID string) ([]*model.Pin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pins []*model.Pin
	if err := cursor.All(ctx, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// QueryFeed runs the composed feed query against published pins. Trending
// needs a computed like count, so both orderings go through an aggregation
// pipeline.
func (r *MongoPinRepository) QueryFeed(ctx context.Context, q repository.FeedQuery) ([]*model.Pin, error) {
	match := bson.M{"status": string(model.StatusPublished)}

	if q.Text != "" {
		pattern := regexp.QuoteMeta(q.Text)
		match["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
			{"codeSnippet": bson.M{"$regex": pattern, "$options": "i"}},
			{"language": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.Language != "" {
		match["language"] = q.Language
	}
	if len(q.Tags) > 0 {
		// Overlap, not containment: one shared tag is enough.
		match["tags"] = bson.M{"$in": q.Tags}
	}

	var sort bson.D
	switch q.Sort {
	case repository.SortNewest:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	case repository.SortMostVoted:
		sort = bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		// Trending is a static two-key sort; createdAt keeps ties stable
		// across pages.
		sort = bson.D{
			{Key: "likeCount", Value: -1},
			{Key: "viewCount", Value: -1},
			{Key: "createdAt", Value: -1},
		}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		// Legacy documents carry a numeric likes counter instead of the per-user
		// set; surface whichever is authoritative so trending ranks them too.
		bson.D{{Key: "$addFields", Value: bson.M{
			"likeCount": bson.M{"$cond": bson.A{
				bson.M{"$isArray": "$likedByUsers"},
				bson.M{"$size": "$likedByUsers"},
				bson.M{"$ifNull": bson.A{"$likes", 0}},
			}},
		}}},
		bson.D{{Key: "$sort", Value: sort}},
		bson.D{{Key: "$skip", Value: q.Offset}},
		bson.D{{Key: "$limit", Value: q.Limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pins []*model.Pin
	if err := cursor.All(ctx, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// ToggleVote flips userID's membership in likedByUsers. Each direction is a
// single array mutation on the server, so two racing toggles for different
// users never lose writes. The pre-image tells us which direction applied.
func (r *MongoPinRepository) ToggleVote(ctx context.Context, pinID, userID string) (*model.VoteState, model.VoteAction, error) {
	beforeOpts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before model.Pin
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"id": pinID},
		bson.M{"$addToSet": bson.M{"likedByUsers": userID}},
		beforeOpts,
	).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", sharederrors.ErrPinNotFound
		}
		return nil, "", err
	}

	if !before.IsLikedBy(userID) {
		// The $addToSet landed: the user just liked. A legacy document had no
		// set, so the count starts from the set alone once it exists.
		count := 1
		if before.LikedByUsers != nil {
			count = len(before.LikedByUsers) + 1
		}
		return &model.VoteState{PinID: pinID, Count: count, IsLiked: true}, model.ActionLiked, nil
	}

	// Already present: undo with a $pull and read the post-image for the count.
	afterOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var after model.Pin
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"id": pinID},
		bson.M{"$pull": bson.M{"likedByUsers": userID}},
		afterOpts,
	).Decode(&after)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", sharederrors.ErrPinNotFound
		}
		return nil, "", err
	}

	return &model.VoteState{PinID: pinID, Count: len(after.LikedByUsers), IsLiked: false}, model.ActionUnliked, nil
}

// IncrementViewCount bumps the pin's view counter.
func (r *MongoPinRepository) IncrementViewCount(ctx context.Context, pinID string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": pinID}, bson.M{"$inc": bson.M{"viewCount": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrPinNotFound
	}
	return nil
}

// AdjustSaveCount applies a delta to the pin's save counter, clamping at zero.
func (r *MongoPinRepository) AdjustSaveCount(ctx context.Context, pinID string, delta int) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": pinID}, bson.M{"$inc": bson.M{"saveCount": delta}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrPinNotFound
	}
	if delta < 0 {
		// A concurrent unsave pair can undershoot; pin the floor at zero.
		_, err = r.collection.UpdateOne(ctx,
			bson.M{"id": pinID, "saveCount": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"saveCount": 0}},
		)
	}
	return err
}
