package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(collection *mongo.Collection) *ActivityRepository {
	return &ActivityRepository{collection: collection}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	_, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByUser returns a user's activities newest first, optionally filtered
// by type. Archived records are excluded.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, activityType string, limit, offset int) ([]models.Activity, error) {
	filter := bson.M{"user_id": userID, "is_archived": false}
	if activityType != "" {
		filter["type"] = activityType
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

// MarkRead flags one activity as read for its owner.
func (r *ActivityRepository) MarkRead(ctx context.Context, activityID string, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"activity_id": activityID, "user_id": userID}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: true},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mark activity read: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// Archive hides one activity from the feed without deleting it.
func (r *ActivityRepository) Archive(ctx context.Context, activityID string, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"activity_id": activityID, "user_id": userID}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_archived", Value: true},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("archive activity: %w", err)
	}
	return result.MatchedCount > 0, nil
}
