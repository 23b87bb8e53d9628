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

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(collection *mongo.Collection) *NotificationRepository {
	return &NotificationRepository{collection: collection}
}

func (r *NotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a recipient's notifications newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID, "is_archived": false}
	if unreadOnly {
		filter["is_read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string, recipientID primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"notification_id": notificationID, "recipient_id": recipientID}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: true},
		{Key: "read_at", Value: now},
		{Key: "updated_at", Value: now},
	}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// MarkAllRead flags every unread notification for the recipient and reports
// how many were updated.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: true},
		{Key: "read_at", Value: now},
		{Key: "updated_at", Value: now},
	}}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

// Archive hides one notification without deleting it.
func (r *NotificationRepository) Archive(ctx context.Context, notificationID string, recipientID primitive.ObjectID) (bool, error) {
	filter := bson.M{"notification_id": notificationID, "recipient_id": recipientID}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_archived", Value: true},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("archive notification: %w", err)
	}
	return result.MatchedCount > 0, nil
}
