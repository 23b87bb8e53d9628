package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types used by the session pipeline and doctor messaging.
const (
	NotificationProgressAlert = "progress_alert"
	NotificationDoctorMessage = "doctor_message"
	NotificationFormFeedback  = "form_feedback"
	NotificationRecommend     = "recommendation"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationData carries routing and presentation details for a notification.
type NotificationData struct {
	Priority   string                 `json:"priority" bson:"priority"`
	Category   string                 `json:"category,omitempty" bson:"category,omitempty"`
	ActionURL  string                 `json:"action_url,omitempty" bson:"action_url,omitempty"`
	ActionText string                 `json:"action_text,omitempty" bson:"action_text,omitempty"`
	ExpiresAt  *time.Time             `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Notification is an append-only message addressed to one recipient.
type Notification struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id"`
	NotificationID string              `json:"notification_id" bson:"notification_id"`
	RecipientID    primitive.ObjectID  `json:"recipient_id" bson:"recipient_id"`
	SenderID       *primitive.ObjectID `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	SessionID      *primitive.ObjectID `json:"session_id,omitempty" bson:"session_id,omitempty"`
	ExerciseID     *primitive.ObjectID `json:"exercise_id,omitempty" bson:"exercise_id,omitempty"`
	Type           string              `json:"type" bson:"type"`
	Title          string              `json:"title" bson:"title"`
	Message        string              `json:"message" bson:"message"`
	Data           NotificationData    `json:"data" bson:"data"`
	IsRead         bool                `json:"is_read" bson:"is_read"`
	IsArchived     bool                `json:"is_archived" bson:"is_archived"`
	ReadAt         *time.Time          `json:"read_at,omitempty" bson:"read_at,omitempty"`
	DeliveryMethod []string            `json:"delivery_method" bson:"delivery_method"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}
