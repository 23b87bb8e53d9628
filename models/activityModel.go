package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types emitted by the session pipeline.
const (
	ActivityExerciseStarted   = "exercise_started"
	ActivityExerciseCompleted = "exercise_completed"
	ActivityExerciseCancelled = "exercise_cancelled"
	ActivitySessionUploaded   = "session_uploaded"
	ActivityDoctorRecommend   = "doctor_recommendation"
)

// Activity visibility scopes.
const (
	VisibilityPublic      = "public"
	VisibilityPrivate     = "private"
	VisibilityDoctorOnly  = "doctor_only"
	VisibilityPatientOnly = "patient_only"
)

// Activity is an append-only fact about something that happened. The
// dispatcher creates them; nothing updates them besides read/archive flags.
type Activity struct {
	ID            primitive.ObjectID     `json:"id" bson:"_id"`
	ActivityID    string                 `json:"activity_id" bson:"activity_id"`
	UserID        primitive.ObjectID     `json:"user_id" bson:"user_id"`
	RelatedUserID *primitive.ObjectID    `json:"related_user_id,omitempty" bson:"related_user_id,omitempty"`
	SessionID     *primitive.ObjectID    `json:"session_id,omitempty" bson:"session_id,omitempty"`
	ExerciseID    *primitive.ObjectID    `json:"exercise_id,omitempty" bson:"exercise_id,omitempty"`
	Type          string                 `json:"type" bson:"type"`
	Title         string                 `json:"title" bson:"title"`
	Description   string                 `json:"description" bson:"description"`
	Metadata      map[string]interface{} `json:"metadata" bson:"metadata"`
	Visibility    string                 `json:"visibility" bson:"visibility"`
	IsRead        bool                   `json:"is_read" bson:"is_read"`
	IsArchived    bool                   `json:"is_archived" bson:"is_archived"`
	CreatedAt     time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" bson:"updated_at"`
}
