package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Exercise struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	ExerciseID     string             `json:"exercise_id" bson:"exercise_id"`
	Name           *string            `json:"name" validate:"required,min=2,max=100"`
	Description    *string            `json:"description" validate:"required"`
	Type           string             `json:"type" bson:"type"`
	Difficulty     string             `json:"difficulty" bson:"difficulty" validate:"omitempty,eq=beginner|eq=intermediate|eq=advanced"`
	TargetReps     int                `json:"target_reps" bson:"target_reps"`
	TargetDuration int                `json:"target_duration" bson:"target_duration"`
	Instructions   []string           `json:"instructions" bson:"instructions"`
	VideoURL       string             `json:"video_url" bson:"video_url"`
	Tags           []string           `json:"tags"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
