package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientDoctor link status values.
const (
	LinkPending    = "pending"
	LinkActive     = "active"
	LinkSuspended  = "suspended"
	LinkTerminated = "terminated"
)

// PatientDoctor records a supervision relationship. Notification routing and
// the doctor-scoped session views consult it.
type PatientDoctor struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	LinkID    string             `json:"link_id" bson:"link_id"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patient_id" validate:"required"`
	DoctorID  primitive.ObjectID `json:"doctor_id" bson:"doctor_id" validate:"required"`
	Status    string             `json:"status" bson:"status"`
	StartedAt time.Time          `json:"started_at" bson:"started_at"`
	EndedAt   *time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
