package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session status values. Completed and cancelled are terminal.
const (
	SessionActive    = "active"
	SessionPaused    = "paused"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// PoseLandmark is one point of the pose skeleton as reported by the client.
type PoseLandmark struct {
	X          float64  `json:"x" bson:"x"`
	Y          float64  `json:"y" bson:"y"`
	Z          *float64 `json:"z,omitempty" bson:"z,omitempty"`
	Visibility *float64 `json:"visibility,omitempty" bson:"visibility,omitempty"`
}

// PoseFrame is one analyzed camera sample appended to the session frame log.
type PoseFrame struct {
	Timestamp     int64              `json:"timestamp" bson:"timestamp"`
	Landmarks     []PoseLandmark     `json:"landmarks" bson:"landmarks"`
	Angles        map[string]float64 `json:"angles" bson:"angles"`
	RepCount      *int               `json:"rep_count,omitempty" bson:"rep_count,omitempty"`
	IsCorrectForm bool               `json:"is_correct_form" bson:"is_correct_form"`
	Confidence    float64            `json:"confidence" bson:"confidence"`
}

// RepAnalysis is the per-rep breakdown supplied with the end-of-session summary.
type RepAnalysis struct {
	RepNumber int                `json:"rep_number" bson:"rep_number" validate:"min=1"`
	StartTime int64              `json:"start_time" bson:"start_time"`
	EndTime   int64              `json:"end_time" bson:"end_time"`
	Score     float64            `json:"score" bson:"score" validate:"min=0,max=100"`
	Feedback  []string           `json:"feedback" bson:"feedback"`
	Angles    map[string]float64 `json:"angles" bson:"angles"`
}

type DeviceInfo struct {
	Platform         string `json:"platform" bson:"platform"`
	Browser          string `json:"browser,omitempty" bson:"browser,omitempty"`
	CameraResolution string `json:"camera_resolution,omitempty" bson:"camera_resolution,omitempty"`
}

// Session is one timed exercise attempt by a patient, optionally supervised
// by a doctor. Aggregates mutate only while the session is active or paused;
// the state machine in services freezes them at a terminal transition.
type Session struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id"`
	SessionID  string              `json:"session_id" bson:"session_id"`
	PatientID  primitive.ObjectID  `json:"patient_id" bson:"patient_id"`
	DoctorID   *primitive.ObjectID `json:"doctor_id,omitempty" bson:"doctor_id,omitempty"`
	ExerciseID primitive.ObjectID  `json:"exercise_id" bson:"exercise_id"`

	StartTime time.Time  `json:"start_time" bson:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Duration  int64      `json:"duration" bson:"duration"`
	Status    string     `json:"status" bson:"status"`

	TotalReps    int     `json:"total_reps" bson:"total_reps"`
	AverageScore float64 `json:"average_score" bson:"average_score"`
	MaxScore     float64 `json:"max_score" bson:"max_score"`
	MinScore     float64 `json:"min_score" bson:"min_score"`

	PoseFrames  []PoseFrame   `json:"pose_frames" bson:"pose_frames"`
	RepAnalysis []RepAnalysis `json:"rep_analysis" bson:"rep_analysis"`

	OverallFeedback  []string `json:"overall_feedback" bson:"overall_feedback"`
	ImprovementAreas []string `json:"improvement_areas" bson:"improvement_areas"`
	Strengths        []string `json:"strengths" bson:"strengths"`

	VideoURL     string `json:"video_url,omitempty" bson:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`

	DeviceInfo *DeviceInfo `json:"device_info,omitempty" bson:"device_info,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the session accepts no further transitions.
func (s *Session) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

// SessionSummary is the normalized view served by every session read path,
// regardless of which relationship field matched the query.
type SessionSummary struct {
	ID         string   `json:"id"`
	ExerciseID string   `json:"exerciseId"`
	UserID     string   `json:"userId"`
	DoctorID   string   `json:"doctorId,omitempty"`
	StartTime  string   `json:"startTime"`
	EndTime    *string  `json:"endTime"`
	Duration   int64    `json:"duration"`
	Status     string   `json:"status"`
	Score      *float64 `json:"score"`
	Reps       int      `json:"reps"`
	Feedback   *string  `json:"feedback"`
	VideoURL   string   `json:"videoUrl,omitempty"`
}
