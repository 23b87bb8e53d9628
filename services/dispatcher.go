package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

// Event kinds the dispatcher reacts to.
const (
	EventSessionStarted   = "session_started"
	EventSessionCompleted = "session_completed"
	EventSessionCancelled = "session_cancelled"
	EventVideoUploaded    = "video_uploaded"
)

// Event is a session-state transition with a snapshot of the session as it
// was committed. The snapshot decouples the side-effect writes from any
// later mutation of the live document.
type Event struct {
	Kind    string
	Session models.Session
}

// Dispatcher receives transition events. Dispatch must not block the
// calling transition.
type Dispatcher interface {
	Dispatch(e Event)
}

// ActivityStore and NotificationStore are the write-only sinks the
// dispatcher appends durable facts to.
type ActivityStore interface {
	Insert(ctx context.Context, activity *models.Activity) error
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
}

// SideEffectDispatcher translates transitions into activity and
// notification records through a buffered channel and a single worker.
// Delivery is at-least-once and best-effort: a failed insert is logged and
// dropped, never surfaced to the transition that triggered it, and a full
// queue drops the event rather than stalling the session write path.
type SideEffectDispatcher struct {
	activities    ActivityStore
	notifications NotificationStore
	events        chan Event
	wg            sync.WaitGroup
	log           zerolog.Logger
	closeOnce     sync.Once
	writeTimeout  time.Duration
}

func NewSideEffectDispatcher(activities ActivityStore, notifications NotificationStore, log zerolog.Logger) *SideEffectDispatcher {
	return &SideEffectDispatcher{
		activities:    activities,
		notifications: notifications,
		events:        make(chan Event, 256),
		log:           log.With().Str("component", "dispatcher").Logger(),
		writeTimeout:  10 * time.Second,
	}
}

// Start launches the worker. Call once before serving traffic.
func (d *SideEffectDispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for e := range d.events {
			d.handle(e)
		}
	}()
}

// Close drains the queue and stops the worker.
func (d *SideEffectDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
	})
	d.wg.Wait()
}

func (d *SideEffectDispatcher) Dispatch(e Event) {
	select {
	case d.events <- e:
	default:
		d.log.Warn().Str("kind", e.Kind).Str("session_id", e.Session.SessionID).Msg("event queue full, dropping event")
	}
}

func (d *SideEffectDispatcher) handle(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()

	switch e.Kind {
	case EventSessionStarted:
		d.insertActivity(ctx, &e.Session, models.ActivityExerciseStarted,
			"Exercise Session Started",
			"Started a new exercise session",
			map[string]interface{}{"exercise_id": e.Session.ExerciseID.Hex()})

	case EventSessionCompleted:
		d.insertActivity(ctx, &e.Session, models.ActivityExerciseCompleted,
			"Exercise Session Completed",
			fmt.Sprintf("Completed exercise session with %d reps and %.0f%% average score", e.Session.TotalReps, e.Session.AverageScore),
			map[string]interface{}{
				"score":    e.Session.AverageScore,
				"reps":     e.Session.TotalReps,
				"duration": e.Session.Duration,
			})
		if e.Session.DoctorID != nil {
			d.insertProgressAlert(ctx, &e.Session)
		}

	case EventSessionCancelled:
		d.insertActivity(ctx, &e.Session, models.ActivityExerciseCancelled,
			"Exercise Session Cancelled",
			"Cancelled exercise session",
			map[string]interface{}{"reason": "user_cancelled"})

	case EventVideoUploaded:
		d.insertActivity(ctx, &e.Session, models.ActivitySessionUploaded,
			"Session Video Uploaded",
			"Uploaded video for exercise session",
			map[string]interface{}{"video_url": e.Session.VideoURL})

	default:
		d.log.Error().Str("kind", e.Kind).Msg("unknown event kind")
	}
}

func (d *SideEffectDispatcher) insertActivity(ctx context.Context, s *models.Session, activityType, title, description string, metadata map[string]interface{}) {
	now := time.Now().UTC()
	sessionID := s.ID
	exerciseID := s.ExerciseID
	activity := &models.Activity{
		ID:            primitive.NewObjectID(),
		UserID:        s.PatientID,
		RelatedUserID: s.DoctorID,
		SessionID:     &sessionID,
		ExerciseID:    &exerciseID,
		Type:          activityType,
		Title:         title,
		Description:   description,
		Metadata:      metadata,
		Visibility:    models.VisibilityPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	activity.ActivityID = activity.ID.Hex()

	if err := d.activities.Insert(ctx, activity); err != nil {
		// The transition already committed; a lost activity record is
		// accepted under the best-effort contract.
		d.log.Error().Err(err).Str("type", activityType).Str("session_id", s.SessionID).Msg("activity insert failed")
	}
}

func (d *SideEffectDispatcher) insertProgressAlert(ctx context.Context, s *models.Session) {
	now := time.Now().UTC()
	sessionID := s.ID
	exerciseID := s.ExerciseID
	senderID := s.PatientID
	notification := &models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: *s.DoctorID,
		SenderID:    &senderID,
		SessionID:   &sessionID,
		ExerciseID:  &exerciseID,
		Type:        models.NotificationProgressAlert,
		Title:       "Patient Completed Exercise",
		Message:     fmt.Sprintf("Patient completed exercise session with %.0f%% score", s.AverageScore),
		Data: models.NotificationData{
			Priority:   models.PriorityMedium,
			Category:   "progress",
			ActionURL:  fmt.Sprintf("/doctor/sessions/%s", s.SessionID),
			ActionText: "View Session",
			Metadata: map[string]interface{}{
				"score":    s.AverageScore,
				"reps":     s.TotalReps,
				"duration": s.Duration,
			},
		},
		DeliveryMethod: []string{"in_app"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	notification.NotificationID = notification.ID.Hex()

	if err := d.notifications.Insert(ctx, notification); err != nil {
		d.log.Error().Err(err).Str("session_id", s.SessionID).Msg("progress alert insert failed")
	}
}
