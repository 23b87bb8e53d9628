package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

// HistoryQuery filters a patient's session history.
type HistoryQuery struct {
	Limit      int
	Offset     int
	ExerciseID string
	Status     string
}

// DoctorQuery filters the doctor-scoped patient session view.
type DoctorQuery struct {
	Limit      int
	Offset     int
	PatientID  string
	ExerciseID string
}

// EndSummary is the caller-supplied end-of-session aggregate. It is
// authoritative: End overwrites the accumulated per-frame state with it.
type EndSummary struct {
	TotalReps        int                  `json:"totalReps"`
	AverageScore     float64              `json:"averageScore" validate:"min=0,max=100"`
	MaxScore         float64              `json:"maxScore" validate:"min=0,max=100"`
	MinScore         float64              `json:"minScore" validate:"min=0,max=100"`
	OverallFeedback  []string             `json:"overallFeedback"`
	ImprovementAreas []string             `json:"improvementAreas"`
	Strengths        []string             `json:"strengths"`
	RepAnalysis      []models.RepAnalysis `json:"repAnalysis"`
	VideoURL         string               `json:"videoUrl,omitempty"`
}

// FrameResult is what SubmitFrame reports back to the streaming client.
type FrameResult struct {
	Accuracy      float64            `json:"accuracy"`
	Feedback      []string           `json:"feedback"`
	Angles        map[string]float64 `json:"angles"`
	IsCorrectForm bool               `json:"isCorrectForm"`
	Confidence    float64            `json:"confidence"`
	RepCount      int                `json:"repCount"`
}

// SessionStore is the persistence surface the state machine needs. The
// conditional methods must apply their state filter atomically with the
// update and return ErrNotFound when nothing matched; the service
// disambiguates missing-vs-terminal afterwards.
type SessionStore interface {
	Insert(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error)

	// AppendFrame pushes a frame only while the session is active or paused.
	AppendFrame(ctx context.Context, id primitive.ObjectID, frame models.PoseFrame) error
	// IncrementReps atomically bumps the rep counter of a non-terminal
	// session and returns the new total.
	IncrementReps(ctx context.Context, id primitive.ObjectID) (int, error)
	// Complete transitions any not-yet-completed session to completed and
	// applies the summary in the same update.
	Complete(ctx context.Context, id primitive.ObjectID, endTime time.Time, duration int64, summary EndSummary) (*models.Session, error)
	// Cancel transitions an active or paused session to cancelled.
	Cancel(ctx context.Context, id primitive.ObjectID, endTime time.Time) (*models.Session, error)
	// SetStatus flips between active and paused; reports whether a document
	// in the `from` state was matched.
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error)
	// SetVideo attaches media URLs in any state, terminal included.
	SetVideo(ctx context.Context, id primitive.ObjectID, videoURL, thumbnailURL string) (*models.Session, error)

	FindByPatient(ctx context.Context, patientID primitive.ObjectID, q HistoryQuery) ([]models.Session, error)
	FindByDoctor(ctx context.Context, doctorID primitive.ObjectID, q DoctorQuery) ([]models.Session, error)
}

// SessionService owns the session lifecycle: start, streaming frame
// analysis, rep counting and the terminal transitions. Side effects go
// through the dispatcher and never block or roll back a transition.
type SessionService struct {
	store      SessionStore
	analyzer   PoseAnalyzer
	dispatcher Dispatcher
	log        zerolog.Logger
}

func NewSessionService(store SessionStore, analyzer PoseAnalyzer, dispatcher Dispatcher, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:      store,
		analyzer:   analyzer,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "session_service").Logger(),
	}
}

// Start creates a session in the active state and emits an
// exercise_started activity.
func (s *SessionService) Start(ctx context.Context, patientID, exerciseID, doctorID string, device *models.DeviceInfo) (*models.Session, error) {
	pid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidReference, patientID)
	}
	eid, err := primitive.ObjectIDFromHex(exerciseID)
	if err != nil {
		return nil, fmt.Errorf("%w: exercise id %q", ErrInvalidReference, exerciseID)
	}

	var did *primitive.ObjectID
	if doctorID != "" {
		d, err := primitive.ObjectIDFromHex(doctorID)
		if err != nil {
			return nil, fmt.Errorf("%w: doctor id %q", ErrInvalidReference, doctorID)
		}
		did = &d
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:          primitive.NewObjectID(),
		PatientID:   pid,
		DoctorID:    did,
		ExerciseID:  eid,
		StartTime:   now,
		Status:      models.SessionActive,
		PoseFrames:  []models.PoseFrame{},
		RepAnalysis: []models.RepAnalysis{},
		DeviceInfo:  device,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	session.SessionID = session.ID.Hex()

	if err := s.store.Insert(ctx, session); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(Event{Kind: EventSessionStarted, Session: *session})
	return session, nil
}

// SubmitFrame runs the analyzer on one pose sample, appends the resulting
// frame to the session log and bumps the rep counter when the analyzer
// signals a completed rep. A failed analysis leaves the session untouched.
func (s *SessionService) SubmitFrame(ctx context.Context, sessionID string, landmarks []models.PoseLandmark, exercise string) (*FrameResult, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}

	analysis, err := s.analyzer.Analyze(ctx, landmarks, exercise)
	if err != nil {
		return nil, err
	}

	frame := models.PoseFrame{
		Timestamp:     time.Now().UnixMilli(),
		Landmarks:     landmarks,
		Angles:        analysis.Angles,
		IsCorrectForm: analysis.Accuracy > 70,
		Confidence:    analysis.Accuracy / 100,
	}

	if err := s.store.AppendFrame(ctx, id, frame); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.resolveConditionalMiss(ctx, id)
		}
		return nil, err
	}

	result := &FrameResult{
		Accuracy:      analysis.Accuracy,
		Feedback:      analysis.Feedback,
		Angles:        analysis.Angles,
		IsCorrectForm: frame.IsCorrectForm,
		Confidence:    frame.Confidence,
	}

	if analysis.IsRepComplete {
		count, err := s.store.IncrementReps(ctx, id)
		if err != nil {
			// The frame landed but the session went terminal before the
			// increment: report the frame result without a new rep.
			if errors.Is(err, ErrNotFound) {
				s.log.Warn().Str("session_id", sessionID).Msg("rep increment lost race with terminal transition")
				return result, nil
			}
			return nil, err
		}
		result.RepCount = count
	} else {
		session, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result.RepCount = session.TotalReps
	}

	return result, nil
}

// End completes the session. The supplied summary wins over the accumulated
// per-frame state. A second End on the same session is rejected, not a
// no-op.
func (s *SessionService) End(ctx context.Context, sessionID string, summary EndSummary) (*models.Session, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.SessionCompleted {
		return nil, fmt.Errorf("%w: session already completed", ErrInvalidState)
	}

	endTime := time.Now().UTC()
	duration := int64(endTime.Sub(current.StartTime).Seconds())

	// Conditional update: only a not-yet-completed document transitions, so
	// a racing End cannot double-complete.
	session, err := s.store.Complete(ctx, id, endTime, duration, summary)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: session already completed", ErrInvalidState)
		}
		return nil, err
	}

	s.dispatcher.Dispatch(Event{Kind: EventSessionCompleted, Session: *session})
	return session, nil
}

// Cancel aborts an active or paused session.
func (s *SessionService) Cancel(ctx context.Context, sessionID string) (*models.Session, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}

	session, err := s.store.Cancel(ctx, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, s.resolveConditionalMiss(ctx, id)
		}
		return nil, err
	}

	s.dispatcher.Dispatch(Event{Kind: EventSessionCancelled, Session: *session})
	return session, nil
}

// Pause and Resume are silent bookkeeping transitions between active and
// paused; no side effects are emitted.
func (s *SessionService) Pause(ctx context.Context, sessionID string) error {
	return s.flip(ctx, sessionID, models.SessionActive, models.SessionPaused)
}

func (s *SessionService) Resume(ctx context.Context, sessionID string) error {
	return s.flip(ctx, sessionID, models.SessionPaused, models.SessionActive)
}

func (s *SessionService) flip(ctx context.Context, sessionID, from, to string) error {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}

	matched, err := s.store.SetStatus(ctx, id, from, to)
	if err != nil {
		return err
	}
	if !matched {
		return s.resolveConditionalMiss(ctx, id)
	}
	return nil
}

// AttachVideo sets the media fields. Uploads may finish after the session
// ended, so terminal states are allowed here.
func (s *SessionService) AttachVideo(ctx context.Context, sessionID, videoURL, thumbnailURL string) (*models.Session, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}

	session, err := s.store.SetVideo(ctx, id, videoURL, thumbnailURL)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(Event{Kind: EventVideoUploaded, Session: *session})
	return session, nil
}

// Get returns one session by id.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidReference, sessionID)
	}
	return s.store.FindByID(ctx, id)
}

// History lists a patient's sessions, newest first.
func (s *SessionService) History(ctx context.Context, patientID string, q HistoryQuery) ([]models.Session, error) {
	pid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidReference, patientID)
	}
	normalizeLimits(&q.Limit, &q.Offset)
	return s.store.FindByPatient(ctx, pid, q)
}

// DoctorSessions lists sessions supervised by the given doctor.
func (s *SessionService) DoctorSessions(ctx context.Context, doctorID string, q DoctorQuery) ([]models.Session, error) {
	did, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: doctor id %q", ErrInvalidReference, doctorID)
	}
	normalizeLimits(&q.Limit, &q.Offset)
	return s.store.FindByDoctor(ctx, did, q)
}

// resolveConditionalMiss turns a conditional-update miss into the right
// taxonomy error: the session is either absent or in a state that forbids
// the transition.
func (s *SessionService) resolveConditionalMiss(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidState
}

func normalizeLimits(limit, offset *int) {
	if *limit <= 0 || *limit > 100 {
		*limit = 10
	}
	if *offset < 0 {
		*offset = 0
	}
}

// Summarize flattens a session into the normalized view served by every
// read path.
func Summarize(s *models.Session) models.SessionSummary {
	summary := models.SessionSummary{
		ID:         s.ID.Hex(),
		ExerciseID: s.ExerciseID.Hex(),
		UserID:     s.PatientID.Hex(),
		StartTime:  s.StartTime.Format(time.RFC3339),
		Duration:   s.Duration,
		Status:     s.Status,
		Reps:       s.TotalReps,
		VideoURL:   s.VideoURL,
	}
	if s.DoctorID != nil {
		summary.DoctorID = s.DoctorID.Hex()
	}
	if s.EndTime != nil {
		end := s.EndTime.Format(time.RFC3339)
		summary.EndTime = &end
	}
	// Scores are undefined until at least one rep is on record.
	if s.TotalReps > 0 || s.Status == models.SessionCompleted {
		score := s.AverageScore
		summary.Score = &score
	}
	if len(s.OverallFeedback) > 0 {
		feedback := strings.Join(s.OverallFeedback, ", ")
		summary.Feedback = &feedback
	}
	return summary
}
