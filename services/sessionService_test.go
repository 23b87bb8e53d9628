package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

// fakeStore is an in-memory SessionStore honoring the conditional-update
// contract: state-guarded methods return ErrNotFound when nothing matched.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeStore) Insert(_ context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID.Hex()] = &copied
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeStore) AppendFrame(_ context.Context, id primitive.ObjectID, frame models.PoseFrame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok || session.IsTerminal() {
		return ErrNotFound
	}
	session.PoseFrames = append(session.PoseFrames, frame)
	return nil
}

func (f *fakeStore) IncrementReps(_ context.Context, id primitive.ObjectID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok || session.IsTerminal() {
		return 0, ErrNotFound
	}
	session.TotalReps++
	return session.TotalReps, nil
}

func (f *fakeStore) Complete(_ context.Context, id primitive.ObjectID, endTime time.Time, duration int64, summary EndSummary) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok || session.Status == models.SessionCompleted {
		return nil, ErrNotFound
	}
	session.Status = models.SessionCompleted
	session.EndTime = &endTime
	session.Duration = duration
	session.TotalReps = summary.TotalReps
	session.AverageScore = summary.AverageScore
	session.MaxScore = summary.MaxScore
	session.MinScore = summary.MinScore
	session.OverallFeedback = summary.OverallFeedback
	session.ImprovementAreas = summary.ImprovementAreas
	session.Strengths = summary.Strengths
	session.RepAnalysis = summary.RepAnalysis
	if summary.VideoURL != "" {
		session.VideoURL = summary.VideoURL
	}
	copied := *session
	return &copied, nil
}

func (f *fakeStore) Cancel(_ context.Context, id primitive.ObjectID, endTime time.Time) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok || session.IsTerminal() {
		return nil, ErrNotFound
	}
	session.Status = models.SessionCancelled
	session.EndTime = &endTime
	copied := *session
	return &copied, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok || session.Status != from {
		return false, nil
	}
	session.Status = to
	return true, nil
}

func (f *fakeStore) SetVideo(_ context.Context, id primitive.ObjectID, videoURL, thumbnailURL string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id.Hex()]
	if !ok {
		return nil, ErrNotFound
	}
	session.VideoURL = videoURL
	if thumbnailURL != "" {
		session.ThumbnailURL = thumbnailURL
	}
	copied := *session
	return &copied, nil
}

func (f *fakeStore) FindByPatient(_ context.Context, patientID primitive.ObjectID, q HistoryQuery) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []models.Session{}
	for _, session := range f.sessions {
		if session.PatientID != patientID {
			continue
		}
		if q.Status != "" && session.Status != q.Status {
			continue
		}
		if q.ExerciseID != "" && session.ExerciseID.Hex() != q.ExerciseID {
			continue
		}
		matched = append(matched, *session)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})
	return paginate(matched, q.Limit, q.Offset), nil
}

func (f *fakeStore) FindByDoctor(_ context.Context, doctorID primitive.ObjectID, q DoctorQuery) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []models.Session{}
	for _, session := range f.sessions {
		if session.DoctorID == nil || *session.DoctorID != doctorID {
			continue
		}
		if q.PatientID != "" && session.PatientID.Hex() != q.PatientID {
			continue
		}
		matched = append(matched, *session)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})
	return paginate(matched, q.Limit, q.Offset), nil
}

func paginate(sessions []models.Session, limit, offset int) []models.Session {
	if offset >= len(sessions) {
		return []models.Session{}
	}
	end := offset + limit
	if end > len(sessions) {
		end = len(sessions)
	}
	return sessions[offset:end]
}

// recordingDispatcher captures events instead of writing side effects.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingDispatcher) Dispatch(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingDispatcher) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// stubAnalyzer returns a scripted analysis per call.
type stubAnalyzer struct {
	mu      sync.Mutex
	results []*PoseAnalysis
	err     error
	calls   int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ []models.PoseLandmark, _ string) (*PoseAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := s.results[s.calls%len(s.results)]
	s.calls++
	return result, nil
}

func newTestService(store SessionStore, analyzer PoseAnalyzer, dispatcher Dispatcher) *SessionService {
	return NewSessionService(store, analyzer, dispatcher, zerolog.Nop())
}

func startSession(t *testing.T, svc *SessionService, withDoctor bool) *models.Session {
	t.Helper()
	doctorID := ""
	if withDoctor {
		doctorID = primitive.NewObjectID().Hex()
	}
	session, err := svc.Start(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), doctorID, nil)
	require.NoError(t, err)
	return session
}

func landmarks() []models.PoseLandmark {
	return []models.PoseLandmark{{X: 0.5, Y: 0.5}, {X: 0.4, Y: 0.6}}
}

func TestStartSession(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(store, &stubAnalyzer{}, dispatcher)

	session := startSession(t, svc, true)

	assert.Equal(t, models.SessionActive, session.Status)
	assert.Nil(t, session.EndTime)
	assert.NotNil(t, session.DoctorID)
	assert.Zero(t, session.TotalReps)
	assert.Equal(t, []string{EventSessionStarted}, dispatcher.kinds())
}

func TestStartSessionInvalidReferences(t *testing.T) {
	svc := newTestService(newFakeStore(), &stubAnalyzer{}, &recordingDispatcher{})

	cases := []struct {
		name       string
		patientID  string
		exerciseID string
		doctorID   string
	}{
		{"bad patient id", "not-an-id", primitive.NewObjectID().Hex(), ""},
		{"bad exercise id", primitive.NewObjectID().Hex(), "nope", ""},
		{"bad doctor id", primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "xyz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Start(context.Background(), tc.patientID, tc.exerciseID, tc.doctorID, nil)
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestSubmitFrameCountsReps(t *testing.T) {
	store := newFakeStore()
	analyzer := &stubAnalyzer{results: []*PoseAnalysis{
		{Accuracy: 90, Feedback: []string{"Good form!"}, Angles: map[string]float64{"left_knee": 92}, IsRepComplete: true},
		{Accuracy: 65, Feedback: []string{"Go deeper"}, IsRepComplete: false},
		{Accuracy: 80, IsRepComplete: true},
	}}
	svc := newTestService(store, analyzer, &recordingDispatcher{})
	session := startSession(t, svc, false)

	first, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
	require.NoError(t, err)
	assert.Equal(t, 1, first.RepCount)
	assert.True(t, first.IsCorrectForm)
	assert.InDelta(t, 0.9, first.Confidence, 1e-9)

	second, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
	require.NoError(t, err)
	assert.Equal(t, 1, second.RepCount)
	assert.False(t, second.IsCorrectForm)

	third, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
	require.NoError(t, err)
	assert.Equal(t, 2, third.RepCount)

	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalReps)
	assert.Len(t, stored.PoseFrames, 3)
}

func TestSubmitFrameConcurrentIncrements(t *testing.T) {
	store := newFakeStore()
	analyzer := &stubAnalyzer{results: []*PoseAnalysis{{Accuracy: 85, IsRepComplete: true}}}
	svc := newTestService(store, analyzer, &recordingDispatcher{})
	session := startSession(t, svc, false)

	const frames = 50
	var wg sync.WaitGroup
	wg.Add(frames)
	for i := 0; i < frames; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, frames, stored.TotalReps)
	assert.Len(t, stored.PoseFrames, frames)
}

func TestSubmitFrameAnalyzerFailure(t *testing.T) {
	store := newFakeStore()
	analyzer := &stubAnalyzer{err: ErrAnalysisFailed}
	svc := newTestService(store, analyzer, &recordingDispatcher{})
	session := startSession(t, svc, false)

	_, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.PoseFrames)
	assert.Zero(t, stored.TotalReps)
}

func TestSubmitFrameMissingSession(t *testing.T) {
	analyzer := &stubAnalyzer{results: []*PoseAnalysis{{Accuracy: 85}}}
	svc := newTestService(newFakeStore(), analyzer, &recordingDispatcher{})

	_, err := svc.SubmitFrame(context.Background(), primitive.NewObjectID().Hex(), landmarks(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndSession(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(store, &stubAnalyzer{}, dispatcher)
	session := startSession(t, svc, true)

	summary := EndSummary{
		TotalReps:        12,
		AverageScore:     80,
		MaxScore:         95,
		MinScore:         60,
		OverallFeedback:  []string{"Good session"},
		ImprovementAreas: []string{"Depth"},
		Strengths:        []string{"Tempo"},
	}

	ended, err := svc.End(context.Background(), session.SessionID, summary)
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, ended.Status)
	require.NotNil(t, ended.EndTime)
	assert.False(t, ended.EndTime.Before(ended.StartTime))
	assert.Equal(t, int64(ended.EndTime.Sub(ended.StartTime).Seconds()), ended.Duration)
	assert.Equal(t, 12, ended.TotalReps)
	assert.Equal(t, 80.0, ended.AverageScore)

	assert.Equal(t, []string{EventSessionStarted, EventSessionCompleted}, dispatcher.kinds())
}

func TestEndSessionTwiceRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})
	session := startSession(t, svc, false)

	first := EndSummary{TotalReps: 5, AverageScore: 75, MaxScore: 90, MinScore: 50}
	_, err := svc.End(context.Background(), session.SessionID, first)
	require.NoError(t, err)

	second := EndSummary{TotalReps: 99, AverageScore: 10, MaxScore: 10, MinScore: 10}
	_, err = svc.End(context.Background(), session.SessionID, second)
	assert.ErrorIs(t, err, ErrInvalidState)

	// No partial overwrite from the rejected call.
	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalReps)
	assert.Equal(t, 75.0, stored.AverageScore)
}

func TestSubmitFrameAfterEndRejected(t *testing.T) {
	store := newFakeStore()
	analyzer := &stubAnalyzer{results: []*PoseAnalysis{{Accuracy: 85, IsRepComplete: true}}}
	svc := newTestService(store, analyzer, &recordingDispatcher{})
	session := startSession(t, svc, false)

	_, err := svc.End(context.Background(), session.SessionID, EndSummary{TotalReps: 3, AverageScore: 70, MaxScore: 80, MinScore: 60})
	require.NoError(t, err)

	_, err = svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "")
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.PoseFrames)
	assert.Equal(t, 3, stored.TotalReps)
}

func TestCancelSession(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(store, &stubAnalyzer{}, dispatcher)
	session := startSession(t, svc, false)

	cancelled, err := svc.Cancel(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.EndTime)
	assert.Equal(t, []string{EventSessionStarted, EventSessionCancelled}, dispatcher.kinds())
}

func TestCancelCompletedSessionRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})
	session := startSession(t, svc, false)

	_, err := svc.End(context.Background(), session.SessionID, EndSummary{AverageScore: 50})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), session.SessionID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPauseResume(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(store, &stubAnalyzer{}, dispatcher)
	session := startSession(t, svc, false)

	require.NoError(t, svc.Pause(context.Background(), session.SessionID))

	stored, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPaused, stored.Status)

	// Pausing a paused session is not a legal transition.
	assert.ErrorIs(t, svc.Pause(context.Background(), session.SessionID), ErrInvalidState)

	require.NoError(t, svc.Resume(context.Background(), session.SessionID))

	stored, err = svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, stored.Status)

	// Pause and resume stay silent.
	assert.Equal(t, []string{EventSessionStarted}, dispatcher.kinds())
}

func TestEndFromPaused(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})
	session := startSession(t, svc, false)

	require.NoError(t, svc.Pause(context.Background(), session.SessionID))

	ended, err := svc.End(context.Background(), session.SessionID, EndSummary{AverageScore: 88})
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, ended.Status)
}

func TestAttachVideoAfterEnd(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(store, &stubAnalyzer{}, dispatcher)
	session := startSession(t, svc, false)

	ended, err := svc.End(context.Background(), session.SessionID, EndSummary{AverageScore: 77})
	require.NoError(t, err)

	updated, err := svc.AttachVideo(context.Background(), session.SessionID, "https://cdn.example.com/v.mp4", "https://cdn.example.com/t.jpg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/v.mp4", updated.VideoURL)
	assert.Equal(t, "https://cdn.example.com/t.jpg", updated.ThumbnailURL)
	assert.Equal(t, models.SessionCompleted, updated.Status)
	assert.Equal(t, ended.EndTime.Unix(), updated.EndTime.Unix())
	assert.Equal(t, []string{EventSessionStarted, EventSessionCompleted, EventVideoUploaded}, dispatcher.kinds())
}

func TestEndTimeSetOnlyInTerminalStates(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})

	active := startSession(t, svc, false)
	assert.Nil(t, active.EndTime)

	require.NoError(t, svc.Pause(context.Background(), active.SessionID))
	paused, err := svc.Get(context.Background(), active.SessionID)
	require.NoError(t, err)
	assert.Nil(t, paused.EndTime)

	cancelled, err := svc.Cancel(context.Background(), active.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, cancelled.EndTime)

	other := startSession(t, svc, false)
	completed, err := svc.End(context.Background(), other.SessionID, EndSummary{AverageScore: 90})
	require.NoError(t, err)
	assert.NotNil(t, completed.EndTime)
}

func TestHistoryFiltersAndSorts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})

	patientID := primitive.NewObjectID()
	exerciseA := primitive.NewObjectID()
	exerciseB := primitive.NewObjectID()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		session := &models.Session{
			ID:         primitive.NewObjectID(),
			PatientID:  patientID,
			ExerciseID: exerciseA,
			StartTime:  base.Add(time.Duration(i) * time.Minute),
			Status:     models.SessionCompleted,
		}
		session.SessionID = session.ID.Hex()
		require.NoError(t, store.Insert(context.Background(), session))
	}
	otherSession := &models.Session{
		ID:         primitive.NewObjectID(),
		PatientID:  patientID,
		ExerciseID: exerciseB,
		StartTime:  base.Add(time.Hour),
		Status:     models.SessionActive,
	}
	otherSession.SessionID = otherSession.ID.Hex()
	require.NoError(t, store.Insert(context.Background(), otherSession))

	all, err := svc.History(context.Background(), patientID.Hex(), HistoryQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, otherSession.SessionID, all[0].SessionID)

	filtered, err := svc.History(context.Background(), patientID.Hex(), HistoryQuery{Limit: 10, ExerciseID: exerciseA.Hex()})
	require.NoError(t, err)
	assert.Len(t, filtered, 3)

	active, err := svc.History(context.Background(), patientID.Hex(), HistoryQuery{Limit: 10, Status: models.SessionActive})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	paged, err := svc.History(context.Background(), patientID.Hex(), HistoryQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 2)
}

func TestDoctorSessions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})

	doctorID := primitive.NewObjectID()
	patientA := primitive.NewObjectID()
	patientB := primitive.NewObjectID()

	for _, pid := range []primitive.ObjectID{patientA, patientA, patientB} {
		did := doctorID
		session := &models.Session{
			ID:         primitive.NewObjectID(),
			PatientID:  pid,
			DoctorID:   &did,
			ExerciseID: primitive.NewObjectID(),
			StartTime:  time.Now().UTC(),
			Status:     models.SessionCompleted,
		}
		session.SessionID = session.ID.Hex()
		require.NoError(t, store.Insert(context.Background(), session))
	}

	all, err := svc.DoctorSessions(context.Background(), doctorID.Hex(), DoctorQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := svc.DoctorSessions(context.Background(), doctorID.Hex(), DoctorQuery{Limit: 10, PatientID: patientA.Hex()})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
}

func TestScenarioWithDoctor(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	analyzer := &stubAnalyzer{results: []*PoseAnalysis{
		{Accuracy: 90, IsRepComplete: true},
		{Accuracy: 75, IsRepComplete: false},
		{Accuracy: 85, IsRepComplete: true},
	}}
	svc := newTestService(store, analyzer, dispatcher)

	session := startSession(t, svc, true)

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitFrame(context.Background(), session.SessionID, landmarks(), "squat")
		require.NoError(t, err)
	}

	ended, err := svc.End(context.Background(), session.SessionID, EndSummary{
		TotalReps:    2,
		AverageScore: 80,
		MaxScore:     90,
		MinScore:     70,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, ended.Status)
	assert.Equal(t, 2, ended.TotalReps)
	assert.Equal(t, 80.0, ended.AverageScore)

	kinds := dispatcher.kinds()
	require.Equal(t, []string{EventSessionStarted, EventSessionCompleted}, kinds)

	// The completed event snapshot carries the doctor for notification routing.
	completed := dispatcher.events[len(dispatcher.events)-1]
	require.NotNil(t, completed.Session.DoctorID)
	assert.Equal(t, *session.DoctorID, *completed.Session.DoctorID)
}

func TestSummarize(t *testing.T) {
	doctorID := primitive.NewObjectID()
	end := time.Now().UTC()
	session := &models.Session{
		ID:              primitive.NewObjectID(),
		PatientID:       primitive.NewObjectID(),
		DoctorID:        &doctorID,
		ExerciseID:      primitive.NewObjectID(),
		StartTime:       end.Add(-5 * time.Minute),
		EndTime:         &end,
		Duration:        300,
		Status:          models.SessionCompleted,
		TotalReps:       12,
		AverageScore:    85,
		OverallFeedback: []string{"Good form overall", "Go deeper on the squats"},
		VideoURL:        "/videos/session1.mp4",
	}

	summary := Summarize(session)

	assert.Equal(t, session.ID.Hex(), summary.ID)
	assert.Equal(t, doctorID.Hex(), summary.DoctorID)
	assert.Equal(t, 12, summary.Reps)
	require.NotNil(t, summary.Score)
	assert.Equal(t, 85.0, *summary.Score)
	require.NotNil(t, summary.Feedback)
	assert.Equal(t, "Good form overall, Go deeper on the squats", *summary.Feedback)
	require.NotNil(t, summary.EndTime)
}

func TestSummarizeFreshSession(t *testing.T) {
	session := &models.Session{
		ID:         primitive.NewObjectID(),
		PatientID:  primitive.NewObjectID(),
		ExerciseID: primitive.NewObjectID(),
		StartTime:  time.Now().UTC(),
		Status:     models.SessionActive,
	}

	summary := Summarize(session)

	assert.Nil(t, summary.Score)
	assert.Nil(t, summary.EndTime)
	assert.Nil(t, summary.Feedback)
	assert.Empty(t, summary.DoctorID)
	assert.Zero(t, summary.Reps)
}

func TestResolveConditionalMissDistinguishesErrors(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &stubAnalyzer{}, &recordingDispatcher{})

	// Missing session surfaces as not found, not invalid state.
	err := svc.Pause(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrInvalidState))
}
