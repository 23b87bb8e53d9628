package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
	"github.com/amanpal02x/Cask-Ai-sub001/services"
)

// SessionRepository is the mongo-backed services.SessionStore. Every
// state-dependent write uses a conditional filter so the state check and the
// mutation are one atomic document update.
type SessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(collection *mongo.Collection) *SessionRepository {
	return &SessionRepository{collection: collection}
}

// nonTerminal matches sessions still accepting frame and rep mutations.
func nonTerminal(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id":    id,
		"status": bson.M{"$in": bson.A{models.SessionActive, models.SessionPaused}},
	}
}

func (r *SessionRepository) Insert(ctx context.Context, session *models.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var session models.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) AppendFrame(ctx context.Context, id primitive.ObjectID, frame models.PoseFrame) error {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "pose_frames", Value: frame}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}

	result, err := r.collection.UpdateOne(ctx, nonTerminal(id), update)
	if err != nil {
		return fmt.Errorf("append frame: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) IncrementReps(ctx context.Context, id primitive.ObjectID) (int, error) {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "total_reps", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.collection.FindOneAndUpdate(ctx, nonTerminal(id), update, opts).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, services.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment reps: %w", err)
	}
	return session.TotalReps, nil
}

func (r *SessionRepository) Complete(ctx context.Context, id primitive.ObjectID, endTime time.Time, duration int64, summary services.EndSummary) (*models.Session, error) {
	repAnalysis := summary.RepAnalysis
	if repAnalysis == nil {
		repAnalysis = []models.RepAnalysis{}
	}

	set := bson.D{
		{Key: "status", Value: models.SessionCompleted},
		{Key: "end_time", Value: endTime},
		{Key: "duration", Value: duration},
		{Key: "total_reps", Value: summary.TotalReps},
		{Key: "average_score", Value: summary.AverageScore},
		{Key: "max_score", Value: summary.MaxScore},
		{Key: "min_score", Value: summary.MinScore},
		{Key: "overall_feedback", Value: summary.OverallFeedback},
		{Key: "improvement_areas", Value: summary.ImprovementAreas},
		{Key: "strengths", Value: summary.Strengths},
		{Key: "rep_analysis", Value: repAnalysis},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	if summary.VideoURL != "" {
		set = append(set, bson.E{Key: "video_url", Value: summary.VideoURL})
	}

	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.SessionCompleted}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Cancel(ctx context.Context, id primitive.ObjectID, endTime time.Time) (*models.Session, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: models.SessionCancelled},
		{Key: "end_time", Value: endTime},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.collection.FindOneAndUpdate(ctx, nonTerminal(id), update, opts).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: to},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("set status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *SessionRepository) SetVideo(ctx context.Context, id primitive.ObjectID, videoURL, thumbnailURL string) (*models.Session, error) {
	set := bson.D{
		{Key: "video_url", Value: videoURL},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	if thumbnailURL != "" {
		set = append(set, bson.E{Key: "thumbnail_url", Value: thumbnailURL})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set video: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) FindByPatient(ctx context.Context, patientID primitive.ObjectID, q services.HistoryQuery) ([]models.Session, error) {
	filter := bson.M{"patient_id": patientID}
	if q.ExerciseID != "" {
		if eid, err := primitive.ObjectIDFromHex(q.ExerciseID); err == nil {
			filter["exercise_id"] = eid
		}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	return r.find(ctx, filter, q.Limit, q.Offset)
}

func (r *SessionRepository) FindByDoctor(ctx context.Context, doctorID primitive.ObjectID, q services.DoctorQuery) ([]models.Session, error) {
	filter := bson.M{"doctor_id": doctorID}
	if q.PatientID != "" {
		if pid, err := primitive.ObjectIDFromHex(q.PatientID); err == nil {
			filter["patient_id"] = pid
		}
	}
	if q.ExerciseID != "" {
		if eid, err := primitive.ObjectIDFromHex(q.ExerciseID); err == nil {
			filter["exercise_id"] = eid
		}
	}
	return r.find(ctx, filter, q.Limit, q.Offset)
}

func (r *SessionRepository) find(ctx context.Context, filter bson.M, limit, offset int) ([]models.Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}
