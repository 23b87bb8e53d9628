package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/amanpal02x/Cask-Ai-sub001/helpers"
	"github.com/amanpal02x/Cask-Ai-sub001/models"
	"github.com/amanpal02x/Cask-Ai-sub001/services"
)

// StartSession creates a new active session for the authenticated patient.
func StartSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var requestBody struct {
			ExerciseID string             `json:"exerciseId" validate:"required"`
			DoctorID   string             `json:"doctorId"`
			DeviceInfo *models.DeviceInfo `json:"deviceInfo"`
		}

		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		validationErr := validate.Struct(requestBody)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		patientID := c.GetString("user_id")
		session, err := svc.Start(ctx, patientID, requestBody.ExerciseID, requestBody.DoctorID, requestBody.DeviceInfo)
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusCreated, services.Summarize(session))
	}
}

// EndSession completes a session with the caller's authoritative summary.
func EndSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sessionID := c.Param("session_id")

		var summary services.EndSummary
		if err := c.BindJSON(&summary); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		validationErr := validate.Struct(summary)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		session, err := svc.End(ctx, sessionID, summary)
		if err != nil {
			// A double End and a missing session answer the same way; the
			// distinction lives in the log.
			if errors.Is(err, services.ErrInvalidState) {
				log.Warn().Str("session_id", sessionID).Msg("end rejected: session already completed")
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, services.Summarize(session))
	}
}

// AnalyzeFrame scores one pose sample and appends it to the session log.
func AnalyzeFrame(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sessionID := c.Param("session_id")

		var requestBody struct {
			Landmarks []models.PoseLandmark `json:"landmarks"`
			Exercise  string                `json:"exercise"`
		}

		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if len(requestBody.Landmarks) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Landmarks are required"})
			return
		}

		result, err := svc.SubmitFrame(ctx, sessionID, requestBody.Landmarks, requestBody.Exercise)
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// CancelSession aborts an active or paused session.
func CancelSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := svc.Cancel(ctx, c.Param("session_id"))
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, services.Summarize(session))
	}
}

// PauseSession and ResumeSession flip between active and paused.
func PauseSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Pause(ctx, c.Param("session_id")); err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Session paused"})
	}
}

func ResumeSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Resume(ctx, c.Param("session_id")); err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Session resumed"})
	}
}

// GetSession returns one session summary.
func GetSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := svc.Get(ctx, c.Param("session_id"))
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, services.Summarize(session))
	}
}

// GetSessionHistory lists the authenticated patient's sessions.
func GetSessionHistory(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		q := services.HistoryQuery{
			Limit:      queryInt(c, "limit", 10),
			Offset:     queryInt(c, "offset", 0),
			ExerciseID: c.Query("exerciseId"),
			Status:     c.Query("status"),
		}

		sessions, err := svc.History(ctx, c.GetString("user_id"), q)
		if err != nil {
			sessionError(c, err)
			return
		}

		summaries := make([]models.SessionSummary, 0, len(sessions))
		for i := range sessions {
			summaries = append(summaries, services.Summarize(&sessions[i]))
		}

		c.JSON(http.StatusOK, gin.H{"sessions": summaries, "limit": q.Limit, "offset": q.Offset})
	}
}

// GetDoctorSessions lists sessions supervised by the authenticated doctor.
func GetDoctorSessions(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.GetString("role") != "doctor" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors can view patient sessions"})
			return
		}

		q := services.DoctorQuery{
			Limit:      queryInt(c, "limit", 10),
			Offset:     queryInt(c, "offset", 0),
			PatientID:  c.Query("patientId"),
			ExerciseID: c.Query("exerciseId"),
		}

		sessions, err := svc.DoctorSessions(ctx, c.GetString("user_id"), q)
		if err != nil {
			sessionError(c, err)
			return
		}

		summaries := make([]models.SessionSummary, 0, len(sessions))
		for i := range sessions {
			summaries = append(summaries, services.Summarize(&sessions[i]))
		}

		c.JSON(http.StatusOK, gin.H{"sessions": summaries, "limit": q.Limit, "offset": q.Offset})
	}
}

// UploadSessionVideo attaches recording URLs to a session. Allowed after
// the session ended, since uploads finish late.
func UploadSessionVideo(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var requestBody struct {
			VideoURL     string `json:"videoUrl" validate:"required"`
			ThumbnailURL string `json:"thumbnailUrl"`
		}

		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		validationErr := validate.Struct(requestBody)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		session, err := svc.AttachVideo(ctx, c.Param("session_id"), requestBody.VideoURL, requestBody.ThumbnailURL)
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, services.Summarize(session))
	}
}

// UploadRecording is the multipart fallback for clients that cannot use the
// presigned PUT: the server streams the file to the bucket, then attaches
// the object key to the session.
func UploadRecording(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		file, _, err := c.Request.FormFile("video")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Video file is required"})
			return
		}
		defer file.Close()

		sessionID := c.Param("session_id")
		key, err := helpers.UploadRecording(sessionID, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload recording"})
			return
		}

		session, err := svc.AttachVideo(ctx, sessionID, key, "")
		if err != nil {
			sessionError(c, err)
			return
		}

		c.JSON(http.StatusOK, services.Summarize(session))
	}
}

// GetRecordingUploadURL presigns a PUT for the session recording.
func GetRecordingUploadURL() gin.HandlerFunc {
	return func(c *gin.Context) {
		signedURL, err := helpers.RecordingUploadURL(c.Param("session_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate signed URL"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"upload_url": signedURL})
	}
}

// GetRecordingDownloadURL presigns a GET for playback.
func GetRecordingDownloadURL() gin.HandlerFunc {
	return func(c *gin.Context) {
		signedURL, err := helpers.RecordingDownloadURL(c.Param("session_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate signed URL"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"download_url": signedURL})
	}
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session is not in a valid state for this operation"})
	case errors.Is(err, services.ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Pose analysis failed"})
	default:
		log.Error().Err(err).Msg("session operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
