package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amanpal02x/Cask-Ai-sub001/database"
	"github.com/amanpal02x/Cask-Ai-sub001/models"
	"github.com/amanpal02x/Cask-Ai-sub001/repositories"
)

var notificationRepo = repositories.NewNotificationRepository(database.OpenCollection(database.Client, "notification"))

// GetNotifications lists the authenticated user's notifications.
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recipientID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)
		if limit < 1 || limit > 100 {
			limit = 20
		}
		unreadOnly := c.Query("unread") == "true"

		notifications, err := notificationRepo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while fetching notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications, "limit": limit, "offset": offset})
	}
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recipientID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		matched, err := notificationRepo.MarkRead(ctx, c.Param("notification_id"), recipientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating notification"})
			return
		}
		if !matched {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

// MarkAllNotificationsRead flags every unread notification for the caller.
func MarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recipientID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		updated, err := notificationRepo.MarkAllRead(ctx, recipientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read", "updated": updated})
	}
}

// ArchiveNotification hides a notification from the caller's list.
func ArchiveNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recipientID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		matched, err := notificationRepo.Archive(ctx, c.Param("notification_id"), recipientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating notification"})
			return
		}
		if !matched {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Notification archived"})
	}
}

// SendRecommendation lets a doctor send a recommendation to a linked
// patient. The doctor's note is a notification, never a session mutation.
func SendRecommendation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.GetString("role") != "doctor" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors can send recommendations"})
			return
		}

		var requestBody struct {
			PatientID string `json:"patient_id" validate:"required"`
			Title     string `json:"title" validate:"required"`
			Message   string `json:"message" validate:"required"`
			SessionID string `json:"session_id"`
		}

		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		validationErr := validate.Struct(requestBody)
		if validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		doctorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
			return
		}
		patientID, err := primitive.ObjectIDFromHex(requestBody.PatientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
			return
		}

		count, err := patientDoctorCollection.CountDocuments(ctx, bson.M{
			"patient_id": patientID,
			"doctor_id":  doctorID,
			"status":     models.LinkActive,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Patient is not linked to this doctor"})
			return
		}

		now := time.Now().UTC()
		notification := models.Notification{
			ID:          primitive.NewObjectID(),
			RecipientID: patientID,
			SenderID:    &doctorID,
			Type:        models.NotificationDoctorMessage,
			Title:       requestBody.Title,
			Message:     requestBody.Message,
			Data: models.NotificationData{
				Priority: models.PriorityMedium,
				Category: "recommendation",
			},
			DeliveryMethod: []string{"in_app"},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		notification.NotificationID = notification.ID.Hex()

		if requestBody.SessionID != "" {
			if sid, err := primitive.ObjectIDFromHex(requestBody.SessionID); err == nil {
				notification.SessionID = &sid
			}
		}

		if err := notificationRepo.Insert(ctx, &notification); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while sending recommendation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Recommendation sent", "notification_id": notification.NotificationID})
	}
}
