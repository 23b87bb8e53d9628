package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amanpal02x/Cask-Ai-sub001/database"
	"github.com/amanpal02x/Cask-Ai-sub001/repositories"
)

var activityRepo = repositories.NewActivityRepository(database.OpenCollection(database.Client, "activity"))

// GetActivities lists the authenticated user's activity feed.
func GetActivities() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)
		if limit < 1 || limit > 100 {
			limit = 20
		}

		activities, err := activityRepo.ListByUser(ctx, userID, c.Query("type"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while fetching activities"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"activities": activities, "limit": limit, "offset": offset})
	}
}

// MarkActivityRead flags one activity as read.
func MarkActivityRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		matched, err := activityRepo.MarkRead(ctx, c.Param("activity_id"), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating activity"})
			return
		}
		if !matched {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Activity marked as read"})
	}
}

// ArchiveActivity hides an activity from the caller's feed.
func ArchiveActivity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		matched, err := activityRepo.Archive(ctx, c.Param("activity_id"), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating activity"})
			return
		}
		if !matched {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Activity archived"})
	}
}
