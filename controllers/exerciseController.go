package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amanpal02x/Cask-Ai-sub001/database"
	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

var exerciseCollection *mongo.Collection = database.OpenCollection(database.Client, "exercise")
var validate = validator.New()

func GetExercises() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recordPerPage, err := strconv.Atoi(c.Query("recordPerPage"))
		if err != nil || recordPerPage < 1 {
			recordPerPage = 10
		}

		page, err := strconv.Atoi(c.Query("page"))
		if err != nil || page < 1 {
			page = 1
		}

		startIndex := (page - 1) * recordPerPage

		match := bson.D{}
		if exerciseType := c.Query("type"); exerciseType != "" {
			match = append(match, bson.E{Key: "type", Value: exerciseType})
		}
		if difficulty := c.Query("difficulty"); difficulty != "" {
			match = append(match, bson.E{Key: "difficulty", Value: difficulty})
		}

		matchStage := bson.D{{Key: "$match", Value: match}}
		countStage := bson.D{{Key: "$count", Value: "total"}}
		skipStage := bson.D{{Key: "$skip", Value: startIndex}}
		limitStage := bson.D{{Key: "$limit", Value: recordPerPage}}

		countResult, err := exerciseCollection.Aggregate(ctx, mongo.Pipeline{matchStage, countStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while counting exercises"})
			return
		}
		var countData []bson.M
		if err = countResult.All(ctx, &countData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while counting exercises"})
			return
		}
		totalCount := 0
		if len(countData) > 0 {
			totalCount = int(countData[0]["total"].(int32))
		}

		result, err := exerciseCollection.Aggregate(ctx, mongo.Pipeline{matchStage, skipStage, limitStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while fetching exercises"})
			return
		}

		var exercises []bson.M
		if err = result.All(ctx, &exercises); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while fetching exercises"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total":     totalCount,
			"exercises": exercises,
		})
	}
}

func GetExercise() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		exerciseID := c.Param("exercise_id")
		var exercise models.Exercise

		err := exerciseCollection.FindOne(ctx, bson.M{"exercise_id": exerciseID}).Decode(&exercise)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
			return
		}
		c.JSON(http.StatusOK, exercise)
	}
}

func CreateExercise() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var exercise models.Exercise
		if err := c.BindJSON(&exercise); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		validationError := validate.Struct(exercise)
		if validationError != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationError.Error()})
			return
		}

		exercise.CreatedAt = time.Now().UTC()
		exercise.UpdatedAt = time.Now().UTC()
		exercise.ID = primitive.NewObjectID()
		exercise.ExerciseID = exercise.ID.Hex()

		result, insertErr := exerciseCollection.InsertOne(ctx, exercise)
		if insertErr != nil {
			msg := fmt.Sprintf("Error while inserting exercise: %s", insertErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateExercise() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var exercise models.Exercise
		if err := c.BindJSON(&exercise); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		exerciseID := c.Param("exercise_id")
		filter := bson.M{"exercise_id": exerciseID}

		var updateObj primitive.D

		if exercise.Name != nil {
			updateObj = append(updateObj, bson.E{Key: "name", Value: exercise.Name})
		}
		if exercise.Description != nil {
			updateObj = append(updateObj, bson.E{Key: "description", Value: exercise.Description})
		}
		if exercise.Type != "" {
			updateObj = append(updateObj, bson.E{Key: "type", Value: exercise.Type})
		}
		if exercise.Difficulty != "" {
			updateObj = append(updateObj, bson.E{Key: "difficulty", Value: exercise.Difficulty})
		}
		if exercise.TargetReps > 0 {
			updateObj = append(updateObj, bson.E{Key: "target_reps", Value: exercise.TargetReps})
		}
		if exercise.TargetDuration > 0 {
			updateObj = append(updateObj, bson.E{Key: "target_duration", Value: exercise.TargetDuration})
		}
		if exercise.Instructions != nil {
			updateObj = append(updateObj, bson.E{Key: "instructions", Value: exercise.Instructions})
		}
		if exercise.VideoURL != "" {
			updateObj = append(updateObj, bson.E{Key: "video_url", Value: exercise.VideoURL})
		}
		if exercise.Tags != nil {
			updateObj = append(updateObj, bson.E{Key: "tags", Value: exercise.Tags})
		}

		updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now().UTC()})

		upsert := true
		opt := options.UpdateOptions{
			Upsert: &upsert,
		}

		result, err := exerciseCollection.UpdateOne(
			ctx,
			filter,
			bson.D{{Key: "$set", Value: updateObj}},
			&opt,
		)
		if err != nil {
			msg := fmt.Sprintf("Exercise update failed: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func DeleteExercise() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		exerciseID := c.Param("exercise_id")

		result, err := exerciseCollection.DeleteOne(ctx, bson.M{"exercise_id": exerciseID})
		if err != nil {
			msg := fmt.Sprintf("Error while deleting exercise: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Deleted exercise successfully"})
	}
}
