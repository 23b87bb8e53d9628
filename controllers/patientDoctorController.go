package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amanpal02x/Cask-Ai-sub001/database"
	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

var patientDoctorCollection *mongo.Collection = database.OpenCollection(database.Client, "patient_doctor")

// LinkToDoctor lets a patient request supervision from a doctor.
func LinkToDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		type RequestBody struct {
			DoctorID string `json:"doctor_id" binding:"required"`
		}
		var requestBody RequestBody

		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		userID := c.Param("user_id")
		if userID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot link on behalf of another user"})
			return
		}

		var patient models.User
		if err := userCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&patient); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if patient.Role != "patient" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only patients can link to doctors"})
			return
		}

		var doctor models.User
		if err := userCollection.FindOne(ctx, bson.M{"user_id": requestBody.DoctorID, "role": "doctor"}).Decode(&doctor); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
			return
		}

		count, err := patientDoctorCollection.CountDocuments(ctx, bson.M{
			"patient_id": patient.ID,
			"doctor_id":  doctor.ID,
			"status":     bson.M{"$in": bson.A{models.LinkPending, models.LinkActive}},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Link already exists"})
			return
		}

		now := time.Now().UTC()
		link := models.PatientDoctor{
			ID:        primitive.NewObjectID(),
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Status:    models.LinkPending,
			StartedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		link.LinkID = link.ID.Hex()

		if _, err := patientDoctorCollection.InsertOne(ctx, link); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while creating link"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Link requested", "link_id": link.LinkID})
	}
}

// RespondToLink lets a doctor accept or terminate a pending link.
func RespondToLink() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.GetString("role") != "doctor" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors can respond to link requests"})
			return
		}

		type RequestBody struct {
			Accept bool `json:"accept"`
		}
		var requestBody RequestBody
		if err := c.BindJSON(&requestBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		doctorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
			return
		}

		status := models.LinkActive
		if !requestBody.Accept {
			status = models.LinkTerminated
		}

		set := bson.D{
			{Key: "status", Value: status},
			{Key: "updated_at", Value: time.Now().UTC()},
		}
		if !requestBody.Accept {
			set = append(set, bson.E{Key: "ended_at", Value: time.Now().UTC()})
		}

		filter := bson.M{
			"link_id":   c.Param("link_id"),
			"doctor_id": doctorID,
			"status":    models.LinkPending,
		}

		result, err := patientDoctorCollection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating link"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending link not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Link updated", "status": status})
	}
}

// GetPatients lists a doctor's actively linked patients.
func GetPatients() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		doctorID := c.Param("doctor_id")
		if doctorID != c.GetString("user_id") || c.GetString("role") != "doctor" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the doctor can view their patients"})
			return
		}

		did, err := primitive.ObjectIDFromHex(doctorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
			return
		}

		matchStage := bson.D{{Key: "$match", Value: bson.D{
			{Key: "doctor_id", Value: did},
			{Key: "status", Value: models.LinkActive},
		}}}
		lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "user"},
			{Key: "localField", Value: "patient_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "patient"},
		}}}
		unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$patient"},
			{Key: "preserveNullAndEmptyArrays", Value: false},
		}}}
		projectStage := bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "link_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "started_at", Value: 1},
			{Key: "patient_id", Value: "$patient.user_id"},
			{Key: "patient_name", Value: bson.D{{Key: "$concat", Value: bson.A{"$patient.first_name", " ", "$patient.last_name"}}}},
			{Key: "patient_email", Value: "$patient.email"},
		}}}

		cursor, err := patientDoctorCollection.Aggregate(ctx, mongo.Pipeline{matchStage, lookupStage, unwindStage, projectStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while fetching patients"})
			return
		}

		var patients []bson.M
		if err = cursor.All(ctx, &patients); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while decoding patients"})
			return
		}

		c.JSON(http.StatusOK, patients)
	}
}
