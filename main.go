package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	controller "github.com/amanpal02x/Cask-Ai-sub001/controllers"
	"github.com/amanpal02x/Cask-Ai-sub001/database"
	"github.com/amanpal02x/Cask-Ai-sub001/middleware"
	"github.com/amanpal02x/Cask-Ai-sub001/presence"
	"github.com/amanpal02x/Cask-Ai-sub001/repositories"
	"github.com/amanpal02x/Cask-Ai-sub001/routes"
	"github.com/amanpal02x/Cask-Ai-sub001/services"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mlBackendURL := os.Getenv("ML_BACKEND_URL")
	if mlBackendURL == "" {
		mlBackendURL = "http://localhost:8000"
	}

	if err := database.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("mongodb unreachable")
	}

	sessionRepo := repositories.NewSessionRepository(database.OpenCollection(database.Client, "session"))
	activityRepo := repositories.NewActivityRepository(database.OpenCollection(database.Client, "activity"))
	notificationRepo := repositories.NewNotificationRepository(database.OpenCollection(database.Client, "notification"))

	dispatcher := services.NewSideEffectDispatcher(activityRepo, notificationRepo, log)
	dispatcher.Start()
	defer dispatcher.Close()

	analyzer := services.NewMLClient(mlBackendURL, 5*time.Second)
	sessionService := services.NewSessionService(sessionRepo, analyzer, dispatcher, log)

	registry := presence.NewRegistry()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getClientOrigin()},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "message": "API is healthy"})
	})

	// Public routes
	publicRoutes := router.Group("/")
	{
		publicRoutes.POST("/signup", controller.SignUp())
		publicRoutes.POST("/login", controller.Login())
		publicRoutes.POST("/refresh", controller.RefreshToken())
	}

	// Private routes
	privateRoutes := router.Group("/api")
	privateRoutes.Use(middleware.Authentication())
	{
		routes.UserRoutes(privateRoutes)
		routes.ExerciseRoutes(privateRoutes)
		routes.SessionRoutes(privateRoutes, sessionService)
		routes.ActivityRoutes(privateRoutes)
		routes.NotificationRoutes(privateRoutes)
		privateRoutes.GET("/ws", presence.Handler(registry, log))
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getClientOrigin() string {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return origin
}
