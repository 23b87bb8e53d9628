package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/amanpal02x/Cask-Ai-sub001/controllers"
	"github.com/amanpal02x/Cask-Ai-sub001/services"
)

func SessionRoutes(incomingRoutes *gin.RouterGroup, svc *services.SessionService) {
	incomingRoutes.POST("/sessions/start", controller.StartSession(svc))
	incomingRoutes.GET("/sessions/history", controller.GetSessionHistory(svc))
	incomingRoutes.GET("/sessions/:session_id", controller.GetSession(svc))
	incomingRoutes.POST("/sessions/:session_id/end", controller.EndSession(svc))
	incomingRoutes.POST("/sessions/:session_id/analyze", controller.AnalyzeFrame(svc))
	incomingRoutes.POST("/sessions/:session_id/cancel", controller.CancelSession(svc))
	incomingRoutes.POST("/sessions/:session_id/pause", controller.PauseSession(svc))
	incomingRoutes.POST("/sessions/:session_id/resume", controller.ResumeSession(svc))
	incomingRoutes.POST("/sessions/:session_id/video", controller.UploadSessionVideo(svc))
	incomingRoutes.POST("/sessions/:session_id/recording", controller.UploadRecording(svc))
	incomingRoutes.GET("/sessions/:session_id/upload-url", controller.GetRecordingUploadURL())
	incomingRoutes.GET("/sessions/:session_id/download-url", controller.GetRecordingDownloadURL())
	incomingRoutes.GET("/doctor/sessions", controller.GetDoctorSessions(svc))
}
