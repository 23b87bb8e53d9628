package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/amanpal02x/Cask-Ai-sub001/controllers"
)

func NotificationRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.GET("/notifications", controller.GetNotifications())
	incomingRoutes.PUT("/notifications/read-all", controller.MarkAllNotificationsRead())
	incomingRoutes.PUT("/notifications/:notification_id/read", controller.MarkNotificationRead())
	incomingRoutes.PUT("/notifications/:notification_id/archive", controller.ArchiveNotification())
	incomingRoutes.POST("/notifications/recommendation", controller.SendRecommendation())
}
