package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/amanpal02x/Cask-Ai-sub001/controllers"
)

func ActivityRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.GET("/activities", controller.GetActivities())
	incomingRoutes.PUT("/activities/:activity_id/read", controller.MarkActivityRead())
	incomingRoutes.PUT("/activities/:activity_id/archive", controller.ArchiveActivity())
}
