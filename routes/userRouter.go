package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/amanpal02x/Cask-Ai-sub001/controllers"
)

func UserRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.GET("/user/:user_id", controller.GetUser())
	incomingRoutes.PUT("/user/:user_id", controller.UpdateUser())
	incomingRoutes.POST("/user/linkToDoctor/:user_id", controller.LinkToDoctor())
	incomingRoutes.PUT("/links/:link_id/respond", controller.RespondToLink())
	incomingRoutes.GET("/patients/:doctor_id", controller.GetPatients())
}
