package routes

import (
	"github.com/adamyamd/Missionary-Trainer-ENG/controllers"

	"github.com/gin-gonic/gin"
)

// SetupTrainerRoutes registers the practice form page and the round API.
func SetupTrainerRoutes(router *gin.Engine, sessionController *controllers.SessionController, roundController *controllers.RoundController) {
	router.StaticFile("/", "./static/index.html")

	router.GET("/topics", sessionController.GetTopics)
	router.POST("/session", sessionController.CreateSession)
	router.GET("/session/:id/history", sessionController.GetHistory)
	router.POST("/session/:id/newRound", sessionController.NextRound)
	router.POST("/session/:id/round", roundController.SubmitRound)
}
