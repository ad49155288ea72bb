package api

import (
	"net/http"

	"revisionai/internal/api/handlers"
	"revisionai/internal/web"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the page, quiz and health routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler) {
	router.StaticFS("/static", http.FS(web.Static()))

	router.GET("/", handler.HandleIndex)                // Upload form
	router.POST("/", handler.HandleGenerate)            // Upload a document, render review sheets and quiz
	router.POST("/check_quiz", handler.HandleCheckQuiz) // Grade the submitted quiz against the session's answers

	router.GET("/healthz", handler.HandleHealth)
}
