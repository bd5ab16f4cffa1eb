package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/okkyra/panelist/internal/api/handlers"
)

type Deps struct {
	Generate *handlers.GenerateHandler
	Chat     *handlers.ChatHandler
	Call     *handlers.CallHandler
	Feedback *handlers.FeedbackHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/generate", d.Generate.Generate)

	r.GET("/chat/:persona_id", d.Chat.Context)
	r.POST("/api/chat/:persona_id", d.Chat.Reply)
	r.POST("/api/call/:persona_id", d.Call.Turn)

	r.POST("/summarize_feedback", d.Feedback.Summarize)
	r.POST("/apply_feedback", d.Feedback.Apply)
}
