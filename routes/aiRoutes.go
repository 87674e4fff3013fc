package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// AIRoutes sets up the Gemini passthrough routes.
func AIRoutes(r *gin.Engine, ctrl *controllers.AIController) {
	group := r.Group("/api/ai")
	{
		group.POST("/summarize", ctrl.Summarize)
		group.POST("/chat", ctrl.Chat)
	}
}
