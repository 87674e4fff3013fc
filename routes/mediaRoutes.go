package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// MediaRoutes sets up the evidence upload route.
func MediaRoutes(r *gin.Engine, ctrl *controllers.MediaController, auth gin.HandlerFunc) {
	group := r.Group("/api/media")
	{
		group.POST("/upload", auth, ctrl.Upload)
	}
}
