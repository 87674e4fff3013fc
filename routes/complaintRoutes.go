package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// ComplaintRoutes sets up the citizen-facing complaint routes. The public
// map listing stays before the :id wildcard.
func ComplaintRoutes(r *gin.Engine, ctrl *controllers.ComplaintController, auth, limiter gin.HandlerFunc) {
	group := r.Group("/api/complaints")
	{
		group.POST("", auth, limiter, ctrl.Create)
		group.GET("/public/list", ctrl.GetPublic)
		group.GET("/my-complaints", auth, ctrl.GetMine)
		group.GET("", ctrl.GetAll)
		group.GET("/:id", ctrl.GetByID)
		group.POST("/:id/upvote", auth, ctrl.Upvote)
		group.POST("/:id/rate", auth, ctrl.Rate)
	}
}
