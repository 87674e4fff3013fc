package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the staff-only complaint administration routes.
func AdminRoutes(r *gin.Engine, ctrl *controllers.AdminController, auth, staff gin.HandlerFunc) {
	group := r.Group("/api/admin", auth, staff)
	{
		group.GET("/complaints", ctrl.GetAllComplaints)
		group.PUT("/verify/:id", ctrl.Verify)
		group.PUT("/assign/:id", ctrl.Assign)
		group.PUT("/escalate/:id", ctrl.Escalate)
		group.PUT("/resolve/:id", ctrl.Resolve)
		group.GET("/analytics", ctrl.Analytics)
	}
}
