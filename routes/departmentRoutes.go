package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// DepartmentRoutes sets up the department account routes. Login stays
// public; everything else requires a staff identity.
func DepartmentRoutes(r *gin.Engine, ctrl *controllers.DepartmentController, auth, staff gin.HandlerFunc) {
	group := r.Group("/api/department")
	{
		group.POST("/login", ctrl.Login)
		group.POST("/register", auth, staff, ctrl.Register)
		group.GET("/complaints", auth, staff, ctrl.Complaints)
		group.GET("/complaints/:dept", auth, staff, ctrl.Complaints)
		group.PUT("/update/:id", auth, staff, ctrl.UpdateStatus)
		group.GET("", auth, staff, ctrl.List)
	}
}
