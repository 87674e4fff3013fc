package routes

import (
	"civicvoice-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the citizen OTP authentication routes.
func AuthRoutes(r *gin.Engine, ctrl *controllers.AuthController, auth, otpLimiter gin.HandlerFunc) {
	group := r.Group("/api/auth")
	{
		group.POST("/request-otp", otpLimiter, ctrl.RequestOTP)
		group.POST("/verify-otp", ctrl.VerifyOTP)
		group.GET("/me", auth, ctrl.GetMe)
	}
}
