package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController, reportController *controllers.ReportController, notificationController *controllers.NotificationController) {
	protected.PATCH("/profile/:userId", userController.UpdateProfile)
	protected.DELETE("/profile/:userId", userController.Deactivate)

	protected.POST("/subscribe/:userId", userController.ToggleSubscription)

	protected.POST("/report/:userId", reportController.ReportUser)

	protected.GET("/email-notification", notificationController.GetSettings)
	protected.POST("/email-notification", notificationController.ToggleSettings)
}
