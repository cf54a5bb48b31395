package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/controllers"
)

func SetupMessageRoutes(protected *gin.RouterGroup, messageController *controllers.MessageController) {
	messages := protected.Group("/messages")
	{
		messages.GET("/inbox", messageController.Inbox)
		messages.GET("/sent", messageController.Sent)
		messages.POST("", messageController.SendMessage)
		messages.POST("/:id/reply", messageController.ReplyMessage)
		messages.DELETE("/:id", messageController.DeleteMessage)
	}
}
