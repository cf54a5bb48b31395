package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/controllers"
	"github.com/team-nuri/api-go/middleware"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, mailer *utils.Mailer) {
	authController := controllers.NewAuthController(db, mailer)
	userController := controllers.NewUserController(db)
	messageController := controllers.NewMessageController(db)
	reportController := controllers.NewReportController(db, mailer)
	notificationController := controllers.NewNotificationController(db)
	uploadController := controllers.NewUploadController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/signup", authController.SignUp)
		public.GET("/verify-email/:uid/:token", authController.VerifyEmail)
		public.POST("/login", authController.Login)
		public.POST("/refresh-token", authController.RefreshToken)
		public.PUT("/password-reset-request", authController.PasswordResetRequest)
		public.GET("/password-reset-check/:uid/:token", authController.PasswordResetCheck)
		public.PUT("/password-reset-confirm", authController.PasswordResetConfirm)
		public.POST("/social-login/kakao", authController.KakaoLogin)
		public.GET("/home-user-list", userController.HomeUserList)
		public.GET("/profile/:userId", userController.GetProfile)
		public.GET("/subscribe/:userId", userController.GetSubscribers)

		// Message detail is readable anonymously; the read receipt only
		// fires for the authenticated receiver.
		public.GET("/messages/:id", middleware.OptionalAuthMiddleware(), messageController.GetMessage)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.PUT("/password-change/:userId", authController.PasswordChange)

		SetupUserRoutes(protected, userController, reportController, notificationController)
		SetupMessageRoutes(protected, messageController)
		SetupUploadRoutes(protected, uploadController)
	}
}
