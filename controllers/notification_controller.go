package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func (nc *NotificationController) GetSettings(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var settings models.EmailNotificationSetting
	if err := nc.DB.Where("user_id = ?", currentUser.UserID).First(&settings).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification settings not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"email_notification": settings.EmailNotification,
	})
}

// ToggleSettings flips the opt-in flag: 200 when notifications turn on,
// 205 when they turn off.
func (nc *NotificationController) ToggleSettings(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var settings models.EmailNotificationSetting
	if err := nc.DB.Where("user_id = ?", currentUser.UserID).First(&settings).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification settings not found"})
		return
	}

	settings.EmailNotification = !settings.EmailNotification
	if err := nc.DB.Model(&settings).Update("email_notification", settings.EmailNotification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	if settings.EmailNotification {
		c.JSON(http.StatusOK, gin.H{"success": true, "email_notification": true, "message": "Email notifications enabled"})
		return
	}

	c.JSON(http.StatusResetContent, gin.H{"success": true, "email_notification": false, "message": "Email notifications disabled"})
}
