package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.Param("userId")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var subscriberCount int64
	uc.DB.Table("subscriptions").Where("target_user_id = ?", user.ID).Count(&subscriberCount)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":              user.ID,
			"email":           user.Email,
			"nickname":        user.Nickname,
			"interest":        user.Interest,
			"profileImg":      user.ProfileImg,
			"isActive":        user.IsActive,
			"createdAt":       user.CreatedAt,
			"subscriberCount": subscriberCount,
		},
	})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID := c.Param("userId")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if currentUser.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to edit this profile"})
		return
	}

	// Partial update: only fields present in the body are touched.
	var input struct {
		Nickname   *string `json:"nickname"`
		Interest   *string `json:"interest"`
		ProfileImg *string `json:"profile_img"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Nickname != nil {
		updates["nickname"] = *input.Nickname
	}
	if input.Interest != nil {
		if !models.ValidInterest(*input.Interest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown interest category"})
			return
		}
		updates["interest"] = *input.Interest
	}
	if input.ProfileImg != nil {
		updates["profile_img"] = *input.ProfileImg
	}

	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"nickname":   user.Nickname,
			"interest":   user.Interest,
			"profileImg": user.ProfileImg,
		},
	})
}

// Deactivate is the soft delete: the row stays, is_active flips off.
func (uc *UserController) Deactivate(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID := c.Param("userId")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if currentUser.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to deactivate this account"})
		return
	}

	if err := uc.DB.Model(&user).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deactivated"})
}

// ToggleSubscription subscribes the caller to the target, or unsubscribes
// (205) when the subscription already exists.
func (uc *UserController) ToggleSubscription(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetUserID := c.Param("userId")

	var targetUser models.User
	if err := uc.DB.First(&targetUser, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if currentUser.UserID == targetUser.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot subscribe to yourself"})
		return
	}

	var count int64
	uc.DB.Table("subscriptions").
		Where("target_user_id = ? AND subscriber_user_id = ?", targetUser.ID, currentUser.UserID).
		Count(&count)

	me := models.User{ID: currentUser.UserID}
	if count > 0 {
		if err := uc.DB.Model(&targetUser).Association("Subscribers").Delete(&me); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
			return
		}
		c.JSON(http.StatusResetContent, gin.H{"success": true, "subscribed": false, "message": "Unsubscribed"})
		return
	}

	if err := uc.DB.Model(&targetUser).Association("Subscribers").Append(&me); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "subscribed": true, "message": "Subscribed"})
}

func (uc *UserController) GetSubscribers(c *gin.Context) {
	targetUserID := c.Param("userId")

	var targetUser models.User
	if err := uc.DB.Preload("Subscribers").First(&targetUser, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	subscribers := make([]gin.H, 0, len(targetUser.Subscribers))
	for _, subscriber := range targetUser.Subscribers {
		subscribers = append(subscribers, gin.H{
			"id":         subscriber.ID,
			"nickname":   subscriber.Nickname,
			"profileImg": subscriber.ProfileImg,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "subscribe": subscribers})
}

// HomeUserList returns a page of active accounts in random order. The
// ordering is recomputed per query, so pages can overlap across requests —
// discovery is intentionally randomized.
func (uc *UserController) HomeUserList(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit <= 0 {
		limit = 12
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var users []models.User
	result := uc.DB.Where("is_active = ?", true).
		Order("RANDOM()").
		Offset(offset).
		Limit(limit).
		Find(&users)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		list = append(list, gin.H{
			"id":         user.ID,
			"nickname":   user.Nickname,
			"interest":   user.Interest,
			"profileImg": user.ProfileImg,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": list})
}
