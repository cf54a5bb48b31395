package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/team-nuri/api-go/models"
	"github.com/team-nuri/api-go/utils"
	"gorm.io/gorm"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

type messageInput struct {
	Receiver string `json:"receiver" binding:"required,email"`
	Title    string `json:"title" binding:"required,max=100"`
	Content  string `json:"content" binding:"required"`
	Image    string `json:"image"`
}

func serializeMessage(message *models.Message) gin.H {
	return gin.H{
		"id":             message.ID,
		"sender_id":      message.SenderID,
		"sender_email":   message.Sender.Email,
		"receiver_id":    message.ReceiverID,
		"receiver_email": message.Receiver.Email,
		"title":          message.Title,
		"content":        message.Content,
		"image":          message.Image,
		"timestamp":      message.Timestamp,
		"is_read":        message.IsRead,
		"reply_to":       message.ReplyTo,
	}
}

// createMessage resolves the receiver by email among active accounts and
// persists the message. replyTo is nil for fresh messages.
func (mc *MessageController) createMessage(c *gin.Context, replyTo *uint) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input messageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var receiver models.User
	if err := mc.DB.Where("email = ? AND is_active = ?", input.Receiver, true).First(&receiver).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receiver not found", "success": false})
		return
	}

	message := models.Message{
		SenderID:   currentUser.UserID,
		ReceiverID: receiver.ID,
		Title:      input.Title,
		Content:    input.Content,
		Image:      input.Image,
		ReplyTo:    replyTo,
	}

	if err := mc.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Message sent",
		"message_id": message.ID,
	})
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	mc.createMessage(c, nil)
}

// ReplyMessage stores the original message id as reply_to. The link is not
// validated against an existing message or the original sender.
func (mc *MessageController) ReplyMessage(c *gin.Context) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id", "success": false})
		return
	}
	originalID := uint(parsed)
	mc.createMessage(c, &originalID)
}

func (mc *MessageController) Inbox(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var messages []models.Message
	if err := mc.DB.Preload("Sender").Preload("Receiver").
		Where("receiver_id = ?", currentUser.UserID).
		Order("timestamp DESC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
		return
	}

	var unreadCount int64
	mc.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", currentUser.UserID, false).
		Count(&unreadCount)

	list := make([]gin.H, 0, len(messages))
	for i := range messages {
		list = append(list, serializeMessage(&messages[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message_count": len(messages),
		"unread_count":  unreadCount,
		"messages":      list,
	})
}

func (mc *MessageController) Sent(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var messages []models.Message
	if err := mc.DB.Preload("Sender").Preload("Receiver").
		Where("sender_id = ?", currentUser.UserID).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
		return
	}

	list := make([]gin.H, 0, len(messages))
	for i := range messages {
		list = append(list, serializeMessage(&messages[i]))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": list})
}

// GetMessage returns a message detail. The first read by the authenticated
// receiver flips is_read; re-reads are no-ops and anonymous reads never
// touch it.
func (mc *MessageController) GetMessage(c *gin.Context) {
	var message models.Message
	if err := mc.DB.Preload("Sender").Preload("Receiver").
		First(&message, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	currentUser := utils.GetUser(c)
	if currentUser != nil && currentUser.Email == message.Receiver.Email && !message.IsRead {
		if err := mc.DB.Model(&message).Update("is_read", true).Error; err == nil {
			message.IsRead = true
		}
	}

	c.JSON(http.StatusOK, serializeMessage(&message))
}

// DeleteMessage deletes by id. There is no ownership check.
func (mc *MessageController) DeleteMessage(c *gin.Context) {
	var message models.Message
	if err := mc.DB.First(&message, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if err := mc.DB.Delete(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
