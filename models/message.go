package models

import (
	"time"
)

type Message struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Title      string    `gorm:"not null;size:100" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Image      string    `json:"image,omitempty"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	ReplyTo    *uint     `json:"reply_to,omitempty"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
