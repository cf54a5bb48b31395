package models

import (
	"time"
)

type RefreshToken struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Token          string    `json:"token" gorm:"not null;index"`
	ExpirationDate time.Time `json:"expiry" gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
