package models

import (
	"time"
)

// SocialAccount links a user to an external identity provider.
type SocialAccount struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Provider    string `gorm:"not null;size:30;uniqueIndex:idx_provider_uid" json:"provider"`
	UID         string `gorm:"not null;size:191;uniqueIndex:idx_provider_uid" json:"uid"`
	AccessToken string `json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
