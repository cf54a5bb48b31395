package models

import (
	"time"
)

// Article content is owned by the article service; the moderation cascade
// deletes rows here explicitly rather than relying on a FK cascade.
type Article struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`

	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Comments []Comment `gorm:"foreignKey:ArticleID" json:"-"`
}
