package models

import (
	"time"
)

// An account may report another account at most once.
type Report struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReporterUserID uint `gorm:"not null;uniqueIndex:idx_reporter_reported" json:"reporter_user_id"`
	ReportedUserID uint `gorm:"not null;uniqueIndex:idx_reporter_reported;index" json:"reported_user_id"`

	ReporterUser User `gorm:"foreignKey:ReporterUserID" json:"-"`
	ReportedUser User `gorm:"foreignKey:ReportedUserID" json:"-"`
}
