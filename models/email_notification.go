package models

type EmailNotificationSetting struct {
	ID                uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint `gorm:"not null;uniqueIndex" json:"user_id"`
	EmailNotification bool `gorm:"default:false" json:"email_notification"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
