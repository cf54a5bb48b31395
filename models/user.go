package models

import (
	"time"
)

// Interest choices accepted on profile updates.
var UserInterests = []string{"it/science", "economy", "culture", "sport", "weather", "world"}

type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `gorm:"unique;not null;size:254" json:"email"`
	Password    *string   `json:"-"` // nil for social-login accounts
	Nickname    string    `gorm:"size:30" json:"nickname"`
	Interest    string    `gorm:"size:15" json:"interest"`
	ProfileImg  string    `json:"profile_img"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	IsActive    bool      `gorm:"default:false" json:"is_active"`
	ReportCount uint      `gorm:"default:0" json:"report_count"`

	// Accounts subscribed to this user.
	Subscribers []User `json:"-" gorm:"many2many:subscriptions;joinForeignKey:TargetUserID;joinReferences:SubscriberUserID"`

	SocialAccounts []SocialAccount `json:"-" gorm:"foreignKey:UserID"`
	RefreshTokens  []RefreshToken  `json:"-" gorm:"foreignKey:UserID"`
}

func ValidInterest(interest string) bool {
	for _, choice := range UserInterests {
		if interest == choice {
			return true
		}
	}
	return false
}
