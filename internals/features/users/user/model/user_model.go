package model

import (
	"time"
)

// UserModel mirrors the identity-provider user. The provider id is the
// primary key; the row is created/updated/deleted by the identity webhook.
type UserModel struct {
	UserID        string `gorm:"column:user_id;type:varchar(64);primaryKey" json:"user_id"`
	UserName      string `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail     string `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`
	UserAvatarURL string `gorm:"column:user_avatar_url;type:text" json:"user_avatar_url"`

	// student | educator; authoritative copy, provider metadata is a cache
	UserRole string `gorm:"column:user_role;type:varchar(20);not null;default:'student'" json:"user_role"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}
