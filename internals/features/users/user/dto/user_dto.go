package dto

import (
	"time"

	"kursusku_backend/internals/features/users/user/model"
)

// ============================
// Response DTO
// ============================
type UserDTO struct {
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserAvatarURL string    `json:"user_avatar_url"`
	UserRole      string    `json:"user_role"`
	UserCreatedAt time.Time `json:"user_created_at"`
}

// ============================
// Request DTOs
// ============================
type SyncRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student educator"`
}

// IdentityWebhookEvent is the payload pushed by the identity provider.
type IdentityWebhookEvent struct {
	Type string              `json:"type" validate:"required"`
	Data IdentityWebhookUser `json:"data"`
}

type IdentityWebhookUser struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

// ============================
// Converter
// ============================
func ToUserDTO(m model.UserModel) UserDTO {
	return UserDTO{
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserEmail:     m.UserEmail,
		UserAvatarURL: m.UserAvatarURL,
		UserRole:      m.UserRole,
		UserCreatedAt: m.UserCreatedAt,
	}
}
