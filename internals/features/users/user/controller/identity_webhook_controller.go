package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kursusku_backend/internals/configs"
	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/users/user/dto"
	"kursusku_backend/internals/features/users/user/model"
	helper "kursusku_backend/internals/helpers"
)

type IdentityWebhookController struct {
	DB *gorm.DB
}

func NewIdentityWebhookController(db *gorm.DB) *IdentityWebhookController {
	return &IdentityWebhookController{DB: db}
}

// HandleEvent processes identity-provider webhooks (user.created /
// user.updated / user.deleted). The route must receive the raw body:
// the signature is an HMAC-SHA256 over the exact bytes sent.
func (ctrl *IdentityWebhookController) HandleEvent(c *fiber.Ctx) error {
	raw := c.Body()

	signature := c.Get("X-Identity-Signature")
	if !verifySignature(raw, signature, configs.IdentityWebhookSecret) {
		log.Println("[WARNING] identity webhook signature mismatch")
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid webhook signature")
	}

	var event dto.IdentityWebhookEvent
	if err := sonic.Unmarshal(raw, &event); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}
	if event.Data.ID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing user id in webhook payload")
	}

	switch event.Type {
	case "user.created", "user.updated":
		role := event.Data.Role
		if role == "" {
			role = constants.RoleStudent
		}
		user := model.UserModel{
			UserID:        event.Data.ID,
			UserName:      event.Data.Name,
			UserEmail:     event.Data.Email,
			UserAvatarURL: event.Data.AvatarURL,
			UserRole:      role,
		}
		// upsert keyed on the provider id so redelivery is a no-op
		if err := ctrl.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_name", "user_email", "user_avatar_url"}),
		}).Create(&user).Error; err != nil {
			log.Println("[ERROR] upsert user from webhook:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store user")
		}

	case "user.deleted":
		if err := ctrl.DB.Delete(&model.UserModel{}, "user_id = ?", event.Data.ID).Error; err != nil {
			log.Println("[ERROR] delete user from webhook:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete user")
		}

	default:
		log.Println("[INFO] ignoring identity event type:", event.Type)
	}

	return helper.JsonOK(c, "ok", nil)
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	// hex digests compare case-insensitively; providers differ in casing
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
