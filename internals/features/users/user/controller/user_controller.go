package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/users/user/dto"
	"kursusku_backend/internals/features/users/user/model"
	"kursusku_backend/internals/features/users/user/service"
	helper "kursusku_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var validate = validator.New()

// GetData returns the caller's user record.
func (ctrl *UserController) GetData(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Println("[ERROR] load user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	return helper.JsonOK(c, "ok", dto.ToUserDTO(user))
}

// SyncRole updates the local role and pushes it to the identity provider's
// metadata. Local DB wins; the provider copy is best-effort but failures
// are surfaced so the client can retry.
func (ctrl *UserController) SyncRole(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.SyncRoleRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if user.UserRole != body.Role {
		if err := ctrl.DB.Model(&user).Update("user_role", body.Role).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update role")
		}
		user.UserRole = body.Role
	}

	if err := service.PushRoleToProvider(c.UserContext(), userID, body.Role); err != nil {
		log.Println("[ERROR] push role to provider:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Role saved locally but provider sync failed, please retry")
	}

	return helper.JsonUpdated(c, "Role synced", dto.ToUserDTO(user))
}
