package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "kursusku_backend/internals/features/users/user/controller"
)

// UserRoutes mounts authenticated user endpoints under /api/user.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	user := r.Group("/user")
	user.Get("/data", ctrl.GetData)       // GET  /api/user/data
	user.Post("/sync-role", ctrl.SyncRole) // POST /api/user/sync-role
}

// IdentityWebhookRoutes mounts the identity-provider webhook. Must be
// registered before any body-parsing middleware (raw body required).
func IdentityWebhookRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewIdentityWebhookController(db)
	app.Post("/api/webhooks/identity", ctrl.HandleEvent)
}
