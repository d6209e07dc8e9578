package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	purchaseController "kursusku_backend/internals/features/finance/purchases/controller"
	"kursusku_backend/internals/middlewares"
)

// PurchaseRoutes mounts authenticated checkout endpoints under /api.
func PurchaseRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := purchaseController.NewPurchaseController(db)

	purchase := r.Group("/purchase")
	purchase.Post("/create-session", middlewares.CheckoutRateLimiter(), ctrl.CreateSession) // POST /api/purchase/create-session
	purchase.Get("/my", ctrl.MyPurchases)                                                   // GET  /api/purchase/my
}

// PaymentWebhookRoutes registers the gateway callback on the bare app so the
// raw body reaches the handler before any body-parsing middleware.
func PaymentWebhookRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := purchaseController.NewPaymentWebhookController(db)
	app.Post("/api/webhooks/payment", ctrl.HandleNotification)
}
