package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRoute "kursusku_backend/internals/features/courses/courses/route"
	quizRoute "kursusku_backend/internals/features/courses/quizzes/route"
	purchaseRoute "kursusku_backend/internals/features/finance/purchases/route"
	userRoute "kursusku_backend/internals/features/users/user/route"
	ossHelper "kursusku_backend/internals/helpers/oss"
	authMiddleware "kursusku_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the whole API surface. Webhooks go on the bare app
// first so their handlers see the raw body; everything else sits behind
// the auth middleware under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// webhooks (signature-verified, no auth middleware)
	userRoute.IdentityWebhookRoutes(app, db)
	purchaseRoute.PaymentWebhookRoutes(app, db)

	// anonymous catalog, registered ahead of the auth gate
	courseRoute.CoursePublicRoutes(app, db)

	oss, err := ossHelper.NewServiceFromEnv()
	if err != nil {
		log.Printf("⚠️  OSS disabled: %v", err)
		oss = nil
	}

	api := app.Group("/api", authMiddleware.AuthMiddleware(db))

	userRoute.UserRoutes(api, db)
	courseRoute.CourseUserRoutes(api, db)
	courseRoute.CourseEducatorRoutes(api, db, oss)
	quizRoute.QuizRoutes(api, db, oss)
	purchaseRoute.PurchaseRoutes(api, db)
}
