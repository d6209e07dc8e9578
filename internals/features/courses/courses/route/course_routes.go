package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	courseController "kursusku_backend/internals/features/courses/courses/controller"
	ossHelper "kursusku_backend/internals/helpers/oss"
	authMiddleware "kursusku_backend/internals/middlewares/auth"
)

// CoursePublicRoutes mounts the anonymous catalog on the bare app, ahead of
// the auth middleware. A bearer token, when present, still upgrades the
// projection (owner sees answers, enrollee sees paid media).
func CoursePublicRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := courseController.NewCourseUserController(db)

	app.Get("/api/course/all", ctrl.ListPublished) // GET /api/course/all
	app.Get("/api/course/:id", ctrl.GetDetail)     // GET /api/course/:id
}

// CourseEducatorRoutes → /api/educator/... (educator role required)
func CourseEducatorRoutes(r fiber.Router, db *gorm.DB, oss *ossHelper.Service) {
	ctrl := courseController.NewCourseEducatorController(db, oss)

	educator := r.Group("/educator",
		authMiddleware.OnlyRoles(constants.RoleErrorEducator("course management"), constants.RoleEducator),
	)
	educator.Get("/courses", ctrl.List)          // GET    /api/educator/courses
	educator.Post("/add-course", ctrl.Create)    // POST   /api/educator/add-course
	educator.Patch("/courses/:id", ctrl.Update)  // PATCH  /api/educator/courses/:id
	educator.Delete("/courses/:id", ctrl.Delete) // DELETE /api/educator/courses/:id
}

// CourseUserRoutes → authenticated course actions under /api.
func CourseUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCourseUserController(db)

	r.Post("/course/:id/rate", ctrl.Rate)                 // POST /api/course/:id/rate
	r.Get("/user/enrolled-courses", ctrl.EnrolledCourses) // GET  /api/user/enrolled-courses
}
