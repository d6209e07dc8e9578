package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	quizController "kursusku_backend/internals/features/courses/quizzes/controller"
	ossHelper "kursusku_backend/internals/helpers/oss"
	authMiddleware "kursusku_backend/internals/middlewares/auth"
)

// QuizRoutes mounts everything under /api/quiz plus the per-user statistics
// endpoints. The educator gate is attached per route because students share
// the /quiz prefix.
func QuizRoutes(r fiber.Router, db *gorm.DB, oss *ossHelper.Service) {
	educatorCtrl := quizController.NewQuizEducatorController(db)
	userCtrl := quizController.NewQuizUserController(db, oss)

	educatorOnly := authMiddleware.OnlyRoles(
		constants.RoleErrorEducator("quiz management"), constants.RoleEducator)

	quiz := r.Group("/quiz")

	// educator only
	quiz.Post("/", educatorOnly, educatorCtrl.Create)                                       // POST   /api/quiz
	quiz.Patch("/:id/deactivate", educatorOnly, educatorCtrl.Deactivate)                    // PATCH  /api/quiz/:id/deactivate
	quiz.Patch("/:id", educatorOnly, educatorCtrl.Update)                                   // PATCH  /api/quiz/:id
	quiz.Delete("/:id", educatorOnly, educatorCtrl.Delete)                                  // DELETE /api/quiz/:id
	quiz.Get("/:id/submissions", educatorOnly, educatorCtrl.Submissions)                    // GET    /api/quiz/:id/submissions
	quiz.Post("/:id/submissions/:submissionId/grade", educatorOnly, educatorCtrl.GradeAnswer) // POST grade one answer
	quiz.Get("/:id/statistics", educatorOnly, educatorCtrl.Statistics)                      // GET    /api/quiz/:id/statistics

	// any authenticated user
	quiz.Get("/course/:courseId", userCtrl.ListByCourse)     // GET  /api/quiz/course/:courseId
	quiz.Get("/:id/eligibility", userCtrl.Eligibility)       // GET  /api/quiz/:id/eligibility
	quiz.Post("/:id/submit", userCtrl.Submit)                // POST /api/quiz/:id/submit
	quiz.Post("/:id/answer-file", userCtrl.UploadAnswerFile) // POST /api/quiz/:id/answer-file
	quiz.Get("/:id/my-submission", userCtrl.MySubmission)    // GET  /api/quiz/:id/my-submission
	quiz.Get("/:id", userCtrl.GetDetail)                     // GET  /api/quiz/:id

	r.Get("/user/quiz-statistics", userCtrl.Statistics) // GET /api/user/quiz-statistics
	r.Get("/educator/quiz-statistics",
		authMiddleware.OnlyRoles(constants.RoleErrorEducator("quiz statistics"), constants.RoleEducator),
		educatorCtrl.OverallStatistics) // GET /api/educator/quiz-statistics
}
