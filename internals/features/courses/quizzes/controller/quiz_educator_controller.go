package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/quizzes/dto"
	"kursusku_backend/internals/features/courses/quizzes/model"
	"kursusku_backend/internals/features/courses/quizzes/service"
	helper "kursusku_backend/internals/helpers"
)

type QuizEducatorController struct {
	DB *gorm.DB
}

func NewQuizEducatorController(db *gorm.DB) *QuizEducatorController {
	return &QuizEducatorController{DB: db}
}

var validate = validator.New()

// Create registers a quiz on a course the educator owns.
func (ctrl *QuizEducatorController) Create(c *fiber.Ctx) error {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.CreateQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var course courseModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", body.QuizCourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}
	if course.CourseEducatorID != educatorID {
		return helper.JsonError(c, fiber.StatusForbidden, "You do not own this course")
	}

	quiz := model.QuizModel{
		QuizCourseID:        body.QuizCourseID,
		QuizInstructorID:    educatorID,
		QuizTitle:           body.QuizTitle,
		QuizDescription:     body.QuizDescription,
		QuizDurationMinutes: body.QuizDurationMinutes,
		QuizDueDate:         body.QuizDueDate,
		QuizIsActive:        true,
	}
	if body.QuizIsActive != nil {
		quiz.QuizIsActive = *body.QuizIsActive
	}
	if err := quiz.SetQuestions(body.ToQuestions()); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctrl.DB.Create(&quiz).Error; err != nil {
		log.Println("[ERROR] create quiz:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create quiz")
	}

	out, err := dto.ToQuizDTO(quiz)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render quiz")
	}
	return helper.JsonCreated(c, "Quiz created", out)
}

// Update replaces quiz fields and the question list wholesale.
func (ctrl *QuizEducatorController) Update(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}

	var body dto.CreateQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if body.QuizCourseID != quiz.QuizCourseID {
		return helper.JsonError(c, fiber.StatusBadRequest, "Quiz cannot be moved to another course")
	}

	quiz.QuizTitle = body.QuizTitle
	quiz.QuizDescription = body.QuizDescription
	quiz.QuizDurationMinutes = body.QuizDurationMinutes
	quiz.QuizDueDate = body.QuizDueDate
	if body.QuizIsActive != nil {
		quiz.QuizIsActive = *body.QuizIsActive
	}
	if err := quiz.SetQuestions(body.ToQuestions()); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctrl.DB.Save(quiz).Error; err != nil {
		log.Println("[ERROR] update quiz:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update quiz")
	}

	out, err := dto.ToQuizDTO(*quiz)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render quiz")
	}
	return helper.JsonUpdated(c, "Quiz updated", out)
}

// Deactivate hides a quiz from students without touching submissions.
func (ctrl *QuizEducatorController) Deactivate(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}
	if err := ctrl.DB.Model(quiz).Update("quiz_is_active", false).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate quiz")
	}
	return helper.JsonUpdated(c, "Quiz deactivated", fiber.Map{"quiz_id": quiz.QuizID})
}

// Delete removes the quiz and every submission on it in one transaction,
// so no orphan submission stays queryable.
func (ctrl *QuizEducatorController) Delete(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_quiz_id = ?", quiz.QuizID).
			Delete(&model.QuizSubmissionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(quiz).Error
	})
	if err != nil {
		log.Println("[ERROR] delete quiz:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete quiz")
	}
	return helper.JsonDeleted(c, "Quiz deleted", fiber.Map{"quiz_id": quiz.QuizID})
}

// Submissions lists every submission on an owned quiz, full projection.
func (ctrl *QuizEducatorController) Submissions(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}

	var submissions []model.QuizSubmissionModel
	if err := ctrl.DB.
		Where("submission_quiz_id = ?", quiz.QuizID).
		Order("submission_submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submissions")
	}

	out := make([]dto.SubmissionDTO, 0, len(submissions))
	for _, sub := range submissions {
		d, err := dto.ToSubmissionDTO(sub, quiz.QuizTotalMarks)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render submission")
		}
		out = append(out, d)
	}
	return helper.JsonOK(c, "ok", out)
}

// GradeAnswer sets a manual score on one text/file answer and recomputes the
// submission's aggregate score in the same transaction.
func (ctrl *QuizEducatorController) GradeAnswer(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}
	submissionID, err := uuid.Parse(c.Params("submissionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid submission id")
	}

	var body dto.GradeAnswerRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	educatorID, _ := helper.GetUserID(c)
	questions, err := quiz.QuestionList()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read quiz questions")
	}

	var graded model.QuizSubmissionModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		// row lock: concurrent grades on the same submission rewrite the
		// whole answers JSONB, so read-modify-write must serialize
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&graded,
			"submission_id = ? AND submission_quiz_id = ?", submissionID, quiz.QuizID).Error; err != nil {
			return err
		}
		answers, err := graded.AnswerList()
		if err != nil {
			return err
		}
		answers, err = service.ApplyGrade(questions, answers, body.QuestionID, body.Score, body.Feedback, educatorID, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := graded.SetAnswers(answers); err != nil {
			return err
		}
		return tx.Model(&graded).Updates(map[string]interface{}{
			"submission_answers": graded.SubmissionAnswers,
			"submission_score":   graded.SubmissionScore,
		}).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
		case errors.Is(txErr, service.ErrUnknownQuestion):
			return helper.JsonError(c, fiber.StatusBadRequest, "Question not found on this quiz")
		case errors.Is(txErr, service.ErrScoreOutOfRange):
			return helper.JsonError(c, fiber.StatusBadRequest, "Score exceeds the question's marks")
		default:
			log.Println("[ERROR] grade answer:", txErr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save grade")
		}
	}

	out, err := dto.ToSubmissionDTO(graded, quiz.QuizTotalMarks)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render submission")
	}
	return helper.JsonUpdated(c, "Answer graded", out)
}

// Statistics aggregates one owned quiz's submissions.
func (ctrl *QuizEducatorController) Statistics(c *fiber.Ctx) error {
	quiz, fErr := ctrl.loadOwnedQuiz(c)
	if fErr != nil {
		return fErr
	}

	var submissions []model.QuizSubmissionModel
	if err := ctrl.DB.
		Where("submission_quiz_id = ?", quiz.QuizID).
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submissions")
	}

	results := make([]service.QuizResult, 0, len(submissions))
	for _, sub := range submissions {
		results = append(results, service.QuizResult{
			QuizID:      quiz.QuizID,
			QuizTitle:   quiz.QuizTitle,
			CourseID:    quiz.QuizCourseID,
			StudentID:   sub.SubmissionStudentID,
			Score:       sub.SubmissionScore,
			TotalMarks:  quiz.QuizTotalMarks,
			SubmittedAt: sub.SubmissionSubmittedAt,
		})
	}
	return helper.JsonOK(c, "ok", service.BuildQuizStats(results))
}

// OverallStatistics aggregates across every quiz the educator owns.
func (ctrl *QuizEducatorController) OverallStatistics(c *fiber.Ctx) error {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var quizzes []model.QuizModel
	if err := ctrl.DB.
		Where("quiz_instructor_id = ?", educatorID).
		Find(&quizzes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}

	quizIDs := make([]uuid.UUID, 0, len(quizzes))
	quizByID := make(map[uuid.UUID]model.QuizModel, len(quizzes))
	quizCoursePairs := make(map[uuid.UUID]uuid.UUID, len(quizzes))
	for _, quiz := range quizzes {
		quizIDs = append(quizIDs, quiz.QuizID)
		quizByID[quiz.QuizID] = quiz
		quizCoursePairs[quiz.QuizID] = quiz.QuizCourseID
	}

	var submissions []model.QuizSubmissionModel
	if len(quizIDs) > 0 {
		if err := ctrl.DB.
			Where("submission_quiz_id IN ?", quizIDs).
			Find(&submissions).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submissions")
		}
	}

	results := make([]service.QuizResult, 0, len(submissions))
	for _, sub := range submissions {
		quiz := quizByID[sub.SubmissionQuizID]
		results = append(results, service.QuizResult{
			QuizID:      quiz.QuizID,
			QuizTitle:   quiz.QuizTitle,
			CourseID:    quiz.QuizCourseID,
			StudentID:   sub.SubmissionStudentID,
			Score:       sub.SubmissionScore,
			TotalMarks:  quiz.QuizTotalMarks,
			SubmittedAt: sub.SubmissionSubmittedAt,
		})
	}
	return helper.JsonOK(c, "ok", service.BuildEducatorStats(len(quizzes), quizCoursePairs, results, 5))
}

func (ctrl *QuizEducatorController) loadOwnedQuiz(c *fiber.Ctx) (*model.QuizModel, error) {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz id")
	}

	var quiz model.QuizModel
	if err := ctrl.DB.First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load quiz")
	}
	if quiz.QuizInstructorID != educatorID {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "You do not own this quiz")
	}
	return &quiz, nil
}
