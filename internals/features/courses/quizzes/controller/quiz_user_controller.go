package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/quizzes/dto"
	"kursusku_backend/internals/features/courses/quizzes/model"
	"kursusku_backend/internals/features/courses/quizzes/service"
	helper "kursusku_backend/internals/helpers"
	ossHelper "kursusku_backend/internals/helpers/oss"
)

type QuizUserController struct {
	DB  *gorm.DB
	OSS *ossHelper.Service
}

func NewQuizUserController(db *gorm.DB, oss *ossHelper.Service) *QuizUserController {
	return &QuizUserController{DB: db, OSS: oss}
}

// ListByCourse returns a course's quizzes. The owning educator sees all of
// them with answer keys; everyone else sees active quizzes, keys stripped.
func (ctrl *QuizUserController) ListByCourse(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var course courseModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}
	isOwner := course.CourseEducatorID == userID

	q := ctrl.DB.Where("quiz_course_id = ?", courseID)
	if !isOwner {
		q = q.Where("quiz_is_active = ?", true)
	}
	var quizzes []model.QuizModel
	if err := q.Order("quiz_created_at DESC").Find(&quizzes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}

	out := make([]dto.QuizDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		var d dto.QuizDTO
		var dErr error
		if isOwner {
			d, dErr = dto.ToQuizDTO(quiz)
		} else {
			d, dErr = dto.ToQuizStudentDTO(quiz)
		}
		if dErr != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render quiz")
		}
		out = append(out, d)
	}
	return helper.JsonOK(c, "ok", out)
}

// GetDetail returns one quiz, projection by viewer.
func (ctrl *QuizUserController) GetDetail(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quiz, fErr := ctrl.loadQuiz(c)
	if fErr != nil {
		return fErr
	}

	if quiz.QuizInstructorID == userID {
		out, err := dto.ToQuizDTO(*quiz)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render quiz")
		}
		return helper.JsonOK(c, "ok", out)
	}

	if !quiz.QuizIsActive {
		return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
	}
	out, err := dto.ToQuizStudentDTO(*quiz)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render quiz")
	}
	return helper.JsonOK(c, "ok", out)
}

// Eligibility reports whether the caller can still submit this quiz.
func (ctrl *QuizUserController) Eligibility(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quiz, fErr := ctrl.loadQuiz(c)
	if fErr != nil {
		return fErr
	}

	eligErr := service.CheckEligibility(*quiz, ctrl.hasSubmission(quiz.QuizID, userID), time.Now().UTC())
	resp := fiber.Map{
		"quiz_id":  quiz.QuizID,
		"eligible": eligErr == nil,
		"due_date": quiz.QuizDueDate,
	}
	if eligErr != nil {
		resp["reason"] = eligErr.Error()
	}
	return helper.JsonOK(c, "ok", resp)
}

// Submit grades and persists the caller's one-and-only attempt. The due date
// is re-checked inside the transaction; the unique (quiz, student) index
// resolves concurrent duplicates to a single winner.
func (ctrl *QuizUserController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quiz, fErr := ctrl.loadQuiz(c)
	if fErr != nil {
		return fErr
	}

	if !ctrl.isEnrolled(userID, quiz.QuizCourseID) && quiz.QuizInstructorID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Enroll in the course before taking its quizzes")
	}

	var body dto.SubmitQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	questions, err := quiz.QuestionList()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read quiz questions")
	}

	submitted := make([]service.SubmittedAnswer, 0, len(body.Answers))
	for _, a := range body.Answers {
		submitted = append(submitted, service.SubmittedAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			FileURL:    a.FileURL,
		})
	}
	answers, err := service.ScoreAnswers(questions, submitted)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			return helper.JsonError(c, fiber.StatusBadRequest, "One or more answers reference unknown questions")
		case errors.Is(err, service.ErrUnknownOption):
			return helper.JsonError(c, fiber.StatusBadRequest, "One or more answers reference unknown options")
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	submission := model.QuizSubmissionModel{
		SubmissionQuizID:    quiz.QuizID,
		SubmissionStudentID: userID,
	}
	if err := submission.SetAnswers(answers); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to encode answers")
	}

	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := service.CheckEligibility(*quiz, false, now); err != nil {
			return err
		}
		submission.SubmissionSubmittedAt = now
		return tx.Create(&submission).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, service.ErrQuizInactive), errors.Is(txErr, service.ErrQuizPastDue):
			return helper.JsonError(c, fiber.StatusBadRequest, txErr.Error())
		case errors.Is(txErr, gorm.ErrDuplicatedKey):
			return helper.JsonError(c, fiber.StatusConflict, "Quiz already submitted")
		default:
			log.Println("[ERROR] submit quiz:", txErr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save submission")
		}
	}

	out, err := dto.ToSubmissionDTO(submission, quiz.QuizTotalMarks)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render submission")
	}
	return helper.JsonCreated(c, "Quiz submitted", out)
}

// UploadAnswerFile stores a file answer ahead of submission and returns its
// URL. Size and extension limits come from the target question.
func (ctrl *QuizUserController) UploadAnswerFile(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quiz, fErr := ctrl.loadQuiz(c)
	if fErr != nil {
		return fErr
	}
	if !ctrl.isEnrolled(userID, quiz.QuizCourseID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Enroll in the course before taking its quizzes")
	}

	questionID := c.FormValue("question_id")
	if questionID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "question_id is required")
	}
	questions, err := quiz.QuestionList()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read quiz questions")
	}
	var question *model.QuizQuestion
	for i := range questions {
		if questions[i].QuestionID == questionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Question not found on this quiz")
	}
	if question.Type != model.QuizQuestionTypeFile {
		return helper.JsonError(c, fiber.StatusBadRequest, "This question does not accept file answers")
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if ctrl.OSS == nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Media storage is not configured")
	}

	maxMB := question.MaxFileSizeMB
	if maxMB <= 0 {
		maxMB = 10
	}
	url, err := ctrl.OSS.UploadRawFile(fh, "quizzes/answers/"+quiz.QuizID.String(), question.AllowedFileTypes, maxMB)
	if err != nil {
		log.Println("[ERROR] answer file upload:", err)
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonCreated(c, "File uploaded", fiber.Map{"question_id": questionID, "file_url": url})
}

// MySubmission returns the caller's own submission for a quiz.
func (ctrl *QuizUserController) MySubmission(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	quiz, fErr := ctrl.loadQuiz(c)
	if fErr != nil {
		return fErr
	}

	var submission model.QuizSubmissionModel
	if err := ctrl.DB.First(&submission,
		"submission_quiz_id = ? AND submission_student_id = ?", quiz.QuizID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "No submission yet")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submission")
	}

	out, err := dto.ToSubmissionDTO(submission, quiz.QuizTotalMarks)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render submission")
	}
	return helper.JsonOK(c, "ok", out)
}

// Statistics aggregates the caller's submissions across every quiz taken.
func (ctrl *QuizUserController) Statistics(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var submissions []model.QuizSubmissionModel
	if err := ctrl.DB.
		Where("submission_student_id = ?", userID).
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load submissions")
	}

	quizIDs := make([]uuid.UUID, 0, len(submissions))
	for _, sub := range submissions {
		quizIDs = append(quizIDs, sub.SubmissionQuizID)
	}
	quizByID := map[uuid.UUID]model.QuizModel{}
	if len(quizIDs) > 0 {
		var quizzes []model.QuizModel
		if err := ctrl.DB.Where("quiz_id IN ?", quizIDs).Find(&quizzes).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load quizzes")
		}
		for _, quiz := range quizzes {
			quizByID[quiz.QuizID] = quiz
		}
	}

	results := make([]service.QuizResult, 0, len(submissions))
	for _, sub := range submissions {
		quiz, ok := quizByID[sub.SubmissionQuizID]
		if !ok {
			continue
		}
		results = append(results, service.QuizResult{
			QuizID:      quiz.QuizID,
			QuizTitle:   quiz.QuizTitle,
			CourseID:    quiz.QuizCourseID,
			StudentID:   userID,
			Score:       sub.SubmissionScore,
			TotalMarks:  quiz.QuizTotalMarks,
			SubmittedAt: sub.SubmissionSubmittedAt,
		})
	}
	return helper.JsonOK(c, "ok", service.BuildStudentStats(results))
}

func (ctrl *QuizUserController) loadQuiz(c *fiber.Ctx) (*model.QuizModel, error) {
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
	return &quiz, nil
}

func (ctrl *QuizUserController) isEnrolled(userID string, courseID uuid.UUID) bool {
	var n int64
	ctrl.DB.Model(&courseModel.CourseEnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_course_id = ?", userID, courseID).
		Count(&n)
	return n > 0
}

func (ctrl *QuizUserController) hasSubmission(quizID uuid.UUID, userID string) bool {
	var n int64
	ctrl.DB.Model(&model.QuizSubmissionModel{}).
		Where("submission_quiz_id = ? AND submission_student_id = ?", quizID, userID).
		Count(&n)
	return n > 0
}
