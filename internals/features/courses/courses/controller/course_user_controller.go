package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/courses/dto"
	"kursusku_backend/internals/features/courses/courses/model"
	helper "kursusku_backend/internals/helpers"
)

type CourseUserController struct {
	DB *gorm.DB
}

func NewCourseUserController(db *gorm.DB) *CourseUserController {
	return &CourseUserController{DB: db}
}

// ListPublished returns the public catalog (student projection).
func (ctrl *CourseUserController) ListPublished(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.CourseModel{}).Where("course_is_published = ?", true)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count courses")
	}

	var courses []model.CourseModel
	if err := q.Order("course_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load courses")
	}

	viewerID, _ := helper.GetUserID(c)
	out := make([]dto.CourseDTO, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.ToCoursePublicDTO(course,
			ctrl.enrolledCount(course.CourseID),
			ctrl.isEnrolled(viewerID, course.CourseID)))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GetDetail returns one course. Owners get the full projection, everyone
// else the student projection.
func (ctrl *CourseUserController) GetDetail(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var course model.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	viewerID, _ := helper.GetUserID(c)
	enrolled := ctrl.enrolledCount(course.CourseID)
	if viewerID != "" && viewerID == course.CourseEducatorID {
		return helper.JsonOK(c, "ok", dto.ToCourseDTO(course, enrolled))
	}
	return helper.JsonOK(c, "ok", dto.ToCoursePublicDTO(course, enrolled, ctrl.isEnrolled(viewerID, course.CourseID)))
}

// EnrolledCourses lists the caller's enrollments.
func (ctrl *CourseUserController) EnrolledCourses(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var courses []model.CourseModel
	if err := ctrl.DB.
		Joins("JOIN course_enrollments ON course_enrollments.enrollment_course_id = courses.course_id").
		Where("course_enrollments.enrollment_user_id = ?", userID).
		Order("course_enrollments.enrollment_created_at DESC").
		Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrolled courses")
	}

	out := make([]dto.CourseDTO, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.ToCoursePublicDTO(course, ctrl.enrolledCount(course.CourseID), true))
	}
	return helper.JsonOK(c, "ok", out)
}

// Rate stores or replaces the caller's rating. Enrolled students only.
func (ctrl *CourseUserController) Rate(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var body dto.RateCourseRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if !ctrl.isEnrolled(userID, courseID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Only enrolled students can rate this course")
	}

	var course model.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}

	if err := course.UpsertRating(userID, body.Rating, time.Now().UTC()); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctrl.DB.Model(&course).Update("course_ratings", course.CourseRatings).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save rating")
	}

	return helper.JsonUpdated(c, "Rating saved", fiber.Map{"course_id": courseID, "rating": body.Rating})
}

func (ctrl *CourseUserController) enrolledCount(courseID uuid.UUID) int64 {
	var n int64
	ctrl.DB.Model(&model.CourseEnrollmentModel{}).
		Where("enrollment_course_id = ?", courseID).
		Count(&n)
	return n
}

func (ctrl *CourseUserController) isEnrolled(userID string, courseID uuid.UUID) bool {
	if userID == "" {
		return false
	}
	var n int64
	ctrl.DB.Model(&model.CourseEnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_course_id = ?", userID, courseID).
		Count(&n)
	return n > 0
}
