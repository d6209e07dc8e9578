package controller

import (
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/courses/dto"
	"kursusku_backend/internals/features/courses/courses/model"
	helper "kursusku_backend/internals/helpers"
	ossHelper "kursusku_backend/internals/helpers/oss"
)

type CourseEducatorController struct {
	DB  *gorm.DB
	OSS *ossHelper.Service
}

func NewCourseEducatorController(db *gorm.DB, oss *ossHelper.Service) *CourseEducatorController {
	return &CourseEducatorController{DB: db, OSS: oss}
}

var validate = validator.New()

// List returns the educator's own courses (including unpublished).
func (ctrl *CourseEducatorController) List(c *fiber.Ctx) error {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := ctrl.DB.Model(&model.CourseModel{}).Where("course_educator_id = ?", educatorID)
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count courses")
	}

	var courses []model.CourseModel
	if err := q.Order("course_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load courses")
	}

	out := make([]dto.CourseDTO, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.ToCourseDTO(course, ctrl.enrolledCount(course.CourseID)))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// Create handles multipart form: `image` (thumbnail) + `courseData` (JSON).
func (ctrl *CourseEducatorController) Create(c *fiber.Ctx) error {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	raw := c.FormValue("courseData")
	if raw == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "courseData is required")
	}
	var body dto.CreateCourseRequest
	if err := sonic.Unmarshal([]byte(raw), &body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "courseData is not valid JSON")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	course := model.CourseModel{
		CourseEducatorID:      educatorID,
		CourseTitle:           body.CourseTitle,
		CourseDescription:     body.CourseDescription,
		CoursePrice:           body.CoursePrice,
		CourseDiscountPercent: body.CourseDiscountPercent,
		CourseTags:            body.CourseTags,
		CourseIsPublished:     true,
	}
	if body.CourseIsPublished != nil {
		course.CourseIsPublished = *body.CourseIsPublished
	}

	chapters := make([]model.CourseChapter, 0, len(body.CourseChapters))
	for _, ch := range body.CourseChapters {
		chapters = append(chapters, ch.ToChapter())
	}
	if err := course.SetChapters(chapters); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		if ctrl.OSS == nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "Media storage is not configured")
		}
		url, err := ctrl.OSS.UploadImageAsWebP(fh, "courses/thumbnails")
		if err != nil {
			log.Println("[ERROR] thumbnail upload:", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Thumbnail upload failed, please retry")
		}
		course.CourseThumbnailURL = url
	}

	if err := ctrl.DB.Create(&course).Error; err != nil {
		log.Println("[ERROR] create course:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create course")
	}

	return helper.JsonCreated(c, "Course created", dto.ToCourseDTO(course, 0))
}

// Update modifies an owned course. Accepts the same multipart shape as
// Create; fields absent from courseData keep their current value only for
// the thumbnail (chapters and scalars are replaced wholesale).
func (ctrl *CourseEducatorController) Update(c *fiber.Ctx) error {
	course, fErr := ctrl.loadOwnedCourse(c)
	if fErr != nil {
		return fErr
	}

	raw := c.FormValue("courseData")
	if raw == "" {
		if b := c.Body(); len(b) > 0 {
			raw = string(b)
		}
	}
	if raw == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "courseData is required")
	}
	var body dto.CreateCourseRequest
	if err := sonic.Unmarshal([]byte(raw), &body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "courseData is not valid JSON")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	course.CourseTitle = body.CourseTitle
	course.CourseDescription = body.CourseDescription
	course.CoursePrice = body.CoursePrice
	course.CourseDiscountPercent = body.CourseDiscountPercent
	course.CourseTags = body.CourseTags
	if body.CourseIsPublished != nil {
		course.CourseIsPublished = *body.CourseIsPublished
	}

	chapters := make([]model.CourseChapter, 0, len(body.CourseChapters))
	for _, ch := range body.CourseChapters {
		chapters = append(chapters, ch.ToChapter())
	}
	if err := course.SetChapters(chapters); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		if ctrl.OSS == nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "Media storage is not configured")
		}
		url, err := ctrl.OSS.UploadImageAsWebP(fh, "courses/thumbnails")
		if err != nil {
			log.Println("[ERROR] thumbnail upload:", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Thumbnail upload failed, please retry")
		}
		course.CourseThumbnailURL = url
	}

	if err := ctrl.DB.Save(course).Error; err != nil {
		log.Println("[ERROR] update course:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update course")
	}

	return helper.JsonUpdated(c, "Course updated", dto.ToCourseDTO(*course, ctrl.enrolledCount(course.CourseID)))
}

// Delete removes an owned course (soft delete).
func (ctrl *CourseEducatorController) Delete(c *fiber.Ctx) error {
	course, fErr := ctrl.loadOwnedCourse(c)
	if fErr != nil {
		return fErr
	}
	if err := ctrl.DB.Delete(course).Error; err != nil {
		log.Println("[ERROR] delete course:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete course")
	}
	return helper.JsonDeleted(c, "Course deleted", fiber.Map{"course_id": course.CourseID})
}

func (ctrl *CourseEducatorController) loadOwnedCourse(c *fiber.Ctx) (*model.CourseModel, error) {
	educatorID, err := helper.GetUserID(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var course model.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}
	if course.CourseEducatorID != educatorID {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "You do not own this course")
	}
	return &course, nil
}

func (ctrl *CourseEducatorController) enrolledCount(courseID uuid.UUID) int64 {
	var n int64
	ctrl.DB.Model(&model.CourseEnrollmentModel{}).
		Where("enrollment_course_id = ?", courseID).
		Count(&n)
	return n
}
