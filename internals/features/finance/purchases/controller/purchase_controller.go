package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kursusku_backend/internals/configs"
	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/finance/purchases/dto"
	"kursusku_backend/internals/features/finance/purchases/model"
	"kursusku_backend/internals/features/finance/purchases/service"
	userModel "kursusku_backend/internals/features/users/user/model"
	helper "kursusku_backend/internals/helpers"
)

type PurchaseController struct {
	DB *gorm.DB
}

func NewPurchaseController(db *gorm.DB) *PurchaseController {
	return &PurchaseController{DB: db}
}

var validate = validator.New()

// CreateSession opens a checkout session for a published course. Free
// courses (after discount) skip the gateway and enroll immediately.
func (ctrl *PurchaseController) CreateSession(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.CreateSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var course courseModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", body.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}
	if !course.CourseIsPublished {
		return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
	}
	if course.CourseEducatorID == userID {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot purchase your own course")
	}

	var enrolled int64
	ctrl.DB.Model(&courseModel.CourseEnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_course_id = ?", userID, course.CourseID).
		Count(&enrolled)
	if enrolled > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "You are already enrolled in this course")
	}

	amount := course.DiscountedPrice()
	purchase := model.PurchaseModel{
		PurchaseOrderID:  fmt.Sprintf("KURSUS-%s", uuid.NewString()),
		PurchaseUserID:   userID,
		PurchaseCourseID: course.CourseID,
		PurchaseAmount:   amount,
		PurchaseCurrency: configs.Currency,
		PurchaseStatus:   model.PurchaseStatusPending,
	}

	if amount <= 0 {
		now := time.Now().UTC()
		purchase.PurchaseStatus = model.PurchaseStatusCompleted
		purchase.PurchasePaidAt = &now
		txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}
			enrollment := courseModel.CourseEnrollmentModel{
				EnrollmentUserID:   userID,
				EnrollmentCourseID: course.CourseID,
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error
		})
		if txErr != nil {
			log.Println("[ERROR] free enrollment:", txErr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to enroll")
		}
		return helper.JsonCreated(c, "Enrolled", dto.ToPurchaseDTO(purchase))
	}

	var buyer userModel.UserModel
	_ = ctrl.DB.First(&buyer, "user_id = ?", userID).Error

	token, redirectURL, err := service.GenerateSnapToken(purchase, course.CourseTitle, service.CustomerInput{
		Name:  buyer.UserName,
		Email: buyer.UserEmail,
	}, configs.FrontendURL+"/payment/finish")
	if err != nil {
		log.Println("[ERROR] snap token:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Payment gateway is unavailable, please retry")
	}
	purchase.PurchaseSnapToken = token
	purchase.PurchaseRedirectURL = redirectURL

	if err := ctrl.DB.Create(&purchase).Error; err != nil {
		log.Println("[ERROR] create purchase:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create purchase")
	}
	return helper.JsonCreated(c, "Checkout session created", dto.ToPurchaseDTO(purchase))
}

// MyPurchases lists the caller's purchases, newest first.
func (ctrl *PurchaseController) MyPurchases(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctrl.DB.Model(&model.PurchaseModel{}).Where("purchase_user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count purchases")
	}

	var purchases []model.PurchaseModel
	if err := q.Order("purchase_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&purchases).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load purchases")
	}

	out := make([]dto.PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.ToPurchaseDTO(p))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}
