package controller

import (
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kursusku_backend/internals/configs"
	"kursusku_backend/internals/features/finance/purchases/dto"
	"kursusku_backend/internals/features/finance/purchases/model"
	"kursusku_backend/internals/features/finance/purchases/service"
	helper "kursusku_backend/internals/helpers"
)

type PaymentWebhookController struct {
	DB        *gorm.DB
	ServerKey string
}

func NewPaymentWebhookController(db *gorm.DB) *PaymentWebhookController {
	return &PaymentWebhookController{DB: db, ServerKey: configs.MidtransServerKey}
}

// HandleNotification processes one gateway delivery. The raw body is parsed
// here, never by upstream middleware, because the signature covers payload
// fields verbatim. Unknown order ids get a 200 so the gateway stops
// retrying; every delivery is logged either way.
func (ctrl *PaymentWebhookController) HandleNotification(c *fiber.Ctx) error {
	raw := c.Body()

	var notif dto.MidtransNotification
	if err := sonic.Unmarshal(raw, &notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification payload")
	}
	if notif.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "order_id is required")
	}

	sigValid := service.VerifySignatureKey(
		notif.OrderID, notif.StatusCode, notif.GrossAmount, ctrl.ServerKey, notif.SignatureKey)
	if !sigValid {
		ctrl.logEvent(raw, notif, false, model.GatewayEventStatusIgnored, "invalid signature")
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	}

	res, err := service.Reconcile(ctrl.DB,
		notif.OrderID, notif.TransactionStatus, notif.FraudStatus, notif.TransactionID, time.Now().UTC())
	switch {
	case errors.Is(err, service.ErrPurchaseNotFound):
		ctrl.logEvent(raw, notif, true, model.GatewayEventStatusIgnored, "purchase not found")
		return helper.JsonOK(c, "ignored", fiber.Map{"order_id": notif.OrderID, "reason": "purchase not found"})
	case errors.Is(err, service.ErrUnknownStatus):
		ctrl.logEvent(raw, notif, true, model.GatewayEventStatusIgnored, "unrecognized transaction status")
		return helper.JsonOK(c, "ignored", fiber.Map{"order_id": notif.OrderID, "reason": "unrecognized status"})
	case err != nil:
		log.Println("[ERROR] reconcile:", err)
		ctrl.logEvent(raw, notif, true, model.GatewayEventStatusFailed, err.Error())
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process notification")
	}

	ctrl.logEvent(raw, notif, true, model.GatewayEventStatusProcessed, "")
	return helper.JsonOK(c, "ok", fiber.Map{
		"order_id":        notif.OrderID,
		"purchase_status": res.NewStatus,
		"transitioned":    res.Transition,
		"enrolled_now":    res.EnrolledNow,
	})
}

func (ctrl *PaymentWebhookController) logEvent(raw []byte, notif dto.MidtransNotification, sigValid bool, status, errMsg string) {
	ev := model.PaymentGatewayEventModel{
		EventOrderID:           notif.OrderID,
		EventTransactionStatus: notif.TransactionStatus,
		EventSignatureValid:    sigValid,
		EventPayload:           datatypes.JSON(raw),
		EventStatus:            status,
	}
	if notif.TransactionID != "" {
		txID := notif.TransactionID
		ev.EventTransactionID = &txID
	}
	if errMsg != "" {
		ev.EventError = &errMsg
	}
	if err := ctrl.DB.Create(&ev).Error; err != nil {
		log.Println("[ERROR] log gateway event:", err)
	}
}
