package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/finance/purchases/model"
)

var (
	ErrPurchaseNotFound = errors.New("purchase not found for order id")
	ErrUnknownStatus    = errors.New("unrecognized transaction status")
)

// VerifySignatureKey checks the gateway payload signature:
// sha512(order_id + status_code + gross_amount + serverKey).
func VerifySignatureKey(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	if signatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	want := hex.EncodeToString(sum[:])
	got := strings.ToLower(signatureKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// MapTransactionStatus maps a gateway transaction status onto the purchase
// state machine. A capture is only money-in-hand when fraud review accepted
// it. Pending-like statuses return PurchaseStatusPending (no transition).
func MapTransactionStatus(transactionStatus, fraudStatus string) (model.PurchaseStatus, error) {
	switch transactionStatus {
	case "settlement":
		return model.PurchaseStatusCompleted, nil
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return model.PurchaseStatusCompleted, nil
		}
		if fraudStatus == "challenge" {
			return model.PurchaseStatusPending, nil
		}
		return model.PurchaseStatusFailed, nil
	case "deny", "cancel", "expire", "failure":
		return model.PurchaseStatusFailed, nil
	case "pending", "authorize":
		return model.PurchaseStatusPending, nil
	default:
		return model.PurchaseStatusPending, ErrUnknownStatus
	}
}

// ReconcileResult reports what a webhook delivery actually changed.
type ReconcileResult struct {
	Purchase    model.PurchaseModel
	Transition  bool
	NewStatus   model.PurchaseStatus
	EnrolledNow bool
}

// Reconcile applies one verified gateway notification. Completed purchases
// enroll the buyer in the same transaction; the enrollment insert is
// conflict-tolerant so a redelivered webhook cannot double-enroll. A
// purchase already in a terminal state is left untouched.
func Reconcile(db *gorm.DB, orderID, transactionStatus, fraudStatus, transactionID string, now time.Time) (ReconcileResult, error) {
	var res ReconcileResult

	newStatus, err := MapTransactionStatus(transactionStatus, fraudStatus)
	if err != nil {
		return res, err
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var purchase model.PurchaseModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&purchase, "purchase_order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}

		res.Purchase = purchase
		res.NewStatus = purchase.PurchaseStatus

		if purchase.PurchaseStatus.IsTerminal() || newStatus == purchase.PurchaseStatus {
			return nil
		}
		if newStatus == model.PurchaseStatusPending {
			return nil
		}

		updates := map[string]interface{}{"purchase_status": newStatus}
		if transactionID != "" {
			updates["purchase_gateway_ref"] = transactionID
		}
		if newStatus == model.PurchaseStatusCompleted {
			updates["purchase_paid_at"] = now
		}
		if err := tx.Model(&purchase).Updates(updates).Error; err != nil {
			return err
		}
		purchase.PurchaseStatus = newStatus
		if newStatus == model.PurchaseStatusCompleted {
			paidAt := now
			purchase.PurchasePaidAt = &paidAt
		}
		res.Purchase = purchase
		res.Transition = true
		res.NewStatus = newStatus

		if newStatus == model.PurchaseStatusCompleted {
			enrollment := courseModel.CourseEnrollmentModel{
				EnrollmentUserID:   purchase.PurchaseUserID,
				EnrollmentCourseID: purchase.PurchaseCourseID,
			}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
			if result.Error != nil {
				return result.Error
			}
			res.EnrolledNow = result.RowsAffected > 0
		}
		return nil
	})
	if txErr != nil {
		return ReconcileResult{}, txErr
	}
	return res, nil
}
