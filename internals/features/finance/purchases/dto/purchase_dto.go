package dto

import (
	"time"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/finance/purchases/model"
)

type CreateSessionRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

type PurchaseDTO struct {
	PurchaseID       uuid.UUID            `json:"purchase_id"`
	PurchaseOrderID  string               `json:"purchase_order_id"`
	PurchaseCourseID uuid.UUID            `json:"purchase_course_id"`
	PurchaseAmount   float64              `json:"purchase_amount"`
	PurchaseCurrency string               `json:"purchase_currency"`
	PurchaseStatus   model.PurchaseStatus `json:"purchase_status"`
	SnapToken        string               `json:"snap_token,omitempty"`
	RedirectURL      string               `json:"redirect_url,omitempty"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

func ToPurchaseDTO(m model.PurchaseModel) PurchaseDTO {
	return PurchaseDTO{
		PurchaseID:       m.PurchaseID,
		PurchaseOrderID:  m.PurchaseOrderID,
		PurchaseCourseID: m.PurchaseCourseID,
		PurchaseAmount:   m.PurchaseAmount,
		PurchaseCurrency: m.PurchaseCurrency,
		PurchaseStatus:   m.PurchaseStatus,
		SnapToken:        m.PurchaseSnapToken,
		RedirectURL:      m.PurchaseRedirectURL,
		PaidAt:           m.PurchasePaidAt,
		CreatedAt:        m.PurchaseCreatedAt,
	}
}

// MidtransNotification is the gateway webhook payload. Gross amount arrives
// as a string and participates verbatim in the signature.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}
