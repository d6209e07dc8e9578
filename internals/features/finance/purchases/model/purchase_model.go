package model

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

// IsTerminal reports whether the status accepts no further transitions.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseStatusCompleted || s == PurchaseStatusFailed
}

// PurchaseModel tracks one checkout attempt. The gateway order id is the
// stable key webhooks reconcile against.
type PurchaseModel struct {
	PurchaseID       uuid.UUID `gorm:"column:purchase_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"purchase_id"`
	PurchaseOrderID  string    `gorm:"column:purchase_order_id;type:varchar(64);not null;uniqueIndex" json:"purchase_order_id"`
	PurchaseUserID   string    `gorm:"column:purchase_user_id;type:varchar(64);not null;index" json:"purchase_user_id"`
	PurchaseCourseID uuid.UUID `gorm:"column:purchase_course_id;type:uuid;not null;index" json:"purchase_course_id"`

	PurchaseAmount   float64        `gorm:"column:purchase_amount;type:numeric(12,2);not null" json:"purchase_amount"`
	PurchaseCurrency string         `gorm:"column:purchase_currency;type:varchar(8);not null;default:'IDR'" json:"purchase_currency"`
	PurchaseStatus   PurchaseStatus `gorm:"column:purchase_status;type:varchar(16);not null;default:'pending'" json:"purchase_status"`

	PurchaseSnapToken   string `gorm:"column:purchase_snap_token;type:varchar(128)" json:"purchase_snap_token,omitempty"`
	PurchaseRedirectURL string `gorm:"column:purchase_redirect_url;type:text" json:"purchase_redirect_url,omitempty"`

	PurchaseGatewayRef *string    `gorm:"column:purchase_gateway_ref;type:varchar(128)" json:"purchase_gateway_ref,omitempty"`
	PurchasePaidAt     *time.Time `gorm:"column:purchase_paid_at" json:"purchase_paid_at,omitempty"`

	PurchaseCreatedAt time.Time `gorm:"column:purchase_created_at;autoCreateTime" json:"purchase_created_at"`
	PurchaseUpdatedAt time.Time `gorm:"column:purchase_updated_at;autoUpdateTime" json:"purchase_updated_at"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}
