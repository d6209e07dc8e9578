package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GatewayEventStatusProcessed = "processed"
	GatewayEventStatusIgnored   = "ignored"
	GatewayEventStatusFailed    = "failed"
)

// PaymentGatewayEventModel is the audit log of every webhook delivery,
// stored whether or not a matching purchase exists.
type PaymentGatewayEventModel struct {
	EventID      uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	EventOrderID string    `gorm:"column:event_order_id;type:varchar(64);not null;index" json:"event_order_id"`

	EventTransactionStatus string  `gorm:"column:event_transaction_status;type:varchar(32);not null" json:"event_transaction_status"`
	EventTransactionID     *string `gorm:"column:event_transaction_id;type:varchar(128)" json:"event_transaction_id,omitempty"`
	EventSignatureValid    bool    `gorm:"column:event_signature_valid;not null" json:"event_signature_valid"`

	EventPayload datatypes.JSON `gorm:"column:event_payload;type:jsonb;not null;default:'{}'::jsonb" json:"event_payload"`

	EventStatus string  `gorm:"column:event_status;type:varchar(16);not null" json:"event_status"`
	EventError  *string `gorm:"column:event_error;type:text" json:"event_error,omitempty"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}
