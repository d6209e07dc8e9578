package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kursusku_backend/internals/features/finance/purchases/model"
)

func signatureFor(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifySignatureKey(t *testing.T) {
	const serverKey = "SB-Mid-server-testkey"
	sig := signatureFor("KURSUS-123", "200", "150000.00", serverKey)

	assert.True(t, VerifySignatureKey("KURSUS-123", "200", "150000.00", serverKey, sig))
	// case-insensitive on the provided signature
	assert.True(t, VerifySignatureKey("KURSUS-123", "200", "150000.00", serverKey, strings.ToUpper(sig)))

	assert.False(t, VerifySignatureKey("KURSUS-123", "200", "150000.00", serverKey, ""))
	assert.False(t, VerifySignatureKey("KURSUS-123", "200", "150000.00", serverKey, "deadbeef"))
	assert.False(t, VerifySignatureKey("KURSUS-999", "200", "150000.00", serverKey, sig))
	assert.False(t, VerifySignatureKey("KURSUS-123", "200", "150000.01", serverKey, sig))
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		txStatus    string
		fraudStatus string
		want        model.PurchaseStatus
	}{
		{"settlement", "", model.PurchaseStatusCompleted},
		{"capture", "accept", model.PurchaseStatusCompleted},
		{"capture", "", model.PurchaseStatusCompleted},
		{"capture", "challenge", model.PurchaseStatusPending},
		{"capture", "deny", model.PurchaseStatusFailed},
		{"deny", "", model.PurchaseStatusFailed},
		{"cancel", "", model.PurchaseStatusFailed},
		{"expire", "", model.PurchaseStatusFailed},
		{"failure", "", model.PurchaseStatusFailed},
		{"pending", "", model.PurchaseStatusPending},
		{"authorize", "", model.PurchaseStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.txStatus+"/"+tc.fraudStatus, func(t *testing.T) {
			got, err := MapTransactionStatus(tc.txStatus, tc.fraudStatus)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMapTransactionStatusUnknown(t *testing.T) {
	_, err := MapTransactionStatus("refund", "")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPurchaseStatusTerminal(t *testing.T) {
	assert.False(t, model.PurchaseStatusPending.IsTerminal())
	assert.True(t, model.PurchaseStatusCompleted.IsTerminal())
	assert.True(t, model.PurchaseStatusFailed.IsTerminal())
}
