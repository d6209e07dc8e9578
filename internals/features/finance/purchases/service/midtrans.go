package service

import (
	"errors"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"kursusku_backend/internals/features/finance/purchases/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans must be called once at bootstrap.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

type CustomerInput struct {
	Name  string
	Email string
}

/* =========================================================
   Generate Snap Token
========================================================= */

// GenerateSnapToken creates a checkout session for a pending purchase and
// returns (token, redirectURL).
func GenerateSnapToken(p model.PurchaseModel, courseTitle string, cust CustomerInput, finishURL string) (string, string, error) {
	if p.PurchaseAmount <= 0 {
		return "", "", errors.New("invalid purchase amount")
	}
	if p.PurchaseOrderID == "" {
		return "", "", errors.New("purchase order id is required")
	}

	gross := int64(p.PurchaseAmount + 0.5)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.PurchaseOrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       p.PurchaseCourseID.String(),
				Price:    gross,
				Qty:      1,
				Name:     truncate(courseTitle, 50),
				Category: "Course",
			},
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}
	if finishURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: finishURL}
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", fmt.Errorf("midtrans create transaction: %w", err)
	}
	return resp.Token, resp.RedirectURL, nil
}

// truncate cuts on runes so a multi-byte title never ends mid-sequence.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
