package payments

import (
	"context"
	"errors"
)

var (
	// ErrOrderFailed is returned when the gateway rejects order creation.
	ErrOrderFailed = errors.New("payment order creation failed")

	// ErrBadSignature is returned when a payment callback carries a
	// signature that does not match the order.
	ErrBadSignature = errors.New("payment signature mismatch")
)

// Order is a payment order opened at the gateway. Amounts are in paise.
type Order struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	Key         string `json:"key,omitempty"`
}

// Gateway opens payment orders with an external processor.
type Gateway interface {
	CreateOrder(ctx context.Context, amountRupees int64, receipt string) (*Order, error)
}

// Verifier checks the signature a gateway attaches to completed payments.
type Verifier interface {
	VerifySignature(orderID, paymentID, signature string) error
}
