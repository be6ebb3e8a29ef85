package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

// FakeGateway is a dev/demo gateway that issues local order ids and
// accepts signatures computed with its own secret.
//
// This MUST be gated by configuration (e.g. ALLOW_FAKE_PAYMENTS) and
// should never be enabled in production.
type FakeGateway struct {
	secret string
	logger *logging.Logger
}

// NewFakeGateway creates a fake gateway signing with secret.
func NewFakeGateway(secret string, logger *logging.Logger) *FakeGateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &FakeGateway{secret: secret, logger: logger}
}

// CreateOrder issues a local order without contacting any processor.
func (g *FakeGateway) CreateOrder(ctx context.Context, amountRupees int64, receipt string) (*Order, error) {
	_ = ctx
	order := &Order{
		ID:          "fake_order_" + uuid.New().String(),
		AmountPaise: amountRupees * 100,
		Currency:    "INR",
		Key:         "fake",
	}
	g.logger.Warn("fake payment order created", "order_id", order.ID, "receipt", receipt)
	return order, nil
}

// VerifySignature checks a signature produced by Sign.
func (g *FakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	return verifySignature(g.secret, orderID, paymentID, signature)
}

// Sign computes the signature a real gateway would return. Exposed so the
// demo checkout page and tests can complete the flow.
func (g *FakeGateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
