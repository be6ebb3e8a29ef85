package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

var razorpayTracer = otel.Tracer("bh.internal.payments.razorpay")

// RazorpayGateway opens orders against the Razorpay Orders API and
// verifies the checkout signature Razorpay returns to the browser.
type RazorpayGateway struct {
	keyID      string
	keySecret  string
	currency   string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewRazorpayGateway creates a gateway client with live defaults.
func NewRazorpayGateway(keyID, keySecret, currency string, logger *logging.Logger) *RazorpayGateway {
	if logger == nil {
		logger = logging.Default()
	}
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayGateway{
		keyID:      keyID,
		keySecret:  keySecret,
		currency:   currency,
		baseURL:    "https://api.razorpay.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the API host for tests and sandboxes.
func (g *RazorpayGateway) WithBaseURL(baseURL string) *RazorpayGateway {
	if baseURL == "" {
		return g
	}
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder opens an order for amountRupees. Razorpay expects paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountRupees int64, receipt string) (*Order, error) {
	ctx, span := razorpayTracer.Start(ctx, "payments.create_order")
	defer span.End()
	span.SetAttributes(attribute.Int64("payments.amount_rupees", amountRupees))

	if g.keyID == "" || g.keySecret == "" {
		return nil, fmt.Errorf("payments: razorpay credentials not configured")
	}

	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   amountRupees * 100,
		Currency: g.currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payments: build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("payments: order request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("payments: read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.logger.Error("razorpay order rejected", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrOrderFailed, resp.StatusCode)
	}

	var parsed razorpayOrderResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("payments: decode order response: %w", err)
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrOrderFailed)
	}

	return &Order{
		ID:          parsed.ID,
		AmountPaise: parsed.Amount,
		Currency:    parsed.Currency,
		Key:         g.keyID,
	}, nil
}

// VerifySignature checks the HMAC Razorpay computes over "orderID|paymentID".
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	return verifySignature(g.keySecret, orderID, paymentID, signature)
}

func verifySignature(secret, orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ErrBadSignature
	}
	return nil
}
