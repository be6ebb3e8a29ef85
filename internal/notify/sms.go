package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

// SMSSender delivers short text messages (OTP codes, booking reminders).
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// GatewaySMSSender sends SMS through an HTTP SMS gateway.
type GatewaySMSSender struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewGatewaySMSSender creates an SMS sender for the configured gateway.
// Returns nil when no gateway URL is configured.
func NewGatewaySMSSender(baseURL, apiKey, senderID string, logger *logging.Logger) *GatewaySMSSender {
	if baseURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GatewaySMSSender{
		baseURL:    baseURL,
		apiKey:     apiKey,
		senderID:   senderID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type gatewaySMSRequest struct {
	To       string `json:"to"`
	Body     string `json:"body"`
	SenderID string `json:"sender_id,omitempty"`
}

// SendSMS posts the message to the gateway.
func (s *GatewaySMSSender) SendSMS(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(gatewaySMSRequest{To: to, Body: body, SenderID: s.senderID})
	if err != nil {
		return fmt.Errorf("notify: marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("sms gateway request failed", "error", err, "to", to)
		return fmt.Errorf("notify: sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		s.logger.Error("sms gateway returned error status", "status", resp.StatusCode, "to", to)
		return fmt.Errorf("notify: sms gateway returned status %d", resp.StatusCode)
	}

	s.logger.Info("sms sent", "to", to)
	return nil
}

// StubSMSSender logs messages without sending. Used in development and tests.
type StubSMSSender struct {
	logger *logging.Logger
}

// NewStubSMSSender creates a stub SMS sender.
func NewStubSMSSender(logger *logging.Logger) *StubSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSMSSender{logger: logger}
}

// SendSMS logs the message but doesn't actually send it.
func (s *StubSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info("stub sms sender: would send sms", "to", to)
	return nil
}

var (
	_ SMSSender = (*GatewaySMSSender)(nil)
	_ SMSSender = (*StubSMSSender)(nil)
)
