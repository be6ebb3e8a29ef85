package booking

import (
	"time"

	"github.com/betterhealth/bh-platform/internal/questionnaire"
)

// Wizard steps, in order. A session may only advance one step at a time
// but can always go back.
const (
	StepPricing      = 0
	StepProvider     = 1
	StepContact      = 2
	StepPayment      = 3
	StepConfirmation = 4
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Session is the server-side state of one booking wizard run. Sessions
// live in Redis until confirmed or expired.
type Session struct {
	ID          string    `json:"id"`
	ServiceType string    `json:"service_type"`
	Step        int       `json:"step"`
	CreatedAt   time.Time `json:"created_at"`

	PlanID           string `json:"plan_id,omitempty"`
	CouponCode       string `json:"coupon_code,omitempty"`
	FinalPriceRupees int64  `json:"final_price_rupees,omitempty"`
	DiscountRupees   int64  `json:"discount_rupees,omitempty"`

	ProviderID string `json:"provider_id,omitempty"`
	SlotID     string `json:"slot_id,omitempty"`

	UserID  string                 `json:"user_id,omitempty"`
	Phone   string                 `json:"phone,omitempty"`
	Name    string                 `json:"name,omitempty"`
	Email   string                 `json:"email,omitempty"`
	Answers []questionnaire.Answer `json:"answers,omitempty"`

	PaymentOrderID string `json:"payment_order_id,omitempty"`
	BookingID      string `json:"booking_id,omitempty"`
}

// Booking is a confirmed appointment persisted to the database.
type Booking struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ServiceType      string    `json:"service_type"`
	PlanID           string    `json:"plan_id"`
	ProviderID       string    `json:"provider_id"`
	SlotID           string    `json:"slot_id"`
	CouponCode       string    `json:"coupon_code,omitempty"`
	AmountRupees     int64     `json:"amount_rupees"`
	DiscountRupees   int64     `json:"discount_rupees"`
	Status           string    `json:"status"`
	PaymentOrderID   string    `json:"payment_order_id,omitempty"`
	PaymentID        string    `json:"payment_id,omitempty"`
	QuestionnaireRaw []byte    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}
