package pricing

import "time"

// Service types offered on the platform.
const (
	ServiceCosmetology = "cosmetology"
	ServiceCounselling = "counselling"
)

// ValidServiceType reports whether s names a bookable service.
func ValidServiceType(s string) bool {
	return s == ServiceCosmetology || s == ServiceCounselling
}

// Plan is a bookable consultation package. Prices are whole rupees.
type Plan struct {
	ID           string `json:"id"`
	ServiceType  string `json:"service_type"`
	Name         string `json:"name"`
	Sessions     int    `json:"sessions"`
	DurationMins int    `json:"duration_mins"`
	PriceRupees  int64  `json:"price_rupees"`
}

// Coupon discount kinds.
const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

// Coupon is a read-only discount definition fetched from storage.
type Coupon struct {
	Code         string     `json:"code"`
	DiscountType string     `json:"discount_type"`
	Value        int64      `json:"value"` // percent for percentage, rupees for flat
	NewUsersOnly bool       `json:"new_users_only"`
	Active       bool       `json:"active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the coupon is past its expiry.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// AnnotatedPlan is a plan with the display-only discount computed for a coupon.
type AnnotatedPlan struct {
	Plan
	FinalPriceRupees int64 `json:"final_price_rupees"`
	DiscountRupees   int64 `json:"discount_rupees"`
	CouponApplied    bool  `json:"coupon_applied"`
}
