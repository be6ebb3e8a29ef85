package pricing

import "errors"

var (
	// ErrPlanNotFound is returned when no plan matches the lookup.
	ErrPlanNotFound = errors.New("pricing plan not found")

	// ErrCouponNotFound is returned when the coupon code is unknown.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponInactive is returned for disabled or expired coupons.
	ErrCouponInactive = errors.New("coupon is no longer valid")

	// ErrCouponNewUsersOnly is returned when a restricted coupon is applied
	// by an account with a prior confirmed booking.
	ErrCouponNewUsersOnly = errors.New("coupon is valid for new users only")

	// ErrInvalidServiceType is returned for unknown service types.
	ErrInvalidServiceType = errors.New("unknown service type")
)
