package pricing

import "math"

// FinalPrice computes the price of plan after applying coupon.
// Percentage coupons round half away from zero. Either kind clamps at
// zero, so an over-generous coupon never produces a negative price.
func FinalPrice(priceRupees int64, coupon *Coupon) int64 {
	if coupon == nil {
		return priceRupees
	}
	var final int64
	switch coupon.DiscountType {
	case DiscountPercentage:
		final = int64(math.Round(float64(priceRupees) - float64(priceRupees)*float64(coupon.Value)/100))
	case DiscountFlat:
		final = priceRupees - coupon.Value
	default:
		return priceRupees
	}
	if final < 0 {
		return 0
	}
	return final
}

// Annotate computes the display discount of coupon across plans.
func Annotate(plans []Plan, coupon *Coupon) []AnnotatedPlan {
	out := make([]AnnotatedPlan, 0, len(plans))
	for _, p := range plans {
		final := FinalPrice(p.PriceRupees, coupon)
		out = append(out, AnnotatedPlan{
			Plan:             p,
			FinalPriceRupees: final,
			DiscountRupees:   p.PriceRupees - final,
			CouponApplied:    coupon != nil,
		})
	}
	return out
}
