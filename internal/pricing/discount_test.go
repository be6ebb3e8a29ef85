package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPricePercentage(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		pct   int64
		want  int64
	}{
		{name: "20 percent off 500", price: 500, pct: 20, want: 400},
		{name: "10 percent off 999 rounds", price: 999, pct: 10, want: 899},
		{name: "full discount", price: 750, pct: 100, want: 0},
		{name: "over 100 percent clamps to zero", price: 750, pct: 150, want: 0},
		{name: "zero percent", price: 750, pct: 0, want: 750},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := &Coupon{Code: "PCT", DiscountType: DiscountPercentage, Value: tt.pct, Active: true}
			assert.Equal(t, tt.want, FinalPrice(tt.price, coupon))
		})
	}
}

func TestFinalPriceFlat(t *testing.T) {
	tests := []struct {
		name   string
		price  int64
		rupees int64
		want   int64
	}{
		{name: "100 off 750", price: 750, rupees: 100, want: 650},
		{name: "exact amount", price: 500, rupees: 500, want: 0},
		{name: "discount exceeds price clamps to zero", price: 200, rupees: 500, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := &Coupon{Code: "FLAT", DiscountType: DiscountFlat, Value: tt.rupees, Active: true}
			assert.Equal(t, tt.want, FinalPrice(tt.price, coupon))
		})
	}
}

func TestFinalPriceNilCoupon(t *testing.T) {
	assert.Equal(t, int64(750), FinalPrice(750, nil))
}

func TestAnnotate(t *testing.T) {
	plans := []Plan{
		{ID: "p1", ServiceType: ServiceCosmetology, Name: "Single Session", PriceRupees: 500},
		{ID: "p2", ServiceType: ServiceCosmetology, Name: "Three Sessions", PriceRupees: 1200},
	}
	coupon := &Coupon{Code: "WELCOME20", DiscountType: DiscountPercentage, Value: 20, Active: true}

	got := Annotate(plans, coupon)

	assert.Len(t, got, 2)
	assert.Equal(t, int64(400), got[0].FinalPriceRupees)
	assert.Equal(t, int64(100), got[0].DiscountRupees)
	assert.True(t, got[0].CouponApplied)
	assert.Equal(t, int64(960), got[1].FinalPriceRupees)
	assert.Equal(t, int64(240), got[1].DiscountRupees)
}
