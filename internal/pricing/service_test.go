package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *users.InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	usersRepo := users.NewInMemoryRepository()
	svc := NewService(repo, usersRepo, logging.New("error"))
	return svc, repo, usersRepo
}

func seedPlans(repo *InMemoryRepository) {
	repo.AddPlan(Plan{ID: "plan-1", ServiceType: ServiceCosmetology, Name: "Single Session", Sessions: 1, DurationMins: 30, PriceRupees: 500})
	repo.AddPlan(Plan{ID: "plan-2", ServiceType: ServiceCosmetology, Name: "Three Sessions", Sessions: 3, DurationMins: 30, PriceRupees: 1200})
	repo.AddPlan(Plan{ID: "plan-3", ServiceType: ServiceCounselling, Name: "Intro Call", Sessions: 1, DurationMins: 45, PriceRupees: 750})
}

func TestListPlansFiltersByServiceType(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)

	plans, err := svc.ListPlans(context.Background(), ServiceCounselling)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-3", plans[0].ID)
}

func TestListPlansRejectsUnknownServiceType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListPlans(context.Background(), "astrology")
	assert.ErrorIs(t, err, ErrInvalidServiceType)
}

func TestValidateCouponAnnotatesPlans(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)
	repo.AddCoupon(Coupon{Code: "SAVE20", DiscountType: DiscountPercentage, Value: 20, Active: true})

	coupon, plans, err := svc.ValidateCoupon(context.Background(), "save20", ServiceCosmetology)
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", coupon.Code)
	require.Len(t, plans, 2)
	assert.Equal(t, int64(400), plans[0].FinalPriceRupees)
	assert.Equal(t, int64(960), plans[1].FinalPriceRupees)
}

func TestValidateCouponUnknownCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)

	_, _, err := svc.ValidateCoupon(context.Background(), "NOPE", ServiceCosmetology)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidateCouponInactive(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)
	repo.AddCoupon(Coupon{Code: "OLD", DiscountType: DiscountFlat, Value: 100, Active: false})

	_, _, err := svc.ValidateCoupon(context.Background(), "OLD", ServiceCosmetology)
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestValidateCouponExpired(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)
	past := time.Now().Add(-time.Hour)
	repo.AddCoupon(Coupon{Code: "GONE", DiscountType: DiscountFlat, Value: 100, Active: true, ExpiresAt: &past})

	_, _, err := svc.ValidateCoupon(context.Background(), "GONE", ServiceCosmetology)
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestValidateCouponNewUsersOnly(t *testing.T) {
	svc, repo, usersRepo := newTestService(t)
	seedPlans(repo)
	repo.AddCoupon(Coupon{Code: "FIRST100", DiscountType: DiscountFlat, Value: 100, NewUsersOnly: true, Active: true})

	user, err := usersRepo.GetOrCreateByPhone(context.Background(), "9876543210")
	require.NoError(t, err)

	identity := authctx.Identity{UserID: user.ID, Phone: user.Phone, Role: user.Role}
	ctx := authctx.WithIdentity(context.Background(), identity)

	// New account: the coupon applies.
	_, plans, err := svc.ValidateCoupon(ctx, "FIRST100", ServiceCosmetology)
	require.NoError(t, err)
	assert.Equal(t, int64(400), plans[0].FinalPriceRupees)

	// After a confirmed booking the restricted coupon is rejected.
	require.NoError(t, usersRepo.ClearNewUser(context.Background(), user.ID))
	_, _, err = svc.ValidateCoupon(ctx, "FIRST100", ServiceCosmetology)
	assert.ErrorIs(t, err, ErrCouponNewUsersOnly)
}

func TestValidateCouponNewUsersOnlyAnonymous(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedPlans(repo)
	repo.AddCoupon(Coupon{Code: "FIRST100", DiscountType: DiscountFlat, Value: 100, NewUsersOnly: true, Active: true})

	// Anonymous previews are allowed; the restriction is enforced again at
	// payment time once the account is known.
	_, _, err := svc.ValidateCoupon(context.Background(), "FIRST100", ServiceCosmetology)
	assert.NoError(t, err)
}

func TestResolveCoupon(t *testing.T) {
	svc, repo, usersRepo := newTestService(t)
	seedPlans(repo)
	repo.AddCoupon(Coupon{Code: "FIRST100", DiscountType: DiscountFlat, Value: 100, NewUsersOnly: true, Active: true})

	user, err := usersRepo.GetOrCreateByPhone(context.Background(), "9876543210")
	require.NoError(t, err)

	coupon, err := svc.ResolveCoupon(context.Background(), "FIRST100", user.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIRST100", coupon.Code)

	require.NoError(t, usersRepo.ClearNewUser(context.Background(), user.ID))
	_, err = svc.ResolveCoupon(context.Background(), "FIRST100", user.ID)
	assert.ErrorIs(t, err, ErrCouponNewUsersOnly)
}
