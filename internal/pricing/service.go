package pricing

import (
	"context"
	"time"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Service answers plan listings and coupon validation.
type Service struct {
	repo   Repository
	users  users.Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates the pricing service.
func NewService(repo Repository, usersRepo users.Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:   repo,
		users:  usersRepo,
		logger: logger,
		now:    time.Now,
	}
}

// ListPlans returns the plans for a service type.
func (s *Service) ListPlans(ctx context.Context, serviceType string) ([]Plan, error) {
	if !ValidServiceType(serviceType) {
		return nil, ErrInvalidServiceType
	}
	return s.repo.ListPlans(ctx, serviceType)
}

// ValidateCoupon checks code and returns every plan of the service type
// annotated with its discounted price. The caller identity, when present,
// gates new-user-only coupons: once an account has a confirmed booking the
// coupon is rejected.
func (s *Service) ValidateCoupon(ctx context.Context, code, serviceType string) (*Coupon, []AnnotatedPlan, error) {
	if !ValidServiceType(serviceType) {
		return nil, nil, ErrInvalidServiceType
	}

	coupon, err := s.repo.GetCoupon(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if !coupon.Active || coupon.Expired(s.now()) {
		return nil, nil, ErrCouponInactive
	}

	if coupon.NewUsersOnly {
		if id, ok := authctx.FromContext(ctx); ok {
			user, err := s.users.GetByID(ctx, id.UserID)
			if err == nil && !user.IsNewUser {
				return nil, nil, ErrCouponNewUsersOnly
			}
		}
	}

	plans, err := s.repo.ListPlans(ctx, serviceType)
	if err != nil {
		return nil, nil, err
	}
	return coupon, Annotate(plans, coupon), nil
}

// ResolveCoupon revalidates a stored coupon code for a known user id.
// Booking sessions call this when the applying user's identity becomes
// known after login.
func (s *Service) ResolveCoupon(ctx context.Context, code string, userID string) (*Coupon, error) {
	coupon, err := s.repo.GetCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Active || coupon.Expired(s.now()) {
		return nil, ErrCouponInactive
	}
	if coupon.NewUsersOnly && userID != "" {
		user, err := s.users.GetByID(ctx, userID)
		if err == nil && !user.IsNewUser {
			return nil, ErrCouponNewUsersOnly
		}
	}
	return coupon, nil
}

// GetPlan returns the plan with id.
func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	return s.repo.GetPlan(ctx, id)
}
