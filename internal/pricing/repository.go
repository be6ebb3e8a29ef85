package pricing

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository defines the interface for plan and coupon storage.
type Repository interface {
	ListPlans(ctx context.Context, serviceType string) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	GetCoupon(ctx context.Context, code string) (*Coupon, error)
}

// InMemoryRepository serves plans and coupons from memory. Used in
// development and tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	plans   map[string]Plan
	coupons map[string]Coupon
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		plans:   make(map[string]Plan),
		coupons: make(map[string]Coupon),
	}
}

// AddPlan registers a plan.
func (r *InMemoryRepository) AddPlan(p Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID] = p
}

// AddCoupon registers a coupon.
func (r *InMemoryRepository) AddCoupon(c Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[strings.ToUpper(c.Code)] = c
}

// ListPlans returns the plans for a service type.
func (r *InMemoryRepository) ListPlans(ctx context.Context, serviceType string) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Plan
	for _, p := range r.plans {
		if p.ServiceType == serviceType {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceRupees < out[j].PriceRupees })
	return out, nil
}

// GetPlan returns the plan with id.
func (r *InMemoryRepository) GetPlan(ctx context.Context, id string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return &p, nil
}

// GetCoupon returns the coupon with code (case-insensitive).
func (r *InMemoryRepository) GetCoupon(ctx context.Context, code string) (*Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return &c, nil
}
