package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores plans and coupons in the relational database.
type PostgresRepository struct {
	db rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("pricing: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db rowQuerier) *PostgresRepository {
	if db == nil {
		panic("pricing: db conn required")
	}
	return &PostgresRepository{db: db}
}

// ListPlans returns the active plans for a service type.
func (r *PostgresRepository) ListPlans(ctx context.Context, serviceType string) ([]Plan, error) {
	query := `
		SELECT id, service_type, name, sessions, duration_mins, price_rupees
		FROM pricing_plans
		WHERE service_type = $1 AND active
		ORDER BY price_rupees
	`
	rows, err := r.db.Query(ctx, query, serviceType)
	if err != nil {
		return nil, fmt.Errorf("pricing: list plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.ServiceType, &p.Name, &p.Sessions, &p.DurationMins, &p.PriceRupees); err != nil {
			return nil, fmt.Errorf("pricing: scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetPlan returns the plan with id.
func (r *PostgresRepository) GetPlan(ctx context.Context, id string) (*Plan, error) {
	query := `
		SELECT id, service_type, name, sessions, duration_mins, price_rupees
		FROM pricing_plans
		WHERE id = $1
	`
	var p Plan
	if err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.ServiceType, &p.Name, &p.Sessions, &p.DurationMins, &p.PriceRupees); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("pricing: get plan: %w", err)
	}
	return &p, nil
}

// GetCoupon returns the coupon with code (case-insensitive).
func (r *PostgresRepository) GetCoupon(ctx context.Context, code string) (*Coupon, error) {
	query := `
		SELECT code, discount_type, value, new_users_only, active, expires_at
		FROM coupons
		WHERE code = $1
	`
	var c Coupon
	if err := r.db.QueryRow(ctx, query, strings.ToUpper(code)).Scan(
		&c.Code,
		&c.DiscountType,
		&c.Value,
		&c.NewUsersOnly,
		&c.Active,
		&c.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("pricing: get coupon: %w", err)
	}
	return &c, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
