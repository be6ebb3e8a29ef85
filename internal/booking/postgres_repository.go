package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores confirmed bookings in the relational database.
type PostgresRepository struct {
	db dbConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db dbConn) *PostgresRepository {
	if db == nil {
		panic("booking: db conn required")
	}
	return &PostgresRepository{db: db}
}

const bookingColumns = `id, user_id, service_type, plan_id, provider_id, slot_id, coupon_code,
	amount_rupees, discount_rupees, status, payment_order_id, payment_id, questionnaire, created_at`

// Create stores a booking.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.UserID, b.ServiceType, b.PlanID, b.ProviderID, b.SlotID, nullable(b.CouponCode),
		b.AmountRupees, b.DiscountRupees, b.Status, nullable(b.PaymentOrderID), nullable(b.PaymentID),
		b.QuestionnaireRaw, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("booking: create: %w", err)
	}
	return nil
}

// GetByID returns the booking with id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking: get: %w", err)
	}
	return b, nil
}

// ListByUser returns the bookings of a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("booking: list by user: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status and payment id on a booking.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status, paymentID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2, payment_id = COALESCE(NULLIF($3, ''), payment_id) WHERE id = $1`,
		id, status, paymentID,
	)
	if err != nil {
		return fmt.Errorf("booking: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*Booking, error) {
	var (
		b                          Booking
		coupon, orderID, paymentID *string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.ServiceType, &b.PlanID, &b.ProviderID, &b.SlotID, &coupon,
		&b.AmountRupees, &b.DiscountRupees, &b.Status, &orderID, &paymentID, &b.QuestionnaireRaw, &b.CreatedAt); err != nil {
		return nil, err
	}
	if coupon != nil {
		b.CouponCode = *coupon
	}
	if orderID != nil {
		b.PaymentOrderID = *orderID
	}
	if paymentID != nil {
		b.PaymentID = *paymentID
	}
	return &b, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
