package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betterhealth/bh-platform/internal/authctx"
)

type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db dbConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("users: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db dbConn) *PostgresRepository {
	if db == nil {
		panic("users: db conn required")
	}
	return &PostgresRepository{db: db}
}

// GetOrCreateByPhone returns the account for phone, creating it on first use.
func (r *PostgresRepository) GetOrCreateByPhone(ctx context.Context, phone string) (*User, error) {
	query := `
		INSERT INTO users (id, phone, role, is_new_user)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (phone) DO UPDATE SET phone = excluded.phone
		RETURNING id, phone, COALESCE(name, ''), COALESCE(email, ''), role, is_new_user, created_at
	`
	var user User
	if err := r.db.QueryRow(ctx, query, uuid.New(), phone, authctx.RolePatient).Scan(
		&user.ID,
		&user.Phone,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.IsNewUser,
		&user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("users: get or create by phone: %w", err)
	}
	return &user, nil
}

// GetByID fetches a user by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, phone, COALESCE(name, ''), COALESCE(email, ''), role, is_new_user, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, phone, COALESCE(name, ''), COALESCE(email, ''), role, is_new_user, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile sets the display name and email on an account.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, email string) (*User, error) {
	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email)
		WHERE id = $1
		RETURNING id, phone, COALESCE(name, ''), COALESCE(email, ''), role, is_new_user, created_at
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id, name, email))
}

// ClearNewUser marks the account as no longer eligible for new-user coupons.
func (r *PostgresRepository) ClearNewUser(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `UPDATE users SET is_new_user = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: clear new user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.IsNewUser,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: scan user: %w", err)
	}
	return &user, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
