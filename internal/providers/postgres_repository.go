package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores providers and slots in the relational database.
type PostgresRepository struct {
	db dbConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("providers: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db dbConn) *PostgresRepository {
	if db == nil {
		panic("providers: db conn required")
	}
	return &PostgresRepository{db: db}
}

// ListProviders returns the active providers for a service type.
func (r *PostgresRepository) ListProviders(ctx context.Context, serviceType string) ([]Provider, error) {
	query := `
		SELECT id, service_type, name, qualification, experience_years, rating, bio, photo_url, languages, active
		FROM providers
		WHERE service_type = $1 AND active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, serviceType)
	if err != nil {
		return nil, fmt.Errorf("providers: list: %w", err)
	}
	defer rows.Close()

	var out []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetProvider returns the provider with id.
func (r *PostgresRepository) GetProvider(ctx context.Context, id string) (*Provider, error) {
	query := `
		SELECT id, service_type, name, qualification, experience_years, rating, bio, photo_url, languages, active
		FROM providers
		WHERE id = $1
	`
	p, err := scanProvider(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("providers: get: %w", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProvider(row scanner) (*Provider, error) {
	var p Provider
	if err := row.Scan(&p.ID, &p.ServiceType, &p.Name, &p.Qualification, &p.ExperienceYrs, &p.Rating, &p.Bio, &p.PhotoURL, &p.Languages, &p.Active); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListSlots returns the open slots for a provider starting at or after from.
func (r *PostgresRepository) ListSlots(ctx context.Context, providerID string, from time.Time) ([]Slot, error) {
	query := `
		SELECT id, provider_id, starts_at, duration_mins, booked
		FROM provider_slots
		WHERE provider_id = $1 AND NOT booked AND starts_at >= $2
		ORDER BY starts_at
	`
	rows, err := r.db.Query(ctx, query, providerID, from)
	if err != nil {
		return nil, fmt.Errorf("providers: list slots: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.ProviderID, &s.StartsAt, &s.DurationMins, &s.Booked); err != nil {
			return nil, fmt.Errorf("providers: scan slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSlot returns the slot with id.
func (r *PostgresRepository) GetSlot(ctx context.Context, id string) (*Slot, error) {
	query := `
		SELECT id, provider_id, starts_at, duration_mins, booked
		FROM provider_slots
		WHERE id = $1
	`
	var s Slot
	if err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.ProviderID, &s.StartsAt, &s.DurationMins, &s.Booked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("providers: get slot: %w", err)
	}
	return &s, nil
}

// MarkSlotBooked flags a slot as taken. The WHERE NOT booked guard keeps
// the update safe under concurrent confirmations.
func (r *PostgresRepository) MarkSlotBooked(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE provider_slots SET booked = TRUE WHERE id = $1 AND NOT booked`, id)
	if err != nil {
		return fmt.Errorf("providers: mark slot booked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotTaken
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
