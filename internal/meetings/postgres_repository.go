package meetings

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

// PostgresRepository stores meetings in the relational database.
type PostgresRepository struct {
	db dbConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("meetings: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db dbConn) *PostgresRepository {
	if db == nil {
		panic("meetings: db conn required")
	}
	return &PostgresRepository{db: db}
}

const meetingColumns = `id, organizer_id, participant_id, participant_email, title, agenda,
	scheduled_at, duration_mins, join_url, created_at`

// Create stores a meeting.
func (r *PostgresRepository) Create(ctx context.Context, m *Meeting) error {
	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.OrganizerID, m.ParticipantID, m.ParticipantEmail, m.Title, m.Agenda,
		m.ScheduledAt, m.DurationMins, m.JoinURL, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("meetings: create: %w", err)
	}
	return nil
}

// GetByID returns the meeting with id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	var m Meeting
	if err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.OrganizerID, &m.ParticipantID, &m.ParticipantEmail,
		&m.Title, &m.Agenda, &m.ScheduledAt, &m.DurationMins, &m.JoinURL, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("meetings: get: %w", err)
	}
	return &m, nil
}

// ListForUser returns the meetings a user organizes or attends, soonest
// first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE organizer_id = $1 OR participant_id = $1
		ORDER BY scheduled_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("meetings: list: %w", err)
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.OrganizerID, &m.ParticipantID, &m.ParticipantEmail,
			&m.Title, &m.Agenda, &m.ScheduledAt, &m.DurationMins, &m.JoinURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("meetings: scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a meeting.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("meetings: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
