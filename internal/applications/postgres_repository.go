package applications

import (
	"context"
	"encoding/json"
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

// PostgresRepository stores applications in the relational database.
// Repeatable employment/education rows are kept as JSONB alongside the
// flat columns.
type PostgresRepository struct {
	db dbConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("applications: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db dbConn) *PostgresRepository {
	if db == nil {
		panic("applications: db conn required")
	}
	return &PostgresRepository{db: db}
}

const applicationColumns = `id, role, full_name, email, phone, address,
	document1_type, document_id1, front_image1_url, back_image1_url,
	document2_type, document_id2, front_image2_url, back_image2_url,
	resume_url, employment, education,
	bank_account_name, bank_account_number, bank_ifsc,
	registration_number, specialization,
	status, verified_at, created_at`

// Create stores an application.
func (r *PostgresRepository) Create(ctx context.Context, a *Application) error {
	employment, err := json.Marshal(a.Employment)
	if err != nil {
		return fmt.Errorf("applications: marshal employment: %w", err)
	}
	education, err := json.Marshal(a.Education)
	if err != nil {
		return fmt.Errorf("applications: marshal education: %w", err)
	}

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	_, err = r.db.Exec(ctx, query,
		a.ID, a.Role, a.FullName, a.Email, a.Phone, a.Address,
		a.Document1Type, a.DocumentID1, a.FrontImage1URL, a.BackImage1URL,
		a.Document2Type, a.DocumentID2, a.FrontImage2URL, a.BackImage2URL,
		a.ResumeURL, employment, education,
		a.BankAccountName, a.BankAccountNumber, a.BankIFSC,
		a.RegistrationNumber, a.Specialization,
		a.Status, a.VerifiedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("applications: create: %w", err)
	}
	return nil
}

// GetByID returns the application with id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("applications: get: %w", err)
	}
	return a, nil
}

// ListByStatus returns applications with status, newest first. An empty
// status returns everything.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("applications: list: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("applications: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// SetStatus updates the status of an application.
func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string, verifiedAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, verified_at = $3 WHERE id = $1`,
		id, status, verifiedAt,
	)
	if err != nil {
		return fmt.Errorf("applications: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*Application, error) {
	var (
		a                     Application
		employment, education []byte
	)
	if err := row.Scan(&a.ID, &a.Role, &a.FullName, &a.Email, &a.Phone, &a.Address,
		&a.Document1Type, &a.DocumentID1, &a.FrontImage1URL, &a.BackImage1URL,
		&a.Document2Type, &a.DocumentID2, &a.FrontImage2URL, &a.BackImage2URL,
		&a.ResumeURL, &employment, &education,
		&a.BankAccountName, &a.BankAccountNumber, &a.BankIFSC,
		&a.RegistrationNumber, &a.Specialization,
		&a.Status, &a.VerifiedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	if len(employment) > 0 {
		if err := json.Unmarshal(employment, &a.Employment); err != nil {
			return nil, fmt.Errorf("applications: decode employment: %w", err)
		}
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &a.Education); err != nil {
			return nil, fmt.Errorf("applications: decode education: %w", err)
		}
	}
	return &a, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
