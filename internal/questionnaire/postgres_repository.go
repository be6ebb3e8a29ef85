package questionnaire

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores intake questions in the relational database.
type PostgresRepository struct {
	db rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("questionnaire: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithConn(db rowQuerier) *PostgresRepository {
	if db == nil {
		panic("questionnaire: db conn required")
	}
	return &PostgresRepository{db: db}
}

// ListQuestions returns the questions for a service type in display order.
func (r *PostgresRepository) ListQuestions(ctx context.Context, serviceType string) ([]Question, error) {
	query := `
		SELECT id, service_type, kind, prompt, options, scale_min, scale_max, required, position
		FROM questionnaire_questions
		WHERE service_type = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, serviceType)
	if err != nil {
		return nil, fmt.Errorf("questionnaire: list questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.ServiceType, &q.Kind, &q.Prompt, &q.Options, &q.ScaleMin, &q.ScaleMax, &q.Required, &q.Position); err != nil {
			return nil, fmt.Errorf("questionnaire: scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
