package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, problem_id, query, is_correct, execution_time_ms)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING submitted_at`
	err := r.db.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Query, sub.IsCorrect, sub.ExecutionTimeMs,
	).Scan(&sub.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation: user or problem gone
			return fmt.Errorf("submission references a missing row: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

// ListByUser returns newest first; id breaks ties for a stable order.
func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	query := `SELECT id, user_id, problem_id, query, is_correct, execution_time_ms, submitted_at
	          FROM submissions
	          WHERE user_id = $1
	          ORDER BY submitted_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.Query, &s.IsCorrect, &s.ExecutionTimeMs, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser rows.Err: %w", err)
	}
	return subs, nil
}
