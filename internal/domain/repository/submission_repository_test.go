package repository

import (
	"context"
	"testing"
	"time"

	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgSubmissionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO submissions \(id, user_id, problem_id, query, is_correct, execution_time_ms\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)\s+RETURNING submitted_at`).
		WithArgs("s1", "u1", "prob-1", "SELECT * FROM employees", true, 120).
		WillReturnRows(sqlmock.NewRows([]string{"submitted_at"}).AddRow(now))

	sub := &model.Submission{
		ID:              "s1",
		UserID:          "u1",
		ProblemID:       "prob-1",
		Query:           "SELECT * FROM employees",
		IsCorrect:       true,
		ExecutionTimeMs: 120,
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.Equal(t, now, sub.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_Create_MissingReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgSubmissionRepository(db)

	mock.ExpectQuery(`INSERT INTO submissions`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "submissions_problem_id_fkey"})

	err = repo.Create(context.Background(), &model.Submission{ID: "s1", UserID: "u1", ProblemID: "gone"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgSubmissionRepository(db)

	now := time.Now()
	cols := []string{"id", "user_id", "problem_id", "query", "is_correct", "execution_time_ms", "submitted_at"}
	mock.ExpectQuery(`(?s)SELECT .+ FROM submissions\s+WHERE user_id = \$1\s+ORDER BY submitted_at DESC, id DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("s2", "u1", "prob-1", "SELECT * FROM employees", true, 90, now).
			AddRow("s1", "u1", "prob-1", "SELECT 1", false, 310, now.Add(-time.Minute)))

	subs, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "s2", subs[0].ID)
	assert.True(t, subs[0].IsCorrect)
	assert.Equal(t, 90, subs[0].ExecutionTimeMs)
	assert.False(t, subs[1].IsCorrect)
	require.NoError(t, mock.ExpectationsWereMet())
}
