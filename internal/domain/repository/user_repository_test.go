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

var userRows = []string{
	"id", "username", "email", "password_hash", "first_name", "last_name", "profile_image_url",
	"google_id", "github_id", "auth_provider", "problems_solved", "created_at", "updated_at",
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	now := time.Now()
	hash := "$2a$10$hash"
	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow("u1", "alice", "alice@example.com", hash, nil, nil, nil, nil, nil, "email", 3, now, now))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, hash, *user.PasswordHash)
	assert.Equal(t, 3, user.ProblemsSolved)
	assert.Nil(t, user.GoogleID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userRows))

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO users .+ RETURNING problems_solved, created_at, updated_at`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	hash := "$2a$10$hash"
	err = repo.Create(context.Background(), &model.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: &hash,
		AuthProvider: model.ProviderEmail,
	})
	assert.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_BuildsPartialSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	now := time.Now()
	googleID := "google-123"
	provider := model.ProviderGoogle
	mock.ExpectQuery(`(?s)UPDATE users SET google_id = \$1, auth_provider = \$2, updated_at = now\(\) WHERE id = \$3 RETURNING .+`).
		WithArgs(googleID, provider, "u1").
		WillReturnRows(sqlmock.NewRows(userRows).
			AddRow("u1", "alice", "alice@example.com", nil, nil, nil, nil, googleID, nil, provider, 0, now, now))

	user, err := repo.Update(context.Background(), "u1", model.UserUpdate{
		GoogleID:     &googleID,
		AuthProvider: &provider,
	})
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, googleID, *user.GoogleID)
	assert.Equal(t, provider, user.AuthProvider)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Leaderboard_RanksInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	cols := []string{"id", "username", "first_name", "last_name", "profile_image_url", "problems_solved"}
	mock.ExpectQuery(`(?s)SELECT id, username, first_name, last_name, profile_image_url, problems_solved\s+FROM users\s+ORDER BY problems_solved DESC, created_at ASC, id ASC\s+LIMIT \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", "alice", nil, nil, nil, 10).
			AddRow("u2", "bob", nil, nil, nil, 5).
			AddRow("u3", "carol", nil, nil, nil, 5))

	entries, err := repo.Leaderboard(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	// Ties still get distinct consecutive ranks in row order.
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IncrementProblemsSolved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectExec(`UPDATE users SET problems_solved = problems_solved \+ 1, updated_at = now\(\) WHERE id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementProblemsSolved(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IncrementProblemsSolved_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectExec(`UPDATE users SET problems_solved = problems_solved \+ 1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.IncrementProblemsSolved(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
