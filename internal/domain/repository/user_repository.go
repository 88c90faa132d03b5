package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByGithubID(ctx context.Context, githubID string) (*model.User, error)
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	IncrementProblemsSolved(ctx context.Context, userID string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, profile_image_url,
	       google_id, github_id, auth_provider, problems_solved, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.ProfileImageURL,
		&user.GoogleID, &user.GithubID, &user.AuthProvider,
		&user.ProblemsSolved, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, first_name, last_name,
	                             profile_image_url, google_id, github_id, auth_provider)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING problems_solved, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.ProfileImageURL,
		user.GoogleID, user.GithubID, user.AuthProvider,
	).Scan(&user.ProblemsSolved, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) findBy(ctx context.Context, column, value string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findBy %s: %w", column, err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *pgUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return r.findBy(ctx, "google_id", googleID)
}

func (r *pgUserRepository) FindByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	return r.findBy(ctx, "github_id", githubID)
}

// Update merges non-nil fields and refreshes updated_at.
func (r *pgUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	var sets []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, *value)
		argID++
	}
	addSet("first_name", upd.FirstName)
	addSet("last_name", upd.LastName)
	addSet("profile_image_url", upd.ProfileImageURL)
	addSet("google_id", upd.GoogleID)
	addSet("github_id", upd.GithubID)
	addSet("auth_provider", upd.AuthProvider)

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), argID)
	args = append(args, id)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return user, nil
}

// Leaderboard orders by problems_solved descending with created_at then id as
// deterministic tiebreakers.
func (r *pgUserRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT id, username, first_name, last_name, profile_image_url, problems_solved
	          FROM users
	          ORDER BY problems_solved DESC, created_at ASC, id ASC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.Leaderboard query: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.ProfileImageURL, &e.ProblemsSolved); err != nil {
			return nil, fmt.Errorf("pgUserRepository.Leaderboard scan: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.Leaderboard rows.Err: %w", err)
	}
	return entries, nil
}

// IncrementProblemsSolved is a single atomic update; read-modify-write here
// would lose counts under concurrent submissions.
func (r *pgUserRepository) IncrementProblemsSolved(ctx context.Context, userID string) error {
	query := `UPDATE users SET problems_solved = problems_solved + 1, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.IncrementProblemsSolved: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.IncrementProblemsSolved: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
