package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	// List returns problems annotated with solvedCount; when userID is
	// non-empty each problem also carries isUserSolved. An empty difficulty
	// matches everything.
	List(ctx context.Context, difficulty model.ProblemDifficulty, userID string) ([]model.ProblemWithStats, error)
	Count(ctx context.Context) (int, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

// jsonStringList marshals to/from the jsonb list columns (tags, companies, hints).
func marshalStringList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func unmarshalStringList(raw []byte, dest *[]string) error {
	if len(raw) == 0 {
		*dest = []string{}
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	tags, err := marshalStringList(p.Tags)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create tags: %w", err)
	}
	companies, err := marshalStringList(p.Companies)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create companies: %w", err)
	}
	hints, err := marshalStringList(p.Hints)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create hints: %w", err)
	}

	query := `INSERT INTO problems (id, title, description, difficulty, tags, companies, schema_def, expected_output, hints)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Description, p.Difficulty, tags, companies, p.Schema, p.ExpectedOutput, hints,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, title, description, difficulty, tags, companies, schema_def, expected_output, hints, created_at, updated_at
	          FROM problems WHERE id = $1`

	p := &model.Problem{}
	var tags, companies, hints []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Difficulty,
		&tags, &companies, &p.Schema, &p.ExpectedOutput, &hints,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	if err := unmarshalStringList(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByID tags: %w", err)
	}
	if err := unmarshalStringList(companies, &p.Companies); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByID companies: %w", err)
	}
	if err := unmarshalStringList(hints, &p.Hints); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByID hints: %w", err)
	}
	return p, nil
}

// List computes solvedCount as the number of distinct users with at least one
// correct submission per problem, in a single grouped LEFT JOIN. isUserSolved
// piggybacks on the same join when a user context is given.
func (r *pgProblemRepository) List(ctx context.Context, difficulty model.ProblemDifficulty, userID string) ([]model.ProblemWithStats, error) {
	var query strings.Builder
	var args []interface{}
	argID := 1

	query.WriteString(`SELECT p.id, p.title, p.description, p.difficulty, p.tags, p.companies,
	       p.schema_def, p.expected_output, p.hints, p.created_at, p.updated_at,
	       COALESCE(COUNT(DISTINCT s.user_id) FILTER (WHERE s.is_correct), 0) AS solved_count`)

	withUser := userID != ""
	if withUser {
		query.WriteString(fmt.Sprintf(`,
	       COALESCE(BOOL_OR(s.is_correct AND s.user_id = $%d), FALSE) AS is_user_solved`, argID))
		args = append(args, userID)
		argID++
	}

	query.WriteString(`
	FROM problems p
	LEFT JOIN submissions s ON s.problem_id = p.id`)

	if difficulty != "" {
		query.WriteString(fmt.Sprintf(`
	WHERE p.difficulty = $%d`, argID))
		args = append(args, difficulty)
		argID++
	}

	query.WriteString(`
	GROUP BY p.id
	ORDER BY p.title ASC, p.id ASC`)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List query: %w", err)
	}
	defer rows.Close()

	problems := []model.ProblemWithStats{}
	for rows.Next() {
		var p model.ProblemWithStats
		var tags, companies, hints []byte
		dest := []interface{}{
			&p.ID, &p.Title, &p.Description, &p.Difficulty,
			&tags, &companies, &p.Schema, &p.ExpectedOutput, &hints,
			&p.CreatedAt, &p.UpdatedAt, &p.SolvedCount,
		}
		var isUserSolved bool
		if withUser {
			dest = append(dest, &isUserSolved)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		if err := unmarshalStringList(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List tags: %w", err)
		}
		if err := unmarshalStringList(companies, &p.Companies); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List companies: %w", err)
		}
		if err := unmarshalStringList(hints, &p.Hints); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List hints: %w", err)
		}
		if withUser {
			solved := isUserSolved
			p.IsUserSolved = &solved
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgProblemRepository.Count: %w", err)
	}
	return count, nil
}
