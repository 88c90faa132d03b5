package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migrate creates the schema if it does not exist. Statements are idempotent
// so startup can run them unconditionally.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT,
			first_name VARCHAR(50),
			last_name VARCHAR(50),
			profile_image_url TEXT,
			google_id VARCHAR(255),
			github_id VARCHAR(255),
			auth_provider VARCHAR(20) NOT NULL DEFAULT 'email',
			problems_solved INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_google_id_idx ON users (google_id) WHERE google_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_github_id_idx ON users (github_id) WHERE github_id IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS problems (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL,
			difficulty VARCHAR(20) NOT NULL,
			tags JSONB NOT NULL DEFAULT '[]',
			companies JSONB NOT NULL DEFAULT '[]',
			schema_def TEXT NOT NULL,
			expected_output TEXT NOT NULL,
			hints JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			problem_id VARCHAR(36) NOT NULL REFERENCES problems(id),
			query TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			execution_time_ms INTEGER NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS submissions_user_idx ON submissions (user_id, submitted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS submissions_problem_idx ON submissions (problem_id)`,
		`CREATE TABLE IF NOT EXISTS community_posts (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			code_snippet TEXT,
			likes INTEGER NOT NULL DEFAULT 0,
			comments INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			post_id VARCHAR(36) NOT NULL REFERENCES community_posts(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, post_id)
		)`,
		`CREATE TABLE IF NOT EXISTS post_comments (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			post_id VARCHAR(36) NOT NULL REFERENCES community_posts(id),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS post_comments_post_idx ON post_comments (post_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("database.Migrate: %w", err)
		}
	}
	log.Println("Database schema is up to date.")
	return nil
}
