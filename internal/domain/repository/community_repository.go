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

type CommunityRepository interface {
	ListPosts(ctx context.Context) ([]model.CommunityPost, error)
	CreatePost(ctx context.Context, post *model.CommunityPost) error
	// LikePost and UnlikePost keep the junction row and the denormalized
	// counter consistent inside one transaction.
	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error
	ListComments(ctx context.Context, postID string) ([]model.PostComment, error)
	CreateComment(ctx context.Context, comment *model.PostComment) error
}

type pgCommunityRepository struct {
	db *sql.DB
}

func NewPgCommunityRepository(db *sql.DB) CommunityRepository {
	return &pgCommunityRepository{db: db}
}

func (r *pgCommunityRepository) ListPosts(ctx context.Context) ([]model.CommunityPost, error) {
	query := `SELECT p.id, p.user_id, p.content, p.code_snippet, p.likes, p.comments, p.created_at, p.updated_at,
	                 u.id, u.username, u.first_name, u.last_name, u.profile_image_url
	          FROM community_posts p
	          INNER JOIN users u ON p.user_id = u.id
	          ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCommunityRepository.ListPosts query: %w", err)
	}
	defer rows.Close()

	posts := []model.CommunityPost{}
	for rows.Next() {
		var p model.CommunityPost
		var author model.Summary
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Content, &p.CodeSnippet, &p.Likes, &p.Comments, &p.CreatedAt, &p.UpdatedAt,
			&author.ID, &author.Username, &author.FirstName, &author.LastName, &author.ProfileImageURL,
		); err != nil {
			return nil, fmt.Errorf("pgCommunityRepository.ListPosts scan: %w", err)
		}
		p.User = &author
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCommunityRepository.ListPosts rows.Err: %w", err)
	}
	return posts, nil
}

func (r *pgCommunityRepository) CreatePost(ctx context.Context, post *model.CommunityPost) error {
	query := `INSERT INTO community_posts (id, user_id, content, code_snippet)
	          VALUES ($1, $2, $3, $4)
	          RETURNING likes, comments, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, post.ID, post.UserID, post.Content, post.CodeSnippet).
		Scan(&post.Likes, &post.Comments, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.CreatePost: %w", err)
	}
	return nil
}

func (r *pgCommunityRepository) LikePost(ctx context.Context, userID, postID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.LikePost begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO post_likes (id, user_id, post_id) VALUES (gen_random_uuid(), $1, $2)`,
		userID, postID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // (user_id, post_id) unique: double-like
				return fmt.Errorf("post already liked: %w", common.ErrConflict)
			case "23503": // FK violation: post or user missing
				return fmt.Errorf("post not found: %w", common.ErrNotFound)
			}
		}
		return fmt.Errorf("pgCommunityRepository.LikePost insert: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE community_posts SET likes = likes + 1 WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.LikePost counter: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("pgCommunityRepository.LikePost counter: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("post not found: %w", common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgCommunityRepository.LikePost commit: %w", err)
	}
	return nil
}

func (r *pgCommunityRepository) UnlikePost(ctx context.Context, userID, postID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.UnlikePost begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.UnlikePost delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.UnlikePost delete: %w", err)
	}
	if affected == 0 {
		// Nothing to remove; leaving the counter untouched keeps it honest.
		return fmt.Errorf("like not found: %w", common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE community_posts SET likes = likes - 1 WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("pgCommunityRepository.UnlikePost counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgCommunityRepository.UnlikePost commit: %w", err)
	}
	return nil
}

func (r *pgCommunityRepository) ListComments(ctx context.Context, postID string) ([]model.PostComment, error) {
	query := `SELECT c.id, c.user_id, c.post_id, c.content, c.created_at,
	                 u.id, u.username, u.first_name, u.last_name, u.profile_image_url
	          FROM post_comments c
	          INNER JOIN users u ON c.user_id = u.id
	          WHERE c.post_id = $1
	          ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("pgCommunityRepository.ListComments query: %w", err)
	}
	defer rows.Close()

	comments := []model.PostComment{}
	for rows.Next() {
		var c model.PostComment
		var author model.Summary
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt,
			&author.ID, &author.Username, &author.FirstName, &author.LastName, &author.ProfileImageURL,
		); err != nil {
			return nil, fmt.Errorf("pgCommunityRepository.ListComments scan: %w", err)
		}
		c.User = &author
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCommunityRepository.ListComments rows.Err: %w", err)
	}
	return comments, nil
}

func (r *pgCommunityRepository) CreateComment(ctx context.Context, comment *model.PostComment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.CreateComment begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO post_comments (id, user_id, post_id, content) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		comment.ID, comment.UserID, comment.PostID, comment.Content,
	).Scan(&comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("post not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgCommunityRepository.CreateComment insert: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE community_posts SET comments = comments + 1 WHERE id = $1`, comment.PostID)
	if err != nil {
		return fmt.Errorf("pgCommunityRepository.CreateComment counter: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("pgCommunityRepository.CreateComment counter: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("post not found: %w", common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgCommunityRepository.CreateComment commit: %w", err)
	}
	return nil
}
