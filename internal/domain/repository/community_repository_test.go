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

func TestCommunityRepository_LikePost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO post_likes \(id, user_id, post_id\) VALUES \(gen_random_uuid\(\), \$1, \$2\)`).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE community_posts SET likes = likes \+ 1 WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.LikePost(context.Background(), "u1", "p1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_LikePost_DoubleLikeConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO post_likes`).
		WithArgs("u1", "p1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "post_likes_user_id_post_id_key"})
	mock.ExpectRollback()

	err = repo.LikePost(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_LikePost_MissingPost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO post_likes`).
		WithArgs("u1", "gone").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "post_likes_post_id_fkey"})
	mock.ExpectRollback()

	err = repo.LikePost(context.Background(), "u1", "gone")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_UnlikePost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM post_likes WHERE user_id = \$1 AND post_id = \$2`).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE community_posts SET likes = likes - 1 WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UnlikePost(context.Background(), "u1", "p1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_UnlikePost_NoLikeLeavesCounterAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.UnlikePost(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_CreatePost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	now := time.Now()
	snippet := "SELECT 1"
	mock.ExpectQuery(`(?s)INSERT INTO community_posts \(id, user_id, content, code_snippet\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+RETURNING likes, comments, created_at, updated_at`).
		WithArgs("p1", "u1", "check this out", snippet).
		WillReturnRows(sqlmock.NewRows([]string{"likes", "comments", "created_at", "updated_at"}).
			AddRow(0, 0, now, now))

	post := &model.CommunityPost{ID: "p1", UserID: "u1", Content: "check this out", CodeSnippet: &snippet}
	require.NoError(t, repo.CreatePost(context.Background(), post))
	assert.Equal(t, 0, post.Likes)
	assert.Equal(t, 0, post.Comments)
	assert.Equal(t, now, post.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_CreateComment_BumpsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO post_comments \(id, user_id, post_id, content\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING created_at`).
		WithArgs("c1", "u1", "p1", "nice query").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec(`UPDATE community_posts SET comments = comments \+ 1 WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment := &model.PostComment{ID: "c1", UserID: "u1", PostID: "p1", Content: "nice query"}
	require.NoError(t, repo.CreateComment(context.Background(), comment))
	assert.Equal(t, now, comment.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_CreateComment_MissingPost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO post_comments`).
		WithArgs("c1", "u1", "gone", "nice query").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "post_comments_post_id_fkey"})
	mock.ExpectRollback()

	err = repo.CreateComment(context.Background(), &model.PostComment{ID: "c1", UserID: "u1", PostID: "gone", Content: "nice query"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityRepository_ListPosts_EmbedsAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgCommunityRepository(db)

	now := time.Now()
	cols := []string{
		"id", "user_id", "content", "code_snippet", "likes", "comments", "created_at", "updated_at",
		"author_id", "username", "first_name", "last_name", "profile_image_url",
	}
	mock.ExpectQuery(`(?s)SELECT .+ FROM community_posts p\s+INNER JOIN users u ON p.user_id = u.id\s+ORDER BY p.created_at DESC, p.id DESC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p2", "u1", "newer", nil, 2, 1, now, now, "u1", "alice", nil, nil, nil).
			AddRow("p1", "u2", "older", nil, 0, 0, now.Add(-time.Hour), now.Add(-time.Hour), "u2", "bob", nil, nil, nil))

	posts, err := repo.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "alice", posts[0].User.Username)
	assert.Equal(t, 2, posts[0].Likes)
	assert.Equal(t, "bob", posts[1].User.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}
