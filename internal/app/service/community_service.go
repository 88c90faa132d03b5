package service

import (
	"context"

	"sql_arena/internal/domain/model"
	"sql_arena/internal/domain/repository"

	"github.com/google/uuid"
)

type CommunityService struct {
	communityRepo repository.CommunityRepository
}

func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo}
}

type CreatePostRequest struct {
	Content     string  `json:"content" validate:"required,min=1"`
	CodeSnippet *string `json:"codeSnippet"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

func (s *CommunityService) ListPosts(ctx context.Context) ([]model.CommunityPost, error) {
	return s.communityRepo.ListPosts(ctx)
}

func (s *CommunityService) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*model.CommunityPost, error) {
	post := &model.CommunityPost{
		ID:          uuid.NewString(),
		UserID:      userID,
		Content:     req.Content,
		CodeSnippet: req.CodeSnippet,
	}
	if err := s.communityRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *CommunityService) LikePost(ctx context.Context, userID, postID string) error {
	return s.communityRepo.LikePost(ctx, userID, postID)
}

func (s *CommunityService) UnlikePost(ctx context.Context, userID, postID string) error {
	return s.communityRepo.UnlikePost(ctx, userID, postID)
}

func (s *CommunityService) ListComments(ctx context.Context, postID string) ([]model.PostComment, error) {
	return s.communityRepo.ListComments(ctx, postID)
}

func (s *CommunityService) CreateComment(ctx context.Context, userID, postID string, req CreateCommentRequest) (*model.PostComment, error) {
	comment := &model.PostComment{
		ID:      uuid.NewString(),
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	}
	if err := s.communityRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
