package service

import (
	"context"

	"sql_arena/internal/domain/model"
	"sql_arena/internal/domain/repository"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

// List passes the difficulty filter through untouched; an unknown value just
// matches nothing. userID may be empty for anonymous listings.
func (s *ProblemService) List(ctx context.Context, difficulty string, userID string) ([]model.ProblemWithStats, error) {
	return s.problemRepo.List(ctx, model.ProblemDifficulty(difficulty), userID)
}

func (s *ProblemService) Get(ctx context.Context, id string) (*model.Problem, error) {
	return s.problemRepo.FindByID(ctx, id)
}
