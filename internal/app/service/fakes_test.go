package service

import (
	"context"

	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"
)

// In-memory repository fakes for service tests.

type fakeUserRepo struct {
	users      map[string]*model.User // keyed by id
	increments map[string]int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*model.User{}, increments: map[string]int{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) findWhere(match func(*model.User) bool) (*model.User, error) {
	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findWhere(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findWhere(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findWhere(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return r.findWhere(func(u *model.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r *fakeUserRepo) FindByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	return r.findWhere(func(u *model.User) bool { return u.GithubID != nil && *u.GithubID == githubID })
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = upd.LastName
	}
	if upd.ProfileImageURL != nil {
		u.ProfileImageURL = upd.ProfileImageURL
	}
	if upd.GoogleID != nil {
		u.GoogleID = upd.GoogleID
	}
	if upd.GithubID != nil {
		u.GithubID = upd.GithubID
	}
	if upd.AuthProvider != nil {
		u.AuthProvider = *upd.AuthProvider
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return []model.LeaderboardEntry{}, nil
}

func (r *fakeUserRepo) IncrementProblemsSolved(ctx context.Context, userID string) error {
	if _, ok := r.users[userID]; !ok {
		return common.ErrNotFound
	}
	r.increments[userID]++
	r.users[userID].ProblemsSolved++
	return nil
}

type fakeProblemRepo struct {
	problems map[string]*model.Problem
}

func newFakeProblemRepo(problems ...*model.Problem) *fakeProblemRepo {
	repo := &fakeProblemRepo{problems: map[string]*model.Problem{}}
	for _, p := range problems {
		repo.problems[p.ID] = p
	}
	return repo
}

func (r *fakeProblemRepo) Create(ctx context.Context, problem *model.Problem) error {
	r.problems[problem.ID] = problem
	return nil
}

func (r *fakeProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (r *fakeProblemRepo) List(ctx context.Context, difficulty model.ProblemDifficulty, userID string) ([]model.ProblemWithStats, error) {
	return nil, nil
}

func (r *fakeProblemRepo) Count(ctx context.Context) (int, error) {
	return len(r.problems), nil
}

type fakeSubmissionRepo struct {
	created []model.Submission
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	r.created = append(r.created, *sub)
	return nil
}

func (r *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	var out []model.Submission
	for i := len(r.created) - 1; i >= 0; i-- {
		if r.created[i].UserID == userID {
			out = append(out, r.created[i])
		}
	}
	return out, nil
}
