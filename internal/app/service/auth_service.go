package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sql_arena/internal/common"
	"sql_arena/internal/common/security"
	"sql_arena/internal/domain/model"
	"sql_arena/internal/domain/repository"
	"sql_arena/internal/platform/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"passwordHash" validate:"required,min=6"` // clients send the plain password under this key
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Message string        `json:"message,omitempty"`
	Token   string        `json:"token"`
	User    model.Profile `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	// Pre-checks give distinct duplicate messages; the unique constraints in
	// the schema are the backstop against the check-then-insert race.
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: model.ProviderEmail,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Username, config.AppConfig.JWTExp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Message: "User created successfully", Token: token, User: user.Profile()}, nil
}

// Login deliberately collapses "no such email", "federated-only account" and
// "wrong password" into one unauthorized error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.PasswordHash == nil || !security.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(user.ID, user.Username, config.AppConfig.JWTExp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Profile()}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// FederatedProfile is the provider-agnostic identity shape handed back by the
// OAuth callbacks.
type FederatedProfile struct {
	Provider    string // model.ProviderGoogle or model.ProviderGithub
	ExternalID  string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
	AvatarURL   string
}

// FederatedOutcome tags the three resolution branches so their side effects
// stay auditable.
type FederatedOutcome int

const (
	FederatedMatched FederatedOutcome = iota // existing user found by provider id
	FederatedLinked                          // provider id attached to an existing user found by email
	FederatedCreated                         // brand-new user
)

type FederatedLoginResult struct {
	User    *model.User
	Outcome FederatedOutcome
	Token   string
}

func (s *AuthService) FederatedLogin(ctx context.Context, profile FederatedProfile) (*FederatedLoginResult, error) {
	if profile.ExternalID == "" {
		return nil, fmt.Errorf("federated profile has no external id: %w", common.ErrBadRequest)
	}

	user, outcome, err := s.resolveFederated(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, "", config.AppConfig.FederatedJWTExp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &FederatedLoginResult{User: user, Outcome: outcome, Token: token}, nil
}

func (s *AuthService) resolveFederated(ctx context.Context, profile FederatedProfile) (*model.User, FederatedOutcome, error) {
	findByProvider := s.userRepo.FindByGoogleID
	if profile.Provider == model.ProviderGithub {
		findByProvider = s.userRepo.FindByGithubID
	}

	user, err := findByProvider(ctx, profile.ExternalID)
	if err == nil {
		return user, FederatedMatched, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, 0, fmt.Errorf("failed to look up provider id: %w", err)
	}

	if profile.Email != "" {
		user, err = s.userRepo.FindByEmail(ctx, profile.Email)
		if err == nil {
			linked, err := s.linkProvider(ctx, user, profile)
			if err != nil {
				return nil, 0, err
			}
			return linked, FederatedLinked, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, 0, fmt.Errorf("failed to look up email: %w", err)
		}
	}

	created, err := s.createFederatedUser(ctx, profile)
	if err != nil {
		return nil, 0, err
	}
	return created, FederatedCreated, nil
}

func (s *AuthService) linkProvider(ctx context.Context, user *model.User, profile FederatedProfile) (*model.User, error) {
	upd := model.UserUpdate{AuthProvider: &profile.Provider}
	if profile.Provider == model.ProviderGithub {
		upd.GithubID = &profile.ExternalID
	} else {
		upd.GoogleID = &profile.ExternalID
	}
	// An existing profile image wins over the provider avatar.
	if user.ProfileImageURL == nil && profile.AvatarURL != "" {
		upd.ProfileImageURL = &profile.AvatarURL
	}
	linked, err := s.userRepo.Update(ctx, user.ID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to link provider: %w", err)
	}
	return linked, nil
}

func (s *AuthService) createFederatedUser(ctx context.Context, profile FederatedProfile) (*model.User, error) {
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     generatedUsername(profile),
		Email:        profile.Email, // may be empty when the provider hides it
		AuthProvider: profile.Provider,
	}
	if profile.FirstName != "" {
		user.FirstName = &profile.FirstName
	}
	if profile.LastName != "" {
		user.LastName = &profile.LastName
	}
	if profile.AvatarURL != "" {
		user.ProfileImageURL = &profile.AvatarURL
	}
	if profile.Provider == model.ProviderGithub {
		user.GithubID = &profile.ExternalID
	} else {
		user.GoogleID = &profile.ExternalID
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}
	return user, nil
}

// generatedUsername slugifies the display name and appends a random suffix so
// collisions with existing usernames stay improbable.
func generatedUsername(profile FederatedProfile) string {
	base := slug.Make(profile.DisplayName)
	if base == "" {
		base = "user"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return base + "-" + suffix
}
