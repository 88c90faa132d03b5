package model

import (
	"time"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    *string   `json:"-"` // Not exposed; nil for federated-only accounts
	FirstName       *string   `json:"firstName,omitempty"`
	LastName        *string   `json:"lastName,omitempty"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	GoogleID        *string   `json:"-"`
	GithubID        *string   `json:"-"`
	AuthProvider    string    `json:"authProvider"`
	ProblemsSolved  int       `json:"problemsSolved"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Profile is the user shape returned by auth endpoints.
type Profile struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	ProblemsSolved  int     `json:"problemsSolved"`
}

// Summary is the author shape embedded in community posts and comments.
type Summary struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		ProblemsSolved:  u.ProblemsSolved,
	}
}

func (u *User) Summary() Summary {
	return Summary{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// UserUpdate carries partial fields for an update; nil fields are left as-is.
type UserUpdate struct {
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	GoogleID        *string
	GithubID        *string
	AuthProvider    *string
}
