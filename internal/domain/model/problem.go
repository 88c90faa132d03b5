package model

import (
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is immutable after creation; problems enter the system via the
// startup seed, not the API.
type Problem struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     ProblemDifficulty `json:"difficulty"`
	Tags           []string          `json:"tags"`
	Companies      []string          `json:"companies"`
	Schema         string            `json:"schema"` // SQL schema definition shown to the user
	ExpectedOutput string            `json:"expectedOutput"`
	Hints          []string          `json:"hints"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ProblemWithStats annotates a problem with submission aggregates.
// SolvedCount counts distinct users with at least one correct submission.
// IsUserSolved is only present when the listing was requested with a user
// context.
type ProblemWithStats struct {
	Problem
	SolvedCount  int   `json:"solvedCount"`
	IsUserSolved *bool `json:"isUserSolved,omitempty"`
}
