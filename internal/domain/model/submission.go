package model

import "time"

// Submission is append-only; rows are never updated or deleted.
type Submission struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ProblemID       string    `json:"problemId"`
	Query           string    `json:"query"`
	IsCorrect       bool      `json:"isCorrect"`
	ExecutionTimeMs int       `json:"executionTime"` // synthetic, not a real measurement
	SubmittedAt     time.Time `json:"submittedAt"`
}
