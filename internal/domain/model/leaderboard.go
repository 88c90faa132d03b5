package model

type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	ProblemsSolved  int     `json:"problemsSolved"`
}
