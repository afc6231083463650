package models

import "time"

type PublicLeaderboardEntry struct {
	Rank             int       `json:"rank"`
	User             Ref[User] `json:"user"`
	TotalScore       float64   `json:"total_score"`
	TotalSubmissions int       `json:"total_submissions"`
	AverageScore     float64   `json:"average_score"`
	HighestScore     float64   `json:"highest_score"`
}

type PrivateLeaderboardEntry struct {
	Rank        int        `json:"rank"`
	User        Ref[User]  `json:"user"`
	Score       float64    `json:"score"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// LeaderboardResponse carries one of the two entry shapes depending on which
// code family resolved the challenge.
type LeaderboardResponse struct {
	Mode    ChallengeMode              `json:"mode"`
	Public  []*PublicLeaderboardEntry  `json:"public,omitempty"`
	Private []*PrivateLeaderboardEntry `json:"private,omitempty"`
}
