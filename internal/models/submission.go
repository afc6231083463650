package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SelfieSubmission is one scored upload deposited by the scoring pipeline for
// a public challenge. Rows are append-only; a user's public standing is the
// sum over their rows.
type SelfieSubmission struct {
	bun.BaseModel `bun:"table:selfie_submission"`
	ID            string    `bun:"id,pk" json:"id"`
	ChallengeID   int64     `bun:"challenge_id" json:"challenge_id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	Score         float64   `bun:"score" json:"score"`
	MediaURL      string    `bun:"media_url" json:"media_url"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// UserScoreAggregate is the scan target for the per-user submission rollup.
type UserScoreAggregate struct {
	UserID           int64   `bun:"user_id" json:"user_id"`
	TotalScore       float64 `bun:"total_score" json:"total_score"`
	TotalSubmissions int     `bun:"total_submissions" json:"total_submissions"`
	HighestScore     float64 `bun:"highest_score" json:"highest_score"`
}
