package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ParticipationStatus string

const (
	ParticipationAccepted  ParticipationStatus = "accepted"
	ParticipationCompleted ParticipationStatus = "completed"
)

// ChallengeParticipation tracks one user's run in a private challenge.
// At most one record exists per (challenge_id, user_id).
type ChallengeParticipation struct {
	bun.BaseModel `bun:"table:challenge_participation"`
	ID            int64               `bun:"id,pk,autoincrement" json:"id"`
	ChallengeID   int64               `bun:"challenge_id" json:"challenge_id"`
	UserID        int64               `bun:"user_id" json:"user_id"`
	User          *User               `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Score         float64             `bun:"score,default:0" json:"score"`
	Status        ParticipationStatus `bun:"status" json:"status"`
	CompletedAt   *time.Time          `bun:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time           `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time           `bun:"updated_at" json:"updated_at"`
}
