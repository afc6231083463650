package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel     `bun:"table:user"`
	ID                int64     `bun:"id,pk" json:"id"`
	Username          string    `bun:"username" json:"username"`
	Avatar            *string   `bun:"avatar" json:"avatar"`
	ChallengesCreated int       `bun:"challenges_created" json:"challenges_created"`
	ChallengeWins     int       `bun:"challenge_wins" json:"challenge_wins"`
	CreatedAt         time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at" json:"updated_at"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
