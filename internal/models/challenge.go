package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CodeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	PublicCodeLength = 8
	InviteCodeLength = 10
)

type ChallengeMode string

const (
	ChallengeModePublic  ChallengeMode = "public"
	ChallengeModePrivate ChallengeMode = "private"
)

// challenge durations are fixed product options, in days
var ChallengeDurations = map[int]bool{1: true, 3: true, 7: true}

type Challenge struct {
	bun.BaseModel     `bun:"table:challenge"`
	ID                int64      `bun:"id,pk,autoincrement" json:"id"`
	UniqueCode        string     `bun:"unique_code" json:"unique_code"`
	InviteCode        string     `bun:"invite_code" json:"invite_code,omitempty"`
	Title             string     `bun:"title" json:"title"`
	Description       string     `bun:"description" json:"description"`
	Theme             string     `bun:"theme" json:"theme"`
	Banner            string     `bun:"banner" json:"banner"`
	Hashtags          []string   `bun:"hashtags,array" json:"hashtags"`
	StartDate         time.Time  `bun:"start_date" json:"start_date"`
	EndDate           time.Time  `bun:"end_date" json:"end_date"`
	CreatorID         int64      `bun:"creator_id" json:"creator_id"`
	Creator           *User      `bun:"rel:belongs-to,join:creator_id=id" json:"creator,omitempty"`
	ParticipantsCount int        `bun:"participants_count" json:"participants_count"`
	WinningReward     string     `bun:"winning_reward" json:"winning_reward"`
	WinnerID          *int64     `bun:"winner_id" json:"winner_id,omitempty"`
	Winner            *User      `bun:"rel:belongs-to,join:winner_id=id" json:"winner,omitempty"`
	Participants      []int64    `bun:"participants,array" json:"participants"`
	DeclinedUsers     []int64    `bun:"declined_users,array" json:"declined_users"`
	CreatedAt         time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time  `bun:"updated_at" json:"updated_at"`
}

func (c *Challenge) Ended(now time.Time) bool {
	return !now.Before(c.EndDate)
}

func (c *Challenge) HasParticipant(userID int64) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Challenge) HasDeclined(userID int64) bool {
	for _, id := range c.DeclinedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Challenge) CreatorRef() Ref[User] {
	if c.Creator != nil {
		return ResolvedRef(c.CreatorID, c.Creator)
	}
	return UnresolvedRef[User](c.CreatorID)
}

// WinnerRef returns false while the challenge is unresolved.
func (c *Challenge) WinnerRef() (Ref[User], bool) {
	if c.WinnerID == nil {
		return Ref[User]{}, false
	}
	if c.Winner != nil {
		return ResolvedRef(*c.WinnerID, c.Winner), true
	}
	return UnresolvedRef[User](*c.WinnerID), true
}

// ChallengeUpdate carries a partial update; nil fields are left untouched.
type ChallengeUpdate struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Theme         *string    `json:"theme"`
	Banner        *string    `json:"banner"`
	Hashtags      *[]string  `json:"hashtags"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	WinningReward *string    `json:"winning_reward"`
}
