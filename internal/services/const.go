package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrChallengeNotFound = errors.New("challenge not found")
var ErrUserNotFound = errors.New("user not found")
var ErrNotCreator = errors.New("only the creator can do this")
var ErrNotParticipant = errors.New("user is not a participant")
var ErrInvalidTitle = errors.New("title must not be empty")
var ErrInvalidStartDate = errors.New("start date must be in the future")
var ErrInvalidDuration = errors.New("duration must be 1, 3 or 7 days")
var ErrInvalidDateRange = errors.New("end date must be after start date")
var ErrEmptyReward = errors.New("winning reward must not be empty")
var ErrInvalidScore = errors.New("score must be between 0 and 100")
var ErrChallengeEnded = errors.New("challenge already ended")
var ErrChallengeFull = errors.New("challenge is full")
var ErrDailyChallengeLimit = errors.New("daily challenge creation limit reached")
var ErrCodeSpaceExhausted = errors.New("could not generate an unused code")
var ErrInviteRequired = errors.New("private challenges require the invite code")
var ErrChallengeAcceptLock = errors.New("challenge accept locked")
var ErrChallengeWinnerLock = errors.New("challenge winner locked")

const (
	CONFIG_PUBLIC_LEADERBOARD_LIMIT  = "PUBLIC_LEADERBOARD_LIMIT"
	CONFIG_PRIVATE_PARTICIPANT_CAP   = "PRIVATE_PARTICIPANT_CAP"
	CONFIG_TRENDING_CHALLENGES_LIMIT = "TRENDING_CHALLENGES_LIMIT"
	CONFIG_CRONJOB_TIME_WINNER       = "CRONJOB_TIME_WINNER"

	CODE_MAX_ATTEMPTS = 10

	DAILY_CHALLENGE_LIMIT = 3

	PUBLIC_LEADERBOARD_DEFAULT_LIMIT  = 100
	PRIVATE_PARTICIPANT_DEFAULT_CAP   = 10
	TRENDING_CHALLENGES_DEFAULT_LIMIT = 20
	WINNER_RESOLVE_BATCH_LIMIT        = 100

	SUBMISSION_RATE_LIMIT_PER_MINUTE = 30

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
)

func LockKeyChallengeAccept(challengeID int64) string {
	return fmt.Sprintf("lock:challenge-accept:%d", challengeID)
}

func LockKeyChallengeWinner(challengeID int64) string {
	return fmt.Sprintf("lock:challenge-winner:%d", challengeID)
}

// db
func DBKeyPublicLeaderboard(challengeID int64) string {
	return fmt.Sprintf("leaderboard:public:%d", challengeID)
}

func DBKeyTrendingChallenges() string {
	return "challenges:trending"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func LimitKeySubmission(userID int64) string {
	return fmt.Sprintf("limit:submission:%d", userID)
}
