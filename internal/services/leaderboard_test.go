package services

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapclash/internal/models"
)

func TestRankPublicSortsAndTieBreaks(t *testing.T) {
	aggregates := []*models.UserScoreAggregate{
		{UserID: 1, TotalScore: 150, TotalSubmissions: 2, HighestScore: 80},
		{UserID: 2, TotalScore: 172, TotalSubmissions: 2, HighestScore: 90},
		{UserID: 3, TotalScore: 150, TotalSubmissions: 3, HighestScore: 95},
	}

	entries := RankPublic(aggregates)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(2), entries[0].User.ID())
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 86.0, entries[0].AverageScore)

	// tie on total broken by highest single score
	assert.Equal(t, int64(3), entries[1].User.ID())
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, int64(1), entries[2].User.ID())
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRankPublicEmpty(t *testing.T) {
	assert.Empty(t, RankPublic(nil))
}

func TestRankPrivateFiltersNonMembers(t *testing.T) {
	now := time.Now()
	challenge := &models.Challenge{
		ID:            5,
		Participants:  []int64{1, 2},
		DeclinedUsers: []int64{3},
	}
	participations := []*models.ChallengeParticipation{
		{ChallengeID: 5, UserID: 1, Score: 95, Status: models.ParticipationCompleted, CompletedAt: &now},
		{ChallengeID: 5, UserID: 2, Score: 80, Status: models.ParticipationCompleted, CompletedAt: &now},
		{ChallengeID: 5, UserID: 3, Score: 99, Status: models.ParticipationCompleted, CompletedAt: &now},
		{ChallengeID: 5, UserID: 4, Score: 70, Status: models.ParticipationCompleted, CompletedAt: &now},
	}

	entries := RankPrivate(challenge, participations)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].User.ID())
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 95.0, entries[0].Score)
	assert.Equal(t, int64(2), entries[1].User.ID())
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardByCodePublic(t *testing.T) {
	injector, mocks := newTestContainer()
	mocks.challenges.byCodeFunc = func(ctx context.Context, code string) (*models.Challenge, error) {
		return &models.Challenge{ID: 5, UniqueCode: "PUB12345", InviteCode: "INVITE1234"}, nil
	}
	mocks.submissions.aggregateByUserFunc = func(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error) {
		assert.Equal(t, PUBLIC_LEADERBOARD_DEFAULT_LIMIT, limit)
		return []*models.UserScoreAggregate{
			{UserID: 9, TotalScore: 172, TotalSubmissions: 2, HighestScore: 90},
		}, nil
	}
	mocks.users.byIDsFunc = func(ctx context.Context, ids []int64) ([]*models.User, error) {
		return []*models.User{{ID: 9, Username: "ava"}}, nil
	}

	service, err := do.Invoke[*ServiceLeaderboard](injector)
	require.NoError(t, err)

	leaderboard, err := service.ByCode(context.Background(), "PUB12345")
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeModePublic, leaderboard.Mode)
	require.Len(t, leaderboard.Public, 1)
	assert.Nil(t, leaderboard.Private)

	entry := leaderboard.Public[0]
	assert.Equal(t, 172.0, entry.TotalScore)
	assert.Equal(t, 86.0, entry.AverageScore)
	assert.True(t, entry.User.Resolved())
}

func TestLeaderboardByCodePrivate(t *testing.T) {
	injector, mocks := newTestContainer()
	now := time.Now()
	mocks.challenges.byCodeFunc = func(ctx context.Context, code string) (*models.Challenge, error) {
		return &models.Challenge{ID: 5, UniqueCode: "PUB12345", InviteCode: "INVITE1234", Participants: []int64{9}}, nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		return []*models.ChallengeParticipation{
			{ChallengeID: 5, UserID: 9, Score: 60, Status: models.ParticipationCompleted, CompletedAt: &now},
		}, nil
	}

	service, err := do.Invoke[*ServiceLeaderboard](injector)
	require.NoError(t, err)

	leaderboard, err := service.ByCode(context.Background(), "INVITE1234")
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeModePrivate, leaderboard.Mode)
	require.Len(t, leaderboard.Private, 1)
	assert.Equal(t, 60.0, leaderboard.Private[0].Score)
}

func TestLeaderboardEmptyIsNotAnError(t *testing.T) {
	injector, mocks := newTestContainer()
	mocks.challenges.byCodeFunc = func(ctx context.Context, code string) (*models.Challenge, error) {
		return &models.Challenge{ID: 5, UniqueCode: "PUB12345", InviteCode: "INVITE1234"}, nil
	}
	mocks.submissions.aggregateByUserFunc = func(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error) {
		return nil, nil
	}
	mocks.users.byIDsFunc = func(ctx context.Context, ids []int64) ([]*models.User, error) {
		return nil, nil
	}

	service, err := do.Invoke[*ServiceLeaderboard](injector)
	require.NoError(t, err)

	leaderboard, err := service.ByCode(context.Background(), "PUB12345")
	require.NoError(t, err)
	assert.Empty(t, leaderboard.Public)
}
