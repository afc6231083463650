package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapclash/internal/models"
)

func endedChallenge() *models.Challenge {
	return &models.Challenge{
		ID:        5,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
	}
}

func TestResolveBeforeEndIsNoop(t *testing.T) {
	injector, mocks := newTestContainer()
	challenge := endedChallenge()
	challenge.EndDate = time.Now().Add(time.Hour)
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		return challenge, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, resolved.WinnerID)
}

func TestResolveAlreadyDeclaredIsNoop(t *testing.T) {
	injector, mocks := newTestContainer()
	winnerID := int64(9)
	challenge := endedChallenge()
	challenge.WinnerID = &winnerID
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		return challenge, nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		t.Fatal("should not query participations once a winner is set")
		return nil, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, winnerID, *resolved.WinnerID)
}

func TestResolveNoCompletedIsNoop(t *testing.T) {
	injector, mocks := newTestContainer()
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		return endedChallenge(), nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		return nil, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, resolved.WinnerID)
}

func TestResolveDeclaresHighestScorer(t *testing.T) {
	injector, mocks := newTestContainer()
	now := time.Now()
	claims := 0
	declared := false
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		challenge := endedChallenge()
		if declared {
			winnerID := int64(9)
			challenge.WinnerID = &winnerID
		}
		return challenge, nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		return []*models.ChallengeParticipation{
			{ChallengeID: 5, UserID: 9, Score: 95, Status: models.ParticipationCompleted, CompletedAt: &now},
			{ChallengeID: 5, UserID: 4, Score: 80, Status: models.ParticipationCompleted, CompletedAt: &now},
		}, nil
	}
	mocks.challenges.setWinnerFunc = func(ctx context.Context, challengeID, winnerID int64) (bool, error) {
		claims++
		declared = true
		assert.Equal(t, int64(9), winnerID)
		return true, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, resolved.WinnerID)
	assert.Equal(t, int64(9), *resolved.WinnerID)
	assert.Equal(t, 1, claims)

	// a second call settles on the same outcome without another claim
	resolved, err = service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9), *resolved.WinnerID)
	assert.Equal(t, 1, claims)
}

func TestResolveRetriesAfterFailedClaim(t *testing.T) {
	injector, mocks := newTestContainer()
	now := time.Now()
	claims := 0
	declared := false
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		challenge := endedChallenge()
		if declared {
			winnerID := int64(9)
			challenge.WinnerID = &winnerID
		}
		return challenge, nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		return []*models.ChallengeParticipation{
			{ChallengeID: 5, UserID: 9, Score: 95, Status: models.ParticipationCompleted, CompletedAt: &now},
		}, nil
	}
	mocks.challenges.setWinnerFunc = func(ctx context.Context, challengeID, winnerID int64) (bool, error) {
		claims++
		if claims == 1 {
			// transaction rolled back: neither winner_id nor the win counter moved
			return false, errors.New("connection reset")
		}
		declared = true
		return true, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	_, err = service.Resolve(context.Background(), 5)
	require.Error(t, err)

	resolved, err := service.Resolve(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, resolved.WinnerID)
	assert.Equal(t, int64(9), *resolved.WinnerID)
	assert.Equal(t, 2, claims)
}

func TestResolveExpiredSweep(t *testing.T) {
	injector, mocks := newTestContainer()
	now := time.Now()
	mocks.challenges.endedUnresolvedFunc = func(ctx context.Context, at time.Time, limit int) ([]*models.Challenge, error) {
		return []*models.Challenge{{ID: 5}, {ID: 6}}, nil
	}
	mocks.challenges.byIDFunc = func(ctx context.Context, id int64) (*models.Challenge, error) {
		challenge := endedChallenge()
		challenge.ID = id
		return challenge, nil
	}
	mocks.participations.completedByChallengeFunc = func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
		return []*models.ChallengeParticipation{
			{ChallengeID: challengeID, UserID: 9, Score: 95, Status: models.ParticipationCompleted, CompletedAt: &now},
		}, nil
	}
	mocks.challenges.setWinnerFunc = func(ctx context.Context, challengeID, winnerID int64) (bool, error) {
		return true, nil
	}

	service, err := do.Invoke[*ServiceWinner](injector)
	require.NoError(t, err)

	resolved, err := service.ResolveExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resolved)
}
