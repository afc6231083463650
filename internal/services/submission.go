package services

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/interfaces"
	"snapclash/internal/models"
	"snapclash/internal/pkg/caching"
)

type ServiceSubmission struct {
	challenges  datastore.ChallengeStore
	submissions datastore.SubmissionStore
	limiter     interfaces.Limiter
	cache       caching.Cache
}

func NewServiceSubmission(container *do.Injector) (*ServiceSubmission, error) {
	challenges, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	submissions, err := do.Invoke[datastore.SubmissionStore](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceSubmission{challenges, submissions, limiter, cache}, nil
}

// Submit records one scored selfie for a public challenge. Every submission
// adds to the user's running total; participants_count moves only on the
// user's first submission.
func (service *ServiceSubmission) Submit(ctx context.Context, challengeID, userID int64, score float64, mediaURL string) (*models.SelfieSubmission, error) {
	if score < 0 || score > 100 {
		return nil, errorx.Wrap(ErrInvalidScore, errorx.Validation)
	}

	if err := service.limiter.Allow(ctx, LimitKeySubmission(userID), redis_rate.PerMinute(SUBMISSION_RATE_LIMIT_PER_MINUTE)); err != nil {
		return nil, errorx.Wrap(err, errorx.RateLimiting)
	}

	challenge, err := service.challenges.ByID(ctx, challengeID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return nil, errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.Ended(time.Now()) {
		return nil, errorx.Wrap(ErrChallengeEnded, errorx.Validation)
	}

	exists, err := service.submissions.HasSubmission(ctx, challengeID, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	submission := &models.SelfieSubmission{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		UserID:      userID,
		Score:       score,
		MediaURL:    mediaURL,
		CreatedAt:   time.Now(),
	}
	if err := service.submissions.Insert(ctx, submission); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if !exists {
		if err := service.challenges.IncrementParticipantsCount(ctx, challengeID); err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}
	}

	_ = service.cache.Delete(ctx, DBKeyPublicLeaderboard(challengeID))

	return submission, nil
}
