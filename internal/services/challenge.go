package services

import (
	"context"
	"strings"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/models"
	"snapclash/internal/pkg"
	"snapclash/internal/pkg/caching"
)

type ChallengeDraft struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Theme         string    `json:"theme"`
	Banner        string    `json:"banner"`
	Hashtags      []string  `json:"hashtags"`
	StartDate     time.Time `json:"start_date"`
	DurationDays  int       `json:"duration_days"`
	WinningReward string    `json:"winning_reward"`
}

// ChallengeView pairs a challenge with the mode resolved from the code the
// caller used to reach it.
type ChallengeView struct {
	Challenge *models.Challenge    `json:"challenge"`
	Mode      models.ChallengeMode `json:"mode"`
}

type ServiceChallenge struct {
	challenges    datastore.ChallengeStore
	users         datastore.UserStore
	codes         *ServiceCodes
	config        *ServiceConfig
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
}

func NewServiceChallenge(container *do.Injector) (*ServiceChallenge, error) {
	challenges, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	users, err := do.Invoke[datastore.UserStore](container)
	if err != nil {
		return nil, err
	}

	codes, err := do.Invoke[*ServiceCodes](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceChallenge{challenges, users, codes, config, cache, readonlyCache}, nil
}

func (service *ServiceChallenge) Create(ctx context.Context, creatorID int64, draft ChallengeDraft) (*models.Challenge, error) {
	now := time.Now()

	if err := validateDraft(draft, now); err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	count, err := service.challenges.CountCreatedSince(ctx, creatorID, now.Add(-24*time.Hour))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if count >= DAILY_CHALLENGE_LIMIT {
		return nil, errorx.Wrap(ErrDailyChallengeLimit, errorx.RateLimiting)
	}

	uniqueCode, err := service.codes.PublicCode(ctx)
	if err != nil {
		return nil, err
	}
	inviteCode, err := service.codes.InviteCode(ctx)
	if err != nil {
		return nil, err
	}

	challenge := &models.Challenge{
		UniqueCode:    uniqueCode,
		InviteCode:    inviteCode,
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		Theme:         draft.Theme,
		Banner:        draft.Banner,
		Hashtags:      pkg.NormalizeHashtags(draft.Hashtags),
		StartDate:     draft.StartDate,
		EndDate:       draft.StartDate.AddDate(0, 0, draft.DurationDays),
		CreatorID:     creatorID,
		WinningReward: strings.TrimSpace(draft.WinningReward),
		Participants:  []int64{},
		DeclinedUsers: []int64{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := service.challenges.Insert(ctx, challenge); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if err := service.users.IncrementChallengesCreated(ctx, creatorID, 1); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	_ = service.cache.Delete(ctx, DBKeyTrendingChallenges())

	return challenge, nil
}

func validateDraft(draft ChallengeDraft, now time.Time) error {
	if strings.TrimSpace(draft.Title) == "" {
		return ErrInvalidTitle
	}
	if !draft.StartDate.After(now) {
		return ErrInvalidStartDate
	}
	if !models.ChallengeDurations[draft.DurationDays] {
		return ErrInvalidDuration
	}
	if strings.TrimSpace(draft.WinningReward) == "" {
		return ErrEmptyReward
	}
	return nil
}

func (service *ServiceChallenge) Update(ctx context.Context, challengeID, requesterID int64, update models.ChallengeUpdate) (*models.Challenge, error) {
	challenge, err := service.challenges.ByID(ctx, challengeID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return nil, errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.CreatorID != requesterID {
		return nil, errorx.Wrap(ErrNotCreator, errorx.Authn)
	}

	if update.Title != nil {
		challenge.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		challenge.Description = *update.Description
	}
	if update.Theme != nil {
		challenge.Theme = *update.Theme
	}
	if update.Banner != nil {
		challenge.Banner = *update.Banner
	}
	if update.Hashtags != nil {
		challenge.Hashtags = pkg.NormalizeHashtags(*update.Hashtags)
	}
	if update.StartDate != nil {
		challenge.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		challenge.EndDate = *update.EndDate
	}
	if update.WinningReward != nil {
		challenge.WinningReward = strings.TrimSpace(*update.WinningReward)
	}

	if update.StartDate != nil || update.EndDate != nil {
		if !challenge.EndDate.After(challenge.StartDate) {
			return nil, errorx.Wrap(ErrInvalidDateRange, errorx.Validation)
		}
	}
	if challenge.WinningReward == "" {
		return nil, errorx.Wrap(ErrEmptyReward, errorx.Validation)
	}

	if err := service.challenges.Update(ctx, challenge); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	_ = service.cache.Delete(ctx, DBKeyTrendingChallenges())

	return challenge, nil
}

// Delete removes the challenge only; participations and submissions stay as
// historical data.
func (service *ServiceChallenge) Delete(ctx context.Context, challengeID, requesterID int64) error {
	challenge, err := service.challenges.ByID(ctx, challengeID)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.CreatorID != requesterID {
		return errorx.Wrap(ErrNotCreator, errorx.Authn)
	}

	if err := service.challenges.Delete(ctx, challengeID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	if err := service.users.IncrementChallengesCreated(ctx, requesterID, -1); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	_ = service.cache.Delete(ctx, DBKeyTrendingChallenges())

	return nil
}

// Lookup resolves a challenge by either code family. The invite code is
// stripped from the result when a public code was used by someone other than
// the creator.
func (service *ServiceChallenge) Lookup(ctx context.Context, code string, requesterID int64) (*ChallengeView, error) {
	challenge, err := service.challenges.ByCode(ctx, code)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return nil, errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}

	mode := models.ChallengeModePublic
	if challenge.InviteCode == code {
		mode = models.ChallengeModePrivate
	}

	if mode == models.ChallengeModePublic && challenge.CreatorID != requesterID {
		challenge.InviteCode = ""
	}

	return &ChallengeView{Challenge: challenge, Mode: mode}, nil
}

func (service *ServiceChallenge) Trending(ctx context.Context) ([]*models.Challenge, error) {
	callback := func() ([]*models.Challenge, error) {
		limit, _ := service.config.GetIntConfig(ctx, CONFIG_TRENDING_CHALLENGES_LIMIT, TRENDING_CHALLENGES_DEFAULT_LIMIT)
		return service.challenges.Trending(ctx, limit)
	}

	challenges, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyTrendingChallenges(), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	for _, challenge := range challenges {
		challenge.InviteCode = ""
	}

	return challenges, nil
}

func (service *ServiceChallenge) Mine(ctx context.Context, creatorID int64) ([]*models.Challenge, error) {
	challenges, err := service.challenges.ByCreator(ctx, creatorID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return challenges, nil
}
