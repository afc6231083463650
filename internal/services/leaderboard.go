package services

import (
	"context"
	"sort"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/models"
	"snapclash/internal/pkg/caching"
)

type ServiceLeaderboard struct {
	challenges     datastore.ChallengeStore
	participations datastore.ParticipationStore
	submissions    datastore.SubmissionStore
	users          datastore.UserStore
	config         *ServiceConfig
	cache          caching.Cache
	readonlyCache  caching.ReadOnlyCache
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	challenges, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	participations, err := do.Invoke[datastore.ParticipationStore](container)
	if err != nil {
		return nil, err
	}

	submissions, err := do.Invoke[datastore.SubmissionStore](container)
	if err != nil {
		return nil, err
	}

	users, err := do.Invoke[datastore.UserStore](container)
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

	return &ServiceLeaderboard{challenges, participations, submissions, users, config, cache, readonlyCache}, nil
}

// ByCode returns the standings for the challenge the code resolves to. The
// code family picks the algorithm: public codes aggregate submissions, invite
// codes rank completed participations.
func (service *ServiceLeaderboard) ByCode(ctx context.Context, code string) (*models.LeaderboardResponse, error) {
	challenge, err := service.challenges.ByCode(ctx, code)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return nil, errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}

	if challenge.InviteCode == code {
		entries, err := service.private(ctx, challenge)
		if err != nil {
			return nil, err
		}
		return &models.LeaderboardResponse{Mode: models.ChallengeModePrivate, Private: entries}, nil
	}

	entries, err := service.public(ctx, challenge)
	if err != nil {
		return nil, err
	}
	return &models.LeaderboardResponse{Mode: models.ChallengeModePublic, Public: entries}, nil
}

func (service *ServiceLeaderboard) public(ctx context.Context, challenge *models.Challenge) ([]*models.PublicLeaderboardEntry, error) {
	limit, _ := service.config.GetIntConfig(ctx, CONFIG_PUBLIC_LEADERBOARD_LIMIT, PUBLIC_LEADERBOARD_DEFAULT_LIMIT)

	callback := func() ([]*models.UserScoreAggregate, error) {
		return service.submissions.AggregateByUser(ctx, challenge.ID, limit)
	}

	aggregates, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPublicLeaderboard(challenge.ID), CACHE_TTL_15_SECONDS, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	entries := RankPublic(aggregates)

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.User.ID())
	}
	users, err := service.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	byID := make(map[int64]*models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	for _, entry := range entries {
		if user, ok := byID[entry.User.ID()]; ok {
			entry.User = models.ResolvedRef(user.ID, user)
		}
	}

	return entries, nil
}

// RankPublic orders aggregates by total score, breaking ties by the highest
// single score, and assigns 1-based ranks.
func RankPublic(aggregates []*models.UserScoreAggregate) []*models.PublicLeaderboardEntry {
	sorted := make([]*models.UserScoreAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].HighestScore > sorted[j].HighestScore
	})

	entries := make([]*models.PublicLeaderboardEntry, 0, len(sorted))
	for i, aggregate := range sorted {
		average := 0.0
		if aggregate.TotalSubmissions > 0 {
			average = aggregate.TotalScore / float64(aggregate.TotalSubmissions)
		}
		entries = append(entries, &models.PublicLeaderboardEntry{
			Rank:             i + 1,
			User:             models.UnresolvedRef[models.User](aggregate.UserID),
			TotalScore:       aggregate.TotalScore,
			TotalSubmissions: aggregate.TotalSubmissions,
			AverageScore:     average,
			HighestScore:     aggregate.HighestScore,
		})
	}
	return entries
}

func (service *ServiceLeaderboard) private(ctx context.Context, challenge *models.Challenge) ([]*models.PrivateLeaderboardEntry, error) {
	participations, err := service.participations.CompletedByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return RankPrivate(challenge, participations), nil
}

// RankPrivate filters completed records down to current members. Declined
// users are excluded again here even though decline deletes their record.
func RankPrivate(challenge *models.Challenge, participations []*models.ChallengeParticipation) []*models.PrivateLeaderboardEntry {
	entries := make([]*models.PrivateLeaderboardEntry, 0, len(participations))
	for _, participation := range participations {
		if !challenge.HasParticipant(participation.UserID) {
			continue
		}
		if challenge.HasDeclined(participation.UserID) {
			continue
		}

		user := models.UnresolvedRef[models.User](participation.UserID)
		if participation.User != nil {
			user = models.ResolvedRef(participation.UserID, participation.User)
		}
		entries = append(entries, &models.PrivateLeaderboardEntry{
			Rank:        len(entries) + 1,
			User:        user,
			Score:       participation.Score,
			CompletedAt: participation.CompletedAt,
		})
	}
	return entries
}
