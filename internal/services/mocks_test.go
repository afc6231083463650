package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/interfaces"
	"snapclash/internal/models"
	"snapclash/internal/pkg/caching"
)

type mockChallengeStore struct {
	insertFunc                     func(ctx context.Context, challenge *models.Challenge) error
	byIDFunc                       func(ctx context.Context, id int64) (*models.Challenge, error)
	byCodeFunc                     func(ctx context.Context, code string) (*models.Challenge, error)
	codeExistsFunc                 func(ctx context.Context, code string) (bool, error)
	countCreatedSinceFunc          func(ctx context.Context, creatorID int64, since time.Time) (int, error)
	updateFunc                     func(ctx context.Context, challenge *models.Challenge) error
	deleteFunc                     func(ctx context.Context, id int64) error
	trendingFunc                   func(ctx context.Context, limit int) ([]*models.Challenge, error)
	byCreatorFunc                  func(ctx context.Context, creatorID int64) ([]*models.Challenge, error)
	addParticipantFunc             func(ctx context.Context, challengeID, userID int64, cap int) (bool, error)
	markDeclinedFunc               func(ctx context.Context, challengeID, userID int64) error
	incrementParticipantsCountFunc func(ctx context.Context, challengeID int64) error
	setWinnerFunc                  func(ctx context.Context, challengeID, winnerID int64) (bool, error)
	endedUnresolvedFunc            func(ctx context.Context, now time.Time, limit int) ([]*models.Challenge, error)
}

func (m *mockChallengeStore) Insert(ctx context.Context, challenge *models.Challenge) error {
	return m.insertFunc(ctx, challenge)
}

func (m *mockChallengeStore) ByID(ctx context.Context, id int64) (*models.Challenge, error) {
	return m.byIDFunc(ctx, id)
}

func (m *mockChallengeStore) ByCode(ctx context.Context, code string) (*models.Challenge, error) {
	return m.byCodeFunc(ctx, code)
}

func (m *mockChallengeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return m.codeExistsFunc(ctx, code)
}

func (m *mockChallengeStore) CountCreatedSince(ctx context.Context, creatorID int64, since time.Time) (int, error) {
	return m.countCreatedSinceFunc(ctx, creatorID, since)
}

func (m *mockChallengeStore) Update(ctx context.Context, challenge *models.Challenge) error {
	return m.updateFunc(ctx, challenge)
}

func (m *mockChallengeStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockChallengeStore) Trending(ctx context.Context, limit int) ([]*models.Challenge, error) {
	return m.trendingFunc(ctx, limit)
}

func (m *mockChallengeStore) ByCreator(ctx context.Context, creatorID int64) ([]*models.Challenge, error) {
	return m.byCreatorFunc(ctx, creatorID)
}

func (m *mockChallengeStore) AddParticipant(ctx context.Context, challengeID, userID int64, cap int) (bool, error) {
	return m.addParticipantFunc(ctx, challengeID, userID, cap)
}

func (m *mockChallengeStore) MarkDeclined(ctx context.Context, challengeID, userID int64) error {
	return m.markDeclinedFunc(ctx, challengeID, userID)
}

func (m *mockChallengeStore) IncrementParticipantsCount(ctx context.Context, challengeID int64) error {
	return m.incrementParticipantsCountFunc(ctx, challengeID)
}

func (m *mockChallengeStore) SetWinner(ctx context.Context, challengeID, winnerID int64) (bool, error) {
	return m.setWinnerFunc(ctx, challengeID, winnerID)
}

func (m *mockChallengeStore) EndedUnresolved(ctx context.Context, now time.Time, limit int) ([]*models.Challenge, error) {
	return m.endedUnresolvedFunc(ctx, now, limit)
}

type mockParticipationStore struct {
	upsertAcceptedFunc       func(ctx context.Context, challengeID, userID int64) error
	getFunc                  func(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipation, error)
	deleteFunc               func(ctx context.Context, challengeID, userID int64) error
	recordScoreFunc          func(ctx context.Context, challengeID, userID int64, score float64) (bool, error)
	completedByChallengeFunc func(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error)
}

func (m *mockParticipationStore) UpsertAccepted(ctx context.Context, challengeID, userID int64) error {
	return m.upsertAcceptedFunc(ctx, challengeID, userID)
}

func (m *mockParticipationStore) Get(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipation, error) {
	return m.getFunc(ctx, challengeID, userID)
}

func (m *mockParticipationStore) Delete(ctx context.Context, challengeID, userID int64) error {
	return m.deleteFunc(ctx, challengeID, userID)
}

func (m *mockParticipationStore) RecordScore(ctx context.Context, challengeID, userID int64, score float64) (bool, error) {
	return m.recordScoreFunc(ctx, challengeID, userID, score)
}

func (m *mockParticipationStore) CompletedByChallenge(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
	return m.completedByChallengeFunc(ctx, challengeID)
}

type mockSubmissionStore struct {
	insertFunc          func(ctx context.Context, submission *models.SelfieSubmission) error
	hasSubmissionFunc   func(ctx context.Context, challengeID, userID int64) (bool, error)
	aggregateByUserFunc func(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error)
}

func (m *mockSubmissionStore) Insert(ctx context.Context, submission *models.SelfieSubmission) error {
	return m.insertFunc(ctx, submission)
}

func (m *mockSubmissionStore) HasSubmission(ctx context.Context, challengeID, userID int64) (bool, error) {
	return m.hasSubmissionFunc(ctx, challengeID, userID)
}

func (m *mockSubmissionStore) AggregateByUser(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error) {
	return m.aggregateByUserFunc(ctx, challengeID, limit)
}

type mockUserStore struct {
	byIDFunc                       func(ctx context.Context, id int64) (*models.User, error)
	byIDsFunc                      func(ctx context.Context, ids []int64) ([]*models.User, error)
	upsertFunc                     func(ctx context.Context, user *models.User) error
	incrementChallengesCreatedFunc func(ctx context.Context, id int64, delta int) error
}

func (m *mockUserStore) ByID(ctx context.Context, id int64) (*models.User, error) {
	return m.byIDFunc(ctx, id)
}

func (m *mockUserStore) ByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	return m.byIDsFunc(ctx, ids)
}

func (m *mockUserStore) Upsert(ctx context.Context, user *models.User) error {
	return m.upsertFunc(ctx, user)
}

func (m *mockUserStore) IncrementChallengesCreated(ctx context.Context, id int64, delta int) error {
	return m.incrementChallengesCreatedFunc(ctx, id, delta)
}

type mockConfigStore struct {
	values map[string]string
}

func (m *mockConfigStore) ByKey(ctx context.Context, key string) (*models.Config, error) {
	if value, ok := m.values[key]; ok {
		return &models.Config{Key: key, Value: value}, nil
	}
	return nil, nil
}

func (m *mockConfigStore) Upsert(ctx context.Context, config *models.Config) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[config.Key] = config.Value
	return nil
}

// memCache stores marshalled values in a map; a miss surfaces the same
// sentinel the redis-backed cache does.
type memCache struct {
	values map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{values: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, target any) error {
	raw, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, target)
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

type fakeMutex struct{}

func (fakeMutex) Lock() error           { return nil }
func (fakeMutex) Unlock() (bool, error) { return true, nil }

type fakeLocker struct{}

func (fakeLocker) NewMutex(name string) interfaces.Mutex { return fakeMutex{} }

type fakeLimiter struct {
	err error
}

func (l *fakeLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	return l.err
}

type containerMocks struct {
	challenges     *mockChallengeStore
	participations *mockParticipationStore
	submissions    *mockSubmissionStore
	users          *mockUserStore
	configs        *mockConfigStore
	cache          *memCache
	limiter        *fakeLimiter
}

func newTestContainer() (*do.Injector, *containerMocks) {
	mocks := &containerMocks{
		challenges:     &mockChallengeStore{},
		participations: &mockParticipationStore{},
		submissions:    &mockSubmissionStore{},
		users:          &mockUserStore{},
		configs:        &mockConfigStore{values: map[string]string{}},
		cache:          newMemCache(),
		limiter:        &fakeLimiter{},
	}

	injector := do.New()
	do.ProvideValue[datastore.ChallengeStore](injector, mocks.challenges)
	do.ProvideValue[datastore.ParticipationStore](injector, mocks.participations)
	do.ProvideValue[datastore.SubmissionStore](injector, mocks.submissions)
	do.ProvideValue[datastore.UserStore](injector, mocks.users)
	do.ProvideValue[datastore.ConfigStore](injector, mocks.configs)
	do.ProvideValue[caching.Cache](injector, mocks.cache)
	do.ProvideValue[caching.ReadOnlyCache](injector, mocks.cache)
	do.ProvideValue[interfaces.Limiter](injector, mocks.limiter)
	do.ProvideValue[interfaces.Locker](injector, fakeLocker{})

	do.Provide(injector, NewServiceCodes)
	do.Provide(injector, NewServiceConfig)
	do.Provide(injector, NewServiceUser)
	do.Provide(injector, NewServiceChallenge)
	do.Provide(injector, NewServiceParticipation)
	do.Provide(injector, NewServiceSubmission)
	do.Provide(injector, NewServiceLeaderboard)
	do.Provide(injector, NewServiceWinner)

	return injector, mocks
}
