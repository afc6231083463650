package services

import (
	"context"
	"log"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/interfaces"
	"snapclash/internal/models"
)

type ServiceWinner struct {
	challenges     datastore.ChallengeStore
	participations datastore.ParticipationStore
	locker         interfaces.Locker
}

func NewServiceWinner(container *do.Injector) (*ServiceWinner, error) {
	challenges, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	participations, err := do.Invoke[datastore.ParticipationStore](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	return &ServiceWinner{challenges, participations, locker}, nil
}

// Resolve declares the winner of an ended challenge. Calling it any number
// of times settles on the same outcome: still-running challenges, resolved
// challenges and challenges without a completed participation are no-ops.
func (service *ServiceWinner) Resolve(ctx context.Context, challengeID int64) (*models.Challenge, error) {
	challenge, err := service.challenges.ByID(ctx, challengeID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return nil, errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if !challenge.Ended(time.Now()) {
		return challenge, nil
	}
	if challenge.WinnerID != nil {
		return challenge, nil
	}

	mutex := service.locker.NewMutex(LockKeyChallengeWinner(challengeID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrChallengeWinnerLock, errorx.Invalid)
	}
	defer mutex.Unlock()

	participations, err := service.participations.CompletedByChallenge(ctx, challengeID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if len(participations) == 0 {
		return challenge, nil
	}
	winnerID := participations[0].UserID

	// claim and win credit commit together; on failure nothing is persisted
	// and a later call starts over
	if _, err := service.challenges.SetWinner(ctx, challengeID, winnerID); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return service.challenges.ByID(ctx, challengeID)
}

// ResolveExpired sweeps ended challenges that still lack a winner. Meant for
// the cron entrypoint; per-challenge failures are logged and skipped.
func (service *ServiceWinner) ResolveExpired(ctx context.Context) (int, error) {
	challenges, err := service.challenges.EndedUnresolved(ctx, time.Now(), WINNER_RESOLVE_BATCH_LIMIT)
	if err != nil {
		return 0, errorx.Wrap(err, errorx.Service)
	}

	resolved := 0
	for _, challenge := range challenges {
		if _, err := service.Resolve(ctx, challenge.ID); err != nil {
			log.Printf("resolve winner challenge=%d: %v", challenge.ID, err)
			continue
		}
		resolved++
	}

	return resolved, nil
}
