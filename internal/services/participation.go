package services

import (
	"context"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/interfaces"
	"snapclash/internal/models"
)

type ServiceParticipation struct {
	challenges     datastore.ChallengeStore
	participations datastore.ParticipationStore
	config         *ServiceConfig
	locker         interfaces.Locker
}

func NewServiceParticipation(container *do.Injector) (*ServiceParticipation, error) {
	challenges, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	participations, err := do.Invoke[datastore.ParticipationStore](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	return &ServiceParticipation{challenges, participations, config, locker}, nil
}

// Accept joins the user to a private challenge. Re-accepting is idempotent
// and never counts against the cap; a completed record keeps its score.
func (service *ServiceParticipation) Accept(ctx context.Context, inviteCode string, userID int64) error {
	challenge, err := service.challenges.ByCode(ctx, inviteCode)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.InviteCode != inviteCode {
		return errorx.Wrap(ErrInviteRequired, errorx.Invalid)
	}
	if challenge.Ended(time.Now()) {
		return errorx.Wrap(ErrChallengeEnded, errorx.Validation)
	}

	cap, _ := service.config.GetIntConfig(ctx, CONFIG_PRIVATE_PARTICIPANT_CAP, PRIVATE_PARTICIPANT_DEFAULT_CAP)

	mutex := service.locker.NewMutex(LockKeyChallengeAccept(challenge.ID))
	if err := mutex.Lock(); err != nil {
		return errorx.Wrap(ErrChallengeAcceptLock, errorx.Invalid)
	}
	defer mutex.Unlock()

	added, err := service.challenges.AddParticipant(ctx, challenge.ID, userID, cap)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if !added {
		// nothing changed: either already a member (fine) or at capacity.
		// the snapshot from ByCode predates the lock, so re-read before
		// calling it full
		current, err := service.challenges.ByID(ctx, challenge.ID)
		if err != nil {
			return errorx.Wrap(err, errorx.Service)
		}
		if current == nil || !current.HasParticipant(userID) {
			return errorx.Wrap(ErrChallengeFull, errorx.Invalid)
		}
	}

	if err := service.participations.UpsertAccepted(ctx, challenge.ID, userID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	return nil
}

// Decline removes the user and deletes their participation record; a later
// re-accept starts over at zero.
func (service *ServiceParticipation) Decline(ctx context.Context, inviteCode string, userID int64) error {
	challenge, err := service.challenges.ByCode(ctx, inviteCode)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.InviteCode != inviteCode {
		return errorx.Wrap(ErrInviteRequired, errorx.Invalid)
	}

	if err := service.challenges.MarkDeclined(ctx, challenge.ID, userID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	if err := service.participations.Delete(ctx, challenge.ID, userID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}

	return nil
}

// RecordScore moves the participation to completed, overwriting any prior
// score. Later submissions win regardless of value.
func (service *ServiceParticipation) RecordScore(ctx context.Context, challengeID, userID int64, score float64) error {
	if score < 0 || score > 100 {
		return errorx.Wrap(ErrInvalidScore, errorx.Validation)
	}

	challenge, err := service.challenges.ByID(ctx, challengeID)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if challenge == nil {
		return errorx.Wrap(ErrChallengeNotFound, errorx.NotExist)
	}
	if challenge.Ended(time.Now()) {
		return errorx.Wrap(ErrChallengeEnded, errorx.Validation)
	}
	if !challenge.HasParticipant(userID) {
		return errorx.Wrap(ErrNotParticipant, errorx.Authn)
	}

	updated, err := service.participations.RecordScore(ctx, challengeID, userID, score)
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	if !updated {
		return errorx.Wrap(ErrNotParticipant, errorx.Authn)
	}

	return nil
}

// Participation returns the caller's record for a challenge, nil when none.
func (service *ServiceParticipation) Participation(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipation, error) {
	participation, err := service.participations.Get(ctx, challengeID, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return participation, nil
}
