package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"snapclash/internal/models"
)

type ParticipationStore interface {
	UpsertAccepted(ctx context.Context, challengeID, userID int64) error
	Get(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipation, error)
	Delete(ctx context.Context, challengeID, userID int64) error
	RecordScore(ctx context.Context, challengeID, userID int64, score float64) (bool, error)
	CompletedByChallenge(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error)
}

func CreateTableChallengeParticipation(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ChallengeParticipation)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChallengeParticipation)(nil)).Index("index_participation_challenge_user").Unique().IfNotExists().Column("challenge_id", "user_id").Exec(ctx)
	return err
}

type participationStore struct {
	db *bun.DB
}

func NewParticipationStore(db *bun.DB) ParticipationStore {
	return &participationStore{db}
}

// UpsertAccepted creates the accepted record if absent. A record that has
// already moved to completed keeps its score and status.
func (s *participationStore) UpsertAccepted(ctx context.Context, challengeID, userID int64) error {
	participation := &models.ChallengeParticipation{
		ChallengeID: challengeID,
		UserID:      userID,
		Status:      models.ParticipationAccepted,
	}
	_, err := s.db.NewInsert().Model(participation).
		On("CONFLICT (challenge_id, user_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (s *participationStore) Get(ctx context.Context, challengeID, userID int64) (*models.ChallengeParticipation, error) {
	var participation models.ChallengeParticipation
	err := s.db.NewSelect().Model(&participation).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

func (s *participationStore) Delete(ctx context.Context, challengeID, userID int64) error {
	_, err := s.db.NewDelete().Model((*models.ChallengeParticipation)(nil)).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

// RecordScore overwrites the score and marks the record completed. Returns
// false when no accepted record exists for the pair.
func (s *participationStore) RecordScore(ctx context.Context, challengeID, userID int64, score float64) (bool, error) {
	now := time.Now()
	res, err := s.db.NewUpdate().Model((*models.ChallengeParticipation)(nil)).
		Set("score = ?", score).
		Set("status = ?", models.ParticipationCompleted).
		Set("completed_at = ?", now).
		Set("updated_at = ?", now).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (s *participationStore) CompletedByChallenge(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipation, error) {
	var participations []*models.ChallengeParticipation
	err := s.db.NewSelect().Model(&participations).
		Relation("User").
		Where("challenge_id = ?", challengeID).
		Where("status = ?", models.ParticipationCompleted).
		Order("score DESC").
		Order("completed_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return participations, nil
}
