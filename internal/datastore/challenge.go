package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"snapclash/internal/models"
)

type ChallengeStore interface {
	Insert(ctx context.Context, challenge *models.Challenge) error
	ByID(ctx context.Context, id int64) (*models.Challenge, error)
	ByCode(ctx context.Context, code string) (*models.Challenge, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CountCreatedSince(ctx context.Context, creatorID int64, since time.Time) (int, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	Delete(ctx context.Context, id int64) error
	Trending(ctx context.Context, limit int) ([]*models.Challenge, error)
	ByCreator(ctx context.Context, creatorID int64) ([]*models.Challenge, error)
	AddParticipant(ctx context.Context, challengeID, userID int64, cap int) (bool, error)
	MarkDeclined(ctx context.Context, challengeID, userID int64) error
	IncrementParticipantsCount(ctx context.Context, challengeID int64) error
	SetWinner(ctx context.Context, challengeID, winnerID int64) (bool, error)
	EndedUnresolved(ctx context.Context, now time.Time, limit int) ([]*models.Challenge, error)
}

func CreateTableChallenge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Challenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_unique_code").Unique().IfNotExists().Column("unique_code").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_invite_code").Unique().IfNotExists().Column("invite_code").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_creator_created_at").IfNotExists().Column("creator_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_end_date").IfNotExists().Column("end_date").Exec(ctx)
	return err
}

type challengeStore struct {
	db *bun.DB
}

func NewChallengeStore(db *bun.DB) ChallengeStore {
	return &challengeStore{db}
}

func (s *challengeStore) Insert(ctx context.Context, challenge *models.Challenge) error {
	_, err := s.db.NewInsert().Model(challenge).Exec(ctx)
	return err
}

func (s *challengeStore) ByID(ctx context.Context, id int64) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.NewSelect().Model(&challenge).
		Relation("Creator").
		Relation("Winner").
		Where("challenge.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ByCode matches either code family; both live in one namespace.
func (s *challengeStore) ByCode(ctx context.Context, code string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.NewSelect().Model(&challenge).
		Relation("Creator").
		Relation("Winner").
		Where("unique_code = ?", code).
		WhereOr("invite_code = ?", code).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *challengeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := s.db.NewSelect().Model((*models.Challenge)(nil)).
		Where("unique_code = ?", code).
		WhereOr("invite_code = ?", code).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *challengeStore) CountCreatedSince(ctx context.Context, creatorID int64, since time.Time) (int, error) {
	return s.db.NewSelect().Model((*models.Challenge)(nil)).
		Where("creator_id = ?", creatorID).
		Where("created_at > ?", since).
		Count(ctx)
}

func (s *challengeStore) Update(ctx context.Context, challenge *models.Challenge) error {
	challenge.UpdatedAt = time.Now()
	_, err := s.db.NewUpdate().Model(challenge).
		Column("title", "description", "theme", "banner", "hashtags", "start_date", "end_date", "winning_reward", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (s *challengeStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().Model((*models.Challenge)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func (s *challengeStore) Trending(ctx context.Context, limit int) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := s.db.NewSelect().Model(&challenges).
		Relation("Creator").
		Order("participants_count DESC").
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func (s *challengeStore) ByCreator(ctx context.Context, creatorID int64) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := s.db.NewSelect().Model(&challenges).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// AddParticipant adds the user in a single conditional update so the cap
// check and the write cannot interleave. Returns false when nothing changed:
// either the user is already in the set or the cap is reached; callers
// distinguish by re-reading.
func (s *challengeStore) AddParticipant(ctx context.Context, challengeID, userID int64, cap int) (bool, error) {
	res, err := s.db.NewUpdate().Model((*models.Challenge)(nil)).
		Set("participants = array_append(participants, ?)", userID).
		Set("declined_users = array_remove(declined_users, ?)", userID).
		Set("updated_at = current_timestamp").
		Where("id = ?", challengeID).
		Where("NOT (? = ANY(coalesce(participants, '{}'::bigint[])))", userID).
		Where("coalesce(array_length(participants, 1), 0) < ?", cap).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (s *challengeStore) MarkDeclined(ctx context.Context, challengeID, userID int64) error {
	_, err := s.db.NewUpdate().Model((*models.Challenge)(nil)).
		Set("participants = array_remove(participants, ?)", userID).
		Set("declined_users = array_append(array_remove(declined_users, ?), ?)", userID, userID).
		Set("updated_at = current_timestamp").
		Where("id = ?", challengeID).
		Exec(ctx)
	return err
}

func (s *challengeStore) IncrementParticipantsCount(ctx context.Context, challengeID int64) error {
	_, err := s.db.NewUpdate().Model((*models.Challenge)(nil)).
		Set("participants_count = participants_count + 1").
		Where("id = ?", challengeID).
		Exec(ctx)
	return err
}

// SetWinner declares the winner at most once and credits the win inside the
// same transaction, so a failure between the two writes cannot strand the
// challenge with a winner whose counter never moved.
func (s *challengeStore) SetWinner(ctx context.Context, challengeID, winnerID int64) (bool, error) {
	var claimed bool
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Challenge)(nil)).
			Set("winner_id = ?", winnerID).
			Set("updated_at = current_timestamp").
			Where("id = ?", challengeID).
			Where("winner_id IS NULL").
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		claimed = true

		_, err = tx.NewUpdate().Model((*models.User)(nil)).
			Set("challenge_wins = challenge_wins + 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", winnerID).
			Exec(ctx)
		return err
	})
	return claimed, err
}

func (s *challengeStore) EndedUnresolved(ctx context.Context, now time.Time, limit int) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := s.db.NewSelect().Model(&challenges).
		Where("end_date <= ?", now).
		Where("winner_id IS NULL").
		Where("EXISTS (SELECT 1 FROM challenge_participation cp WHERE cp.challenge_id = challenge.id AND cp.status = ?)", models.ParticipationCompleted).
		Order("end_date ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return challenges, nil
}
