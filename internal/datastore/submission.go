package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"snapclash/internal/models"
)

type SubmissionStore interface {
	Insert(ctx context.Context, submission *models.SelfieSubmission) error
	HasSubmission(ctx context.Context, challengeID, userID int64) (bool, error)
	AggregateByUser(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error)
}

func CreateTableSelfieSubmission(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.SelfieSubmission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.SelfieSubmission)(nil)).Index("index_submission_challenge_user").IfNotExists().Column("challenge_id", "user_id").Exec(ctx)
	return err
}

type submissionStore struct {
	db *bun.DB
}

func NewSubmissionStore(db *bun.DB) SubmissionStore {
	return &submissionStore{db}
}

func (s *submissionStore) Insert(ctx context.Context, submission *models.SelfieSubmission) error {
	_, err := s.db.NewInsert().Model(submission).Exec(ctx)
	return err
}

func (s *submissionStore) HasSubmission(ctx context.Context, challengeID, userID int64) (bool, error) {
	return s.db.NewSelect().Model((*models.SelfieSubmission)(nil)).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Exists(ctx)
}

func (s *submissionStore) AggregateByUser(ctx context.Context, challengeID int64, limit int) ([]*models.UserScoreAggregate, error) {
	var aggregates []*models.UserScoreAggregate
	err := s.db.NewSelect().Model((*models.SelfieSubmission)(nil)).
		ColumnExpr("user_id").
		ColumnExpr("sum(score) AS total_score").
		ColumnExpr("count(*) AS total_submissions").
		ColumnExpr("max(score) AS highest_score").
		Where("challenge_id = ?", challengeID).
		GroupExpr("user_id").
		OrderExpr("sum(score) DESC").
		OrderExpr("max(score) DESC").
		Limit(limit).
		Scan(ctx, &aggregates)
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}
