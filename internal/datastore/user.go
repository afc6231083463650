package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"snapclash/internal/models"
)

type UserStore interface {
	ByID(ctx context.Context, id int64) (*models.User, error)
	ByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	IncrementChallengesCreated(ctx context.Context, id int64, delta int) error
}

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	return err
}

type userStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) UserStore {
	return &userStore{db}
}

func (s *userStore) ByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.NewSelect().Model(&user).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) ByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*models.User
	err := s.db.NewSelect().Model(&users).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) Upsert(ctx context.Context, user *models.User) error {
	_, err := s.db.NewInsert().Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("avatar = EXCLUDED.avatar").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *userStore) IncrementChallengesCreated(ctx context.Context, id int64, delta int) error {
	_, err := s.db.NewUpdate().Model((*models.User)(nil)).
		Set("challenges_created = challenges_created + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
