package datastore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"snapclash/internal/models"
)

type ConfigStore interface {
	ByKey(ctx context.Context, key string) (*models.Config, error)
	Upsert(ctx context.Context, config *models.Config) error
}

func CreateTableConfig(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	return err
}

type configStore struct {
	db *bun.DB
}

func NewConfigStore(db *bun.DB) ConfigStore {
	return &configStore{db}
}

func (s *configStore) ByKey(ctx context.Context, key string) (*models.Config, error) {
	var config models.Config
	err := s.db.NewSelect().Model(&config).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *configStore) Upsert(ctx context.Context, config *models.Config) error {
	_, err := s.db.NewInsert().Model(config).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
