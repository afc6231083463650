package services

import (
	"context"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/models"
)

type ServiceUser struct {
	users datastore.UserStore
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	users, err := do.Invoke[datastore.UserStore](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{users}, nil
}

// FindOrCreateUser syncs the authenticated identity into the local user row.
func (service *ServiceUser) FindOrCreateUser(ctx context.Context, auth *models.UserFromAuth) (*models.User, error) {
	user := &models.User{
		ID:        auth.ID,
		Username:  auth.Username,
		UpdatedAt: time.Now(),
	}
	if auth.Avatar != "" {
		user.Avatar = &auth.Avatar
	}

	if err := service.users.Upsert(ctx, user); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return service.Me(ctx, auth.ID)
}

func (service *ServiceUser) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := service.users.ByID(ctx, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if user == nil {
		return nil, errorx.Wrap(ErrUserNotFound, errorx.NotExist)
	}
	return user, nil
}
