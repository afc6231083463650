package services

import (
	"context"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"

	"snapclash/internal/datastore"
	"snapclash/internal/models"
	"snapclash/internal/pkg"
)

// CodeIndex is the code-uniqueness view of the challenge store. Public and
// invite codes share one namespace so a single lookup covers both.
type CodeIndex interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type ServiceCodes struct {
	index CodeIndex
}

func NewServiceCodes(container *do.Injector) (*ServiceCodes, error) {
	store, err := do.Invoke[datastore.ChallengeStore](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCodes{index: store}, nil
}

func (s *ServiceCodes) PublicCode(ctx context.Context) (string, error) {
	return s.generate(ctx, models.PublicCodeLength)
}

func (s *ServiceCodes) InviteCode(ctx context.Context) (string, error) {
	return s.generate(ctx, models.InviteCodeLength)
}

func (s *ServiceCodes) generate(ctx context.Context, length int) (string, error) {
	for i := 0; i < CODE_MAX_ATTEMPTS; i++ {
		code := pkg.RandomCode(models.CodeAlphabet, length)
		exists, err := s.index.CodeExists(ctx, code)
		if err != nil {
			return "", errorx.Wrap(err, errorx.Service)
		}
		if !exists {
			return code, nil
		}
	}

	return "", errorx.Wrap(ErrCodeSpaceExhausted, errorx.Service)
}
