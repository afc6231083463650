package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"snapclash/internal/services"
)

type groupParticipation struct {
	container *do.Injector
}

func (gr *groupParticipation) Accept(c echo.Context) error {
	serviceParticipation, err := do.Invoke[*services.ServiceParticipation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceParticipation.Accept(ctx, c.Param("code"), user.ID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"accepted": true}, nil)
}

func (gr *groupParticipation) Decline(c echo.Context) error {
	serviceParticipation, err := do.Invoke[*services.ServiceParticipation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceParticipation.Decline(ctx, c.Param("code"), user.ID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"declined": true}, nil)
}
