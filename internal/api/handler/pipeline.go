package handler

import (
	"strconv"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"snapclash/internal/services"
)

// groupPipeline serves the scoring pipeline, not end users. Routes here sit
// behind the api-key middleware.
type groupPipeline struct {
	container *do.Injector
}

type payloadScore struct {
	UserID int64   `json:"user_id"`
	Score  float64 `json:"score"`
}

type payloadSubmission struct {
	UserID   int64   `json:"user_id"`
	Score    float64 `json:"score"`
	MediaURL string  `json:"media_url"`
}

// Score deposits a private-mode score onto an accepted participation.
func (gr *groupPipeline) Score(c echo.Context) error {
	serviceParticipation, err := do.Invoke[*services.ServiceParticipation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challengeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	var payload payloadScore
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	if err := serviceParticipation.RecordScore(c.Request().Context(), challengeID, payload.UserID, payload.Score); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"recorded": true}, nil)
}

// Submission deposits a public-mode scored selfie.
func (gr *groupPipeline) Submission(c echo.Context) error {
	serviceSubmission, err := do.Invoke[*services.ServiceSubmission](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challengeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	var payload payloadSubmission
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	submission, err := serviceSubmission.Submit(c.Request().Context(), challengeID, payload.UserID, payload.Score, payload.MediaURL)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, submission, nil)
}

// Resolve triggers winner resolution for one challenge.
func (gr *groupPipeline) Resolve(c echo.Context) error {
	serviceWinner, err := do.Invoke[*services.ServiceWinner](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challengeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	challenge, err := serviceWinner.Resolve(c.Request().Context(), challengeID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, challenge, nil)
}
