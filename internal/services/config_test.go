package services

import (
	"context"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIntConfig(t *testing.T) {
	injector, mocks := newTestContainer()
	mocks.configs.values[CONFIG_PRIVATE_PARTICIPANT_CAP] = "25"

	service, err := do.Invoke[*ServiceConfig](injector)
	require.NoError(t, err)

	value, err := service.GetIntConfig(context.Background(), CONFIG_PRIVATE_PARTICIPANT_CAP, PRIVATE_PARTICIPANT_DEFAULT_CAP)
	require.NoError(t, err)
	assert.Equal(t, 25, value)
}

func TestGetIntConfigFallsBackToDefault(t *testing.T) {
	injector, _ := newTestContainer()

	service, err := do.Invoke[*ServiceConfig](injector)
	require.NoError(t, err)

	value, _ := service.GetIntConfig(context.Background(), "MISSING", 42)
	assert.Equal(t, 42, value)
}

func TestGetStringConfig(t *testing.T) {
	injector, mocks := newTestContainer()
	mocks.configs.values[CONFIG_CRONJOB_TIME_WINNER] = "@every 10m"

	service, err := do.Invoke[*ServiceConfig](injector)
	require.NoError(t, err)

	value, err := service.GetStringConfig(context.Background(), CONFIG_CRONJOB_TIME_WINNER, "@every 5m")
	require.NoError(t, err)
	assert.Equal(t, "@every 10m", value)
}
