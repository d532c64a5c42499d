package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightTrendAcrossDays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 1, 9, 0, 0, 0, vilnius))
	onboard(t, env, 1)

	res, err := env.tracking.SaveWeight(ctx, 1, env.clock.Today(), 80.0)
	require.NoError(t, err)
	assert.Equal(t, TrendNone, res.Trend)
	assert.False(t, res.HasPrevious)

	// на следующий день
	env.now.t = env.now.t.AddDate(0, 0, 1)
	today := env.clock.Today()
	require.Equal(t, "2024-05-02", today)

	last, ok, err := env.tracking.LastWeight(ctx, 1, today)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 80.0, last)

	res, err = env.tracking.SaveWeight(ctx, 1, today, 79.5)
	require.NoError(t, err)
	assert.Equal(t, TrendDecrease, res.Trend)
	assert.Equal(t, 80.0, res.Previous)
	assert.Equal(t, "decrease", res.Trend.String())

	profile, err := env.profiles.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 79.5, profile.WeightKg)
}

func TestSaveWeightYesterdayKeepsProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 9, 0, 0, 0, vilnius))
	onboard(t, env, 1)

	res, err := env.tracking.SaveWeight(ctx, 1, env.clock.Yesterday(), 81)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", res.Date)

	profile, err := env.profiles.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 80.0, profile.WeightKg)
}

func TestSaveWeightWithoutProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 9, 0, 0, 0, vilnius))

	_, err := env.tracking.SaveWeight(ctx, 9, env.clock.Today(), 70)
	assert.NoError(t, err)
}

func TestTrackingValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 9, 0, 0, 0, vilnius))
	today := env.clock.Today()

	_, err := env.tracking.SaveWeight(ctx, 1, today, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, env.tracking.SaveSteps(ctx, 1, today, -1), ErrInvalidInput)
	assert.ErrorIs(t, env.tracking.SaveBurn(ctx, 1, today, -5), ErrInvalidInput)

	exists, err := env.tracking.StepsExist(ctx, 1, today)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = env.tracking.SaveWeight(ctx, 1, today, 70)
	require.NoError(t, err)
	exists, err = env.tracking.StepsExist(ctx, 1, today)
	require.NoError(t, err)
	assert.False(t, exists, "weight-only record has no steps")

	require.NoError(t, env.tracking.SaveSteps(ctx, 1, today, 0))
	exists, err = env.tracking.StepsExist(ctx, 1, today)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, TrendNone, ClassifyTrend(0, false, 80))
	assert.Equal(t, TrendDecrease, ClassifyTrend(80, true, 79.5))
	assert.Equal(t, TrendIncrease, ClassifyTrend(80, true, 80.1))
	assert.Equal(t, TrendSame, ClassifyTrend(80, true, 80))
}
