package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

func onboard(t *testing.T, env *testEnv, userID int64) {
	t.Helper()
	_, err := env.profiles.Onboard(context.Background(), OnboardingDTO{
		UserID: userID, WeightKg: 80, HeightCm: 180, BodyFatPercent: 20,
		Gender: models.GenderMale, DeficitMode: models.DeficitMedium,
	})
	require.NoError(t, err)
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 12, 0, 0, 0, vilnius))
	onboard(t, env, 1)
	today := env.clock.Today()

	_, err := env.meals.AddMeal(ctx, MealDTO{UserID: 1, Description: "завтрак", Calories: 1000, ProteinG: 50, FatG: 30.25, CarbsG: 100})
	require.NoError(t, err)
	_, err = env.meals.AddMeal(ctx, MealDTO{UserID: 1, Description: "обед", Calories: 800, ProteinG: 40, FatG: 20, CarbsG: 60})
	require.NoError(t, err)
	require.NoError(t, env.tracking.SaveSteps(ctx, 1, today, 10000))
	require.NoError(t, env.tracking.SaveBurn(ctx, 1, today, 200))

	got, err := env.summary.Daily(ctx, 1, today)
	require.NoError(t, err)

	want := DailySummary{
		UserID:         1,
		Date:           "2024-05-02",
		HasMeals:       true,
		Consumed:       Macros{Calories: 1800, ProteinG: 90, FatG: 50.3, CarbsG: 160},
		Targets:        Targets{Calories: 1420, ProteinG: 128, FatG: 64, CarbsG: 83},
		Steps:          10000,
		WeightKg:       80,
		StepBurnKcal:   280,
		ManualBurnKcal: 200,
		TotalBurnKcal:  480,
		DailyBudget:    1900,
		Balance:        1320,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.WithinBudget())
	assert.Equal(t, 0, got.ExceededBy())

	_, err = env.meals.AddMeal(ctx, MealDTO{UserID: 1, Description: "торт", Calories: 600})
	require.NoError(t, err)
	got, err = env.summary.Daily(ctx, 1, today)
	require.NoError(t, err)
	assert.False(t, got.WithinBudget())
	assert.Equal(t, 500, got.ExceededBy())
}

func TestDailySummaryIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 12, 0, 0, 0, vilnius))
	onboard(t, env, 1)
	today := env.clock.Today()

	_, err := env.meals.AddMeal(ctx, MealDTO{UserID: 1, Description: "суп", Calories: 350.4, ProteinG: 12.34})
	require.NoError(t, err)
	require.NoError(t, env.tracking.SaveSteps(ctx, 1, today, 7345))

	first, err := env.summary.Daily(ctx, 1, today)
	require.NoError(t, err)
	second, err := env.summary.Daily(ctx, 1, today)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("summary changed without writes:\n%s", diff)
	}
}

func TestDailySummaryWithoutProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 12, 0, 0, 0, vilnius))
	today := env.clock.Today()

	require.NoError(t, env.tracking.SaveSteps(ctx, 5, today, 10000))

	got, err := env.summary.Daily(ctx, 5, today)
	require.NoError(t, err)
	assert.False(t, got.HasMeals)
	assert.Equal(t, DefaultTargets, got.Targets)
	assert.Equal(t, DefaultWeightKg, got.WeightKg)
	assert.Equal(t, 245, got.StepBurnKcal)
	assert.Equal(t, 2245, got.DailyBudget)
	assert.Equal(t, -245, got.Balance)
}

type failingBurnRepo struct{ repository.BurnRepository }

func (failingBurnRepo) FindByDate(context.Context, int64, string) (int, error) {
	return 0, errors.New("connection reset")
}

func TestDailySummaryAggregationError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, 5, 2, 12, 0, 0, 0, vilnius))

	svc := *env.summary
	svc.burns = failingBurnRepo{}

	_, err := svc.Daily(ctx, 1, "2024-05-02")
	require.Error(t, err)

	var aggErr *AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, "load burned calories", aggErr.Op)
	assert.Equal(t, "2024-05-02", aggErr.Date)
}

func TestStepBurn(t *testing.T) {
	assert.Equal(t, 280, StepBurn(10000, 80))
	assert.Equal(t, 0, StepBurn(0, 80))
	// 1234*70*0.00035 = 30.233
	assert.Equal(t, 30, StepBurn(1234, 70))
}
