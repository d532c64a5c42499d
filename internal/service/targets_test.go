package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

func TestCalculateTargets(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		bodyFat float64
		deficit int
		want    Targets
	}{
		{"medium 80kg 20%", 80, 20, 500, Targets{Calories: 1420, ProteinG: 128, FatG: 64, CarbsG: 83}},
		{"light 80kg 20%", 80, 20, 0, Targets{Calories: 1920, ProteinG: 128, FatG: 64, CarbsG: 208}},
		// (1170-512-576)/4 = 20.5 -> 21
		{"extreme 80kg 20%", 80, 20, 750, Targets{Calories: 1170, ProteinG: 128, FatG: 64, CarbsG: 21}},
		// сухая масса 35.5: жиры 35.5 -> 36, углеводы (1065-284-324)/4 = 114.25
		{"light 71kg 50%", 71, 50, 0, Targets{Calories: 1065, ProteinG: 71, FatG: 36, CarbsG: 114}},
		{"carbs clamped", 40, 50, 750, Targets{Calories: -150, ProteinG: 40, FatG: 20, CarbsG: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTargets(tt.weight, tt.bodyFat, tt.deficit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateTargetsProperties(t *testing.T) {
	for weight := 40.0; weight <= 200; weight += 7.3 {
		for bodyFat := MinBodyFat; bodyFat <= MaxBodyFat; bodyFat += 2.5 {
			for _, deficit := range []int{0, 500, 750} {
				got, err := CalculateTargets(weight, bodyFat, deficit)
				require.NoError(t, err)

				lbm := LeanMass(weight, bodyFat)
				assert.GreaterOrEqual(t, got.CarbsG, 0)
				assert.Equal(t, int(math.Round(lbm*30))-deficit, got.Calories)
			}
		}
	}
}

func TestCalculateTargetsInvalid(t *testing.T) {
	_, err := CalculateTargets(0, 20, 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = CalculateTargets(80, 2.9, 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = CalculateTargets(80, 50.1, 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = CalculateTargets(80, 20, -1)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestTargetsFor(t *testing.T) {
	got, err := TargetsFor(nil)
	require.NoError(t, err)
	assert.Equal(t, Targets{Calories: 2000, ProteinG: 100, FatG: 70, CarbsG: 200}, got)

	got, err = TargetsFor(&models.UserProfile{WeightKg: 80, BodyFatPercent: 20, DeficitMode: models.DeficitMedium})
	require.NoError(t, err)
	assert.Equal(t, 1420, got.Calories)

	_, err = TargetsFor(&models.UserProfile{WeightKg: 80, BodyFatPercent: 20, DeficitMode: "turbo"})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 3, round(2.5))
	assert.Equal(t, 4, round(3.5))
	assert.Equal(t, -3, round(-2.5))
	assert.Equal(t, 12.3, round1(12.25))
}
