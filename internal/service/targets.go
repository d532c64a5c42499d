package service

import (
	"fmt"
	"math"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

const (
	MinBodyFat = 3.0
	MaxBodyFat = 50.0

	kcalPerLeanKg    = 30
	proteinPerLeanKg = 2
	fatPerLeanKg     = 1
)

// Targets - дневная норма КБЖУ
type Targets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// DefaultTargets - норма, если анкеты ещё нет
var DefaultTargets = Targets{Calories: 2000, ProteinG: 100, FatG: 70, CarbsG: 200}

// round - половинки округляются от нуля
func round(v float64) int { return int(math.Round(v)) }

// round1 - до одного знака после запятой
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func ValidateBodyFat(percent float64) error {
	if percent < MinBodyFat || percent > MaxBodyFat || math.IsNaN(percent) {
		return fmt.Errorf("%w: body fat %.1f%% outside [%.0f, %.0f]", ErrInvalidProfile, percent, MinBodyFat, MaxBodyFat)
	}
	return nil
}

// LeanMass - сухая масса тела, кг
func LeanMass(weightKg, bodyFatPercent float64) float64 {
	return weightKg * (1 - bodyFatPercent/100)
}

// CalculateTargets считает норму по сухой массе тела
func CalculateTargets(weightKg, bodyFatPercent float64, deficitKcal int) (Targets, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return Targets{}, fmt.Errorf("%w: weight %.1f", ErrInvalidProfile, weightKg)
	}
	if err := ValidateBodyFat(bodyFatPercent); err != nil {
		return Targets{}, err
	}
	if deficitKcal < 0 {
		return Targets{}, fmt.Errorf("%w: deficit %d", ErrInvalidProfile, deficitKcal)
	}

	lbm := LeanMass(weightKg, bodyFatPercent)
	calories := round(lbm*kcalPerLeanKg) - deficitKcal
	protein := round(lbm * proteinPerLeanKg)
	fat := round(lbm * fatPerLeanKg)
	carbs := round(float64(calories-protein*4-fat*9) / 4)
	if carbs < 0 {
		carbs = 0
	}

	return Targets{Calories: calories, ProteinG: protein, FatG: fat, CarbsG: carbs}, nil
}

// TargetsFor - норма по анкете; без анкеты DefaultTargets
func TargetsFor(profile *models.UserProfile) (Targets, error) {
	if profile == nil {
		return DefaultTargets, nil
	}
	deficit, ok := profile.DeficitMode.Kcal()
	if !ok {
		return Targets{}, fmt.Errorf("%w: deficit mode %q", ErrInvalidProfile, profile.DeficitMode)
	}
	return CalculateTargets(profile.WeightKg, profile.BodyFatPercent, deficit)
}
