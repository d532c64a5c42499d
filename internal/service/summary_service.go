package service

import (
	"context"
	"errors"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

const (
	DefaultWeightKg   = 70.0
	stepKcalPerKgStep = 0.00035
)

type Macros struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// DailySummary - итоги дня. Одинаковы для /summary и для вечернего отчёта
type DailySummary struct {
	UserID         int64   `json:"user_id"`
	Date           string  `json:"date"`
	HasMeals       bool    `json:"has_meals"`
	Consumed       Macros  `json:"consumed"`
	Targets        Targets `json:"targets"`
	Steps          int     `json:"steps"`
	WeightKg       float64 `json:"weight_kg"`
	StepBurnKcal   int     `json:"step_burn_kcal"`
	ManualBurnKcal int     `json:"manual_burn_kcal"`
	TotalBurnKcal  int     `json:"total_burn_kcal"`
	DailyBudget    int     `json:"daily_budget"`
	Balance        int     `json:"balance"`
}

func (s DailySummary) WithinBudget() bool { return s.Balance <= s.Targets.Calories }

// ExceededBy - на сколько ккал превышена норма, 0 если в пределах
func (s DailySummary) ExceededBy() int {
	if s.WithinBudget() {
		return 0
	}
	return s.Balance - s.Targets.Calories
}

// StepBurn - ккал, сожжённые шагами
func StepBurn(steps int, weightKg float64) int {
	return round(float64(steps) * weightKg * stepKcalPerKgStep)
}

type SummaryService struct {
	profiles repository.ProfileRepository
	records  repository.DailyRecordRepository
	meals    repository.MealRepository
	burns    repository.BurnRepository
}

func NewSummaryService(
	profiles repository.ProfileRepository,
	records repository.DailyRecordRepository,
	meals repository.MealRepository,
	burns repository.BurnRepository,
) *SummaryService {
	return &SummaryService{profiles: profiles, records: records, meals: meals, burns: burns}
}

// Daily собирает итоги за дату. Любая ошибка чтения -> *AggregationError, частичных итогов нет
func (s *SummaryService) Daily(ctx context.Context, userID int64, date string) (DailySummary, error) {
	fail := func(op string, err error) (DailySummary, error) {
		return DailySummary{}, &AggregationError{UserID: userID, Date: date, Op: op, Err: err}
	}

	var profile *models.UserProfile
	p, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		profile = p
	case !errors.Is(err, repository.ErrNotFound):
		return fail("load profile", err)
	}

	targets, err := TargetsFor(profile)
	if err != nil {
		return fail("targets", err)
	}

	totals, err := s.meals.SumByDate(ctx, userID, date)
	if err != nil {
		return fail("sum meals", err)
	}

	steps := 0
	rec, err := s.records.FindByDate(ctx, userID, date)
	switch {
	case err == nil:
		if rec.StepCount != nil {
			steps = *rec.StepCount
		}
	case !errors.Is(err, repository.ErrNotFound):
		return fail("load daily record", err)
	}

	manual, err := s.burns.FindByDate(ctx, userID, date)
	if err != nil {
		return fail("load burned calories", err)
	}

	weight := DefaultWeightKg
	if profile != nil {
		weight = profile.WeightKg
	}

	stepBurn := StepBurn(steps, weight)
	totalBurn := stepBurn + manual

	return DailySummary{
		UserID:   userID,
		Date:     date,
		HasMeals: totals.Count > 0,
		Consumed: Macros{
			Calories: totals.Calories,
			ProteinG: round1(totals.ProteinG),
			FatG:     round1(totals.FatG),
			CarbsG:   round1(totals.CarbsG),
		},
		Targets:        targets,
		Steps:          steps,
		WeightKg:       weight,
		StepBurnKcal:   stepBurn,
		ManualBurnKcal: manual,
		TotalBurnKcal:  totalBurn,
		DailyBudget:    targets.Calories + totalBurn,
		Balance:        totals.Calories - totalBurn,
	}, nil
}
