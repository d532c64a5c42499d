package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

const (
	maxWeightKg   = 500.0
	maxDailySteps = 300000
	maxBurnKcal   = 10000
)

// Trend - как изменился вес относительно прошлого взвешивания
type Trend int

const (
	TrendNone Trend = iota // не с чем сравнить
	TrendDecrease
	TrendIncrease
	TrendSame
)

func (t Trend) String() string {
	switch t {
	case TrendDecrease:
		return "decrease"
	case TrendIncrease:
		return "increase"
	case TrendSame:
		return "same"
	}
	return "none"
}

func ClassifyTrend(previous float64, hasPrevious bool, current float64) Trend {
	switch {
	case !hasPrevious:
		return TrendNone
	case current < previous:
		return TrendDecrease
	case current > previous:
		return TrendIncrease
	}
	return TrendSame
}

type WeightResult struct {
	Date        string
	WeightKg    float64
	Previous    float64
	HasPrevious bool
	Trend       Trend
}

// TrackingService - вес, шаги и дополнительная активность
type TrackingService struct {
	records  repository.DailyRecordRepository
	profiles repository.ProfileRepository
	burns    repository.BurnRepository
	clock    Clock
}

func NewTrackingService(
	records repository.DailyRecordRepository,
	profiles repository.ProfileRepository,
	burns repository.BurnRepository,
	clock Clock,
) *TrackingService {
	return &TrackingService{records: records, profiles: profiles, burns: burns, clock: clock}
}

// SaveWeight сохраняет вес за дату и сравнивает с последним взвешиванием за другой день
func (s *TrackingService) SaveWeight(ctx context.Context, userID int64, date string, weightKg float64) (WeightResult, error) {
	if weightKg <= 0 || weightKg > maxWeightKg {
		return WeightResult{}, fmt.Errorf("%w: weight %.1f", ErrInvalidInput, weightKg)
	}

	previous, ok, err := s.records.LastWeight(ctx, userID, date)
	if err != nil {
		return WeightResult{}, fmt.Errorf("last weight: %w", err)
	}

	if err := s.records.UpsertWeight(ctx, userID, date, weightKg); err != nil {
		return WeightResult{}, err
	}

	// вес в анкете - всегда текущий
	if date == s.clock.Today() {
		if err := s.profiles.UpdateWeight(ctx, userID, weightKg); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return WeightResult{}, err
		}
	}

	return WeightResult{
		Date:        date,
		WeightKg:    weightKg,
		Previous:    previous,
		HasPrevious: ok,
		Trend:       ClassifyTrend(previous, ok, weightKg),
	}, nil
}

// LastWeight - последний вес на любую дату, кроме excludeDate
func (s *TrackingService) LastWeight(ctx context.Context, userID int64, excludeDate string) (float64, bool, error) {
	return s.records.LastWeight(ctx, userID, excludeDate)
}

func (s *TrackingService) SaveSteps(ctx context.Context, userID int64, date string, steps int) error {
	if steps < 0 || steps > maxDailySteps {
		return fmt.Errorf("%w: steps %d", ErrInvalidInput, steps)
	}
	return s.records.UpsertSteps(ctx, userID, date, steps)
}

// StepsExist - вводил ли пользователь шаги за дату
func (s *TrackingService) StepsExist(ctx context.Context, userID int64, date string) (bool, error) {
	rec, err := s.records.FindByDate(ctx, userID, date)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return rec.StepCount != nil, nil
}

func (s *TrackingService) SaveBurn(ctx context.Context, userID int64, date string, calories int) error {
	if calories < 0 || calories > maxBurnKcal {
		return fmt.Errorf("%w: burned calories %d", ErrInvalidInput, calories)
	}
	return s.burns.Upsert(ctx, userID, date, calories)
}
