package service

import "github.com/AliaksandrTarashkevich/smartcalories/internal/models"

// OnboardingDTO - ответы анкеты
type OnboardingDTO struct {
	UserID         int64
	WeightKg       float64
	HeightCm       int
	BodyFatPercent float64
	Gender         models.Gender
	DeficitMode    models.DeficitMode
}

// MealDTO - результат распознавания, который пишем в дневник
type MealDTO struct {
	UserID      int64
	Description string
	Calories    float64
	ProteinG    float64
	FatG        float64
	CarbsG      float64
}

type FavoriteDTO struct {
	UserID      int64
	Name        string
	Description string
	Calories    int
	ProteinG    float64
	FatG        float64
	CarbsG      float64
}

// ModeChange - что изменилось после смены режима
type ModeChange struct {
	OldMode        models.DeficitMode
	NewMode        models.DeficitMode
	OldDeficitKcal int
	NewDeficitKcal int
	OldTargets     Targets
	NewTargets     Targets
}

// CalorieDelta - изменение нормы калорий
func (m ModeChange) CalorieDelta() int {
	return m.NewTargets.Calories - m.OldTargets.Calories
}
