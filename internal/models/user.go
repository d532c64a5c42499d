package models

import "gorm.io/gorm"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// DeficitMode - режим похудения
type DeficitMode string

const (
	DeficitLight   DeficitMode = "light"
	DeficitMedium  DeficitMode = "medium"
	DeficitExtreme DeficitMode = "extreme"
)

// Kcal возвращает дефицит калорий режима; ok=false для неизвестного режима
func (m DeficitMode) Kcal() (int, bool) {
	switch m {
	case DeficitLight:
		return 0, true
	case DeficitMedium:
		return 500, true
	case DeficitExtreme:
		return 750, true
	}
	return 0, false
}

// UserProfile - анкета пользователя, заполняется при онбординге
type UserProfile struct {
	gorm.Model
	UserID         int64       `gorm:"uniqueIndex;not null" json:"user_id"` // Telegram ID
	WeightKg       float64     `gorm:"not null" json:"weight_kg"`
	HeightCm       int         `gorm:"not null" json:"height_cm"`
	BodyFatPercent float64     `gorm:"not null" json:"body_fat_percent"`
	Gender         Gender      `gorm:"size:10" json:"gender"`
	DeficitMode    DeficitMode `gorm:"size:10;default:'light'" json:"deficit_mode"`
}
