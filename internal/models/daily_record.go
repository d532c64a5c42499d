package models

import "time"

// DailyRecord - вес и шаги за день. Одна запись на (UserID, Date)
type DailyRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_daily_user_date;not null" json:"user_id"`
	Date      string    `gorm:"size:10;uniqueIndex:idx_daily_user_date;not null" json:"date"` // YYYY-MM-DD
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	StepCount *int      `json:"step_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BurnedCalories - дополнительная активность за день, последнее значение побеждает
type BurnedCalories struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_burn_user_date;not null" json:"user_id"`
	Date      string    `gorm:"size:10;uniqueIndex:idx_burn_user_date;not null" json:"date"`
	Calories  int       `gorm:"not null" json:"calories"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BurnedCalories) TableName() string { return "burned_calories" }
