package models

import "time"

// MealEntry - приём пищи. Удаляется физически, без soft delete
type MealEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index:idx_meal_user_date;not null" json:"user_id"`
	Date        string    `gorm:"size:10;index:idx_meal_user_date;not null" json:"date"`
	Description string    `gorm:"type:text" json:"description"`
	Calories    int       `json:"calories"`
	ProteinG    float64   `json:"protein_g"`
	FatG        float64   `json:"fat_g"`
	CarbsG      float64   `json:"carbs_g"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"` // всегда UTC
}

// FavoriteMeal - любимое блюдо, имя уникально в пределах пользователя
type FavoriteMeal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"uniqueIndex:idx_fav_user_name;not null" json:"user_id"`
	Name        string    `gorm:"size:255;uniqueIndex:idx_fav_user_name;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Calories    int       `json:"calories"`
	ProteinG    float64   `json:"protein_g"`
	FatG        float64   `json:"fat_g"`
	CarbsG      float64   `json:"carbs_g"`
	UsageCount  int       `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
