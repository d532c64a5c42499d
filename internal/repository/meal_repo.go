package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

// MealTotals - сумма КБЖУ за день
type MealTotals struct {
	Count    int64
	Calories int
	ProteinG float64
	FatG     float64
	CarbsG   float64
}

type MealRepository interface {
	Create(ctx context.Context, meal *models.MealEntry) error
	FindByID(ctx context.Context, userID int64, id uint) (*models.MealEntry, error)
	ListByDate(ctx context.Context, userID int64, date string) ([]models.MealEntry, error)
	ListRange(ctx context.Context, userID int64, from, to string) ([]models.MealEntry, error)
	Delete(ctx context.Context, userID int64, id uint) error
	SumByDate(ctx context.Context, userID int64, date string) (MealTotals, error)
	// ExistsBetween - есть ли приём пищи с createdAt в [from, to)
	ExistsBetween(ctx context.Context, userID int64, from, to time.Time) (bool, error)
}

type mealRepo struct {
	db *gorm.DB
}

func NewMealRepo(db *gorm.DB) MealRepository {
	return &mealRepo{db: db}
}

func (r *mealRepo) Create(ctx context.Context, meal *models.MealEntry) error {
	meal.CreatedAt = meal.CreatedAt.UTC()
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return fmt.Errorf("create meal for %d: %w", meal.UserID, err)
	}
	return nil
}

func (r *mealRepo) FindByID(ctx context.Context, userID int64, id uint) (*models.MealEntry, error) {
	var meal models.MealEntry
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&meal).Error
	if err != nil {
		return nil, translate(err)
	}
	return &meal, nil
}

func (r *mealRepo) ListByDate(ctx context.Context, userID int64, date string) ([]models.MealEntry, error) {
	var meals []models.MealEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at, id").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepo) ListRange(ctx context.Context, userID int64, from, to string) ([]models.MealEntry, error) {
	var meals []models.MealEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date, created_at").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepo) Delete(ctx context.Context, userID int64, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.MealEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete meal %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mealRepo) SumByDate(ctx context.Context, userID int64, date string) (MealTotals, error) {
	var totals MealTotals
	err := r.db.WithContext(ctx).
		Model(&models.MealEntry{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(calories), 0) AS calories,
			COALESCE(SUM(protein_g), 0) AS protein_g,
			COALESCE(SUM(fat_g), 0) AS fat_g,
			COALESCE(SUM(carbs_g), 0) AS carbs_g`).
		Where("user_id = ? AND date = ?", userID, date).
		Scan(&totals).Error
	return totals, err
}

func (r *mealRepo) ExistsBetween(ctx context.Context, userID int64, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MealEntry{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from.UTC(), to.UTC()).
		Count(&count).Error
	return count > 0, err
}
