package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

type BurnRepository interface {
	Upsert(ctx context.Context, userID int64, date string, calories int) error
	// FindByDate возвращает 0, если за день ничего не вводили
	FindByDate(ctx context.Context, userID int64, date string) (int, error)
	ListRange(ctx context.Context, userID int64, from, to string) ([]models.BurnedCalories, error)
}

type burnRepo struct {
	db *gorm.DB
}

func NewBurnRepo(db *gorm.DB) BurnRepository {
	return &burnRepo{db: db}
}

func (r *burnRepo) Upsert(ctx context.Context, userID int64, date string, calories int) error {
	rec := models.BurnedCalories{UserID: userID, Date: date, Calories: calories}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"calories", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert burned calories for %d/%s: %w", userID, date, err)
	}
	return nil
}

func (r *burnRepo) FindByDate(ctx context.Context, userID int64, date string) (int, error) {
	var recs []models.BurnedCalories
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).Limit(1).Find(&recs).Error
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	return recs[0].Calories, nil
}

func (r *burnRepo) ListRange(ctx context.Context, userID int64, from, to string) ([]models.BurnedCalories, error) {
	var recs []models.BurnedCalories
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&recs).Error
	return recs, err
}
