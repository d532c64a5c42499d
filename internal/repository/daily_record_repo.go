package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

// DailyRecordRepository - вес и шаги. Запись веса не трогает шаги и наоборот
type DailyRecordRepository interface {
	UpsertWeight(ctx context.Context, userID int64, date string, weightKg float64) error
	UpsertSteps(ctx context.Context, userID int64, date string, steps int) error
	FindByDate(ctx context.Context, userID int64, date string) (*models.DailyRecord, error)
	// LastWeight - последний вес на любую дату, кроме excludeDate
	LastWeight(ctx context.Context, userID int64, excludeDate string) (float64, bool, error)
	ListRange(ctx context.Context, userID int64, from, to string) ([]models.DailyRecord, error)
}

type dailyRecordRepo struct {
	db *gorm.DB
}

func NewDailyRecordRepo(db *gorm.DB) DailyRecordRepository {
	return &dailyRecordRepo{db: db}
}

func (r *dailyRecordRepo) UpsertWeight(ctx context.Context, userID int64, date string, weightKg float64) error {
	rec := models.DailyRecord{UserID: userID, Date: date, WeightKg: &weightKg}
	return r.upsert(ctx, &rec, "weight_kg")
}

func (r *dailyRecordRepo) UpsertSteps(ctx context.Context, userID int64, date string, steps int) error {
	rec := models.DailyRecord{UserID: userID, Date: date, StepCount: &steps}
	return r.upsert(ctx, &rec, "step_count")
}

func (r *dailyRecordRepo) upsert(ctx context.Context, rec *models.DailyRecord, column string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("upsert %s for %d/%s: %w", column, rec.UserID, rec.Date, err)
	}
	return nil
}

func (r *dailyRecordRepo) FindByDate(ctx context.Context, userID int64, date string) (*models.DailyRecord, error) {
	var rec models.DailyRecord
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *dailyRecordRepo) LastWeight(ctx context.Context, userID int64, excludeDate string) (float64, bool, error) {
	var recs []models.DailyRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date <> ? AND weight_kg IS NOT NULL", userID, excludeDate).
		Order("date DESC").
		Limit(1).
		Find(&recs).Error
	if err != nil {
		return 0, false, err
	}
	if len(recs) == 0 || recs[0].WeightKg == nil {
		return 0, false, nil
	}
	return *recs[0].WeightKg, true, nil
}

func (r *dailyRecordRepo) ListRange(ctx context.Context, userID int64, from, to string) ([]models.DailyRecord, error) {
	var recs []models.DailyRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&recs).Error
	return recs, err
}
