package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.UserProfile) error
	FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	FindAll(ctx context.Context) ([]*models.UserProfile, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	UpdateWeight(ctx context.Context, userID int64, weightKg float64) error
	UpdateDeficitMode(ctx context.Context, userID int64, mode models.DeficitMode) error
	Count(ctx context.Context) (int64, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

// Upsert - повторный онбординг перезаписывает анкету
func (r *profileRepo) Upsert(ctx context.Context, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weight_kg", "height_cm", "body_fat_percent", "gender", "deficit_mode", "updated_at", "deleted_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("upsert profile %d: %w", profile.UserID, err)
	}
	return nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepo) FindAll(ctx context.Context) ([]*models.UserProfile, error) {
	var profiles []*models.UserProfile
	err := r.db.WithContext(ctx).Order("user_id").Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Order("user_id").Pluck("user_id", &ids).Error
	return ids, err
}

func (r *profileRepo) UpdateWeight(ctx context.Context, userID int64, weightKg float64) error {
	return r.updateColumn(ctx, userID, "weight_kg", weightKg)
}

func (r *profileRepo) UpdateDeficitMode(ctx context.Context, userID int64, mode models.DeficitMode) error {
	return r.updateColumn(ctx, userID, "deficit_mode", mode)
}

func (r *profileRepo) updateColumn(ctx context.Context, userID int64, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("user_id = ?", userID).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("update %s for %d: %w", column, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Count(&count).Error
	return count, err
}
