package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

type FavoriteRepository interface {
	// Create возвращает ErrDuplicate, если имя уже занято
	Create(ctx context.Context, fav *models.FavoriteMeal) error
	ListByUser(ctx context.Context, userID int64) ([]models.FavoriteMeal, error)
	FindByID(ctx context.Context, userID int64, id uint) (*models.FavoriteMeal, error)
	// Use в одной транзакции добавляет блюдо в дневник и увеличивает usage_count
	Use(ctx context.Context, userID int64, id uint, date string, at time.Time) (*models.MealEntry, error)
	Delete(ctx context.Context, userID int64, id uint) error
}

type favoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Create(ctx context.Context, fav *models.FavoriteMeal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FavoriteMeal{}).
			Where("user_id = ? AND name = ?", fav.UserID, fav.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(fav).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

// ListByUser - сначала самые используемые, потом по имени
func (r *favoriteRepo) ListByUser(ctx context.Context, userID int64) ([]models.FavoriteMeal, error) {
	var favs []models.FavoriteMeal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("usage_count DESC, name ASC").
		Find(&favs).Error
	return favs, err
}

func (r *favoriteRepo) FindByID(ctx context.Context, userID int64, id uint) (*models.FavoriteMeal, error) {
	var fav models.FavoriteMeal
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&fav).Error
	if err != nil {
		return nil, translate(err)
	}
	return &fav, nil
}

func (r *favoriteRepo) Use(ctx context.Context, userID int64, id uint, date string, at time.Time) (*models.MealEntry, error) {
	var meal *models.MealEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fav models.FavoriteMeal
		if err := tx.Where("user_id = ? AND id = ?", userID, id).First(&fav).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&models.FavoriteMeal{}).
			Where("id = ?", fav.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return fmt.Errorf("increment usage of favorite %d: %w", fav.ID, err)
		}

		meal = &models.MealEntry{
			UserID:      userID,
			Date:        date,
			Description: fav.Name,
			Calories:    fav.Calories,
			ProteinG:    fav.ProteinG,
			FatG:        fav.FatG,
			CarbsG:      fav.CarbsG,
			CreatedAt:   at.UTC(),
		}
		return tx.Create(meal).Error
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

func (r *favoriteRepo) Delete(ctx context.Context, userID int64, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.FavoriteMeal{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete favorite %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
