package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

const MinFavoriteNameLen = 2

// MealService - дневник питания и любимые блюда
type MealService struct {
	meals     repository.MealRepository
	favorites repository.FavoriteRepository
	clock     Clock
}

func NewMealService(meals repository.MealRepository, favorites repository.FavoriteRepository, clock Clock) *MealService {
	return &MealService{meals: meals, favorites: favorites, clock: clock}
}

// AddMeal - записать распознанный приём пищи на сегодня
func (s *MealService) AddMeal(ctx context.Context, dto MealDTO) (*models.MealEntry, error) {
	if dto.Calories < 0 || dto.ProteinG < 0 || dto.FatG < 0 || dto.CarbsG < 0 {
		return nil, fmt.Errorf("%w: negative nutrition values", ErrInvalidInput)
	}

	now := s.clock.Now()
	meal := &models.MealEntry{
		UserID:      dto.UserID,
		Date:        now.Format(DateLayout),
		Description: dto.Description,
		Calories:    round(dto.Calories),
		ProteinG:    round1(dto.ProteinG),
		FatG:        round1(dto.FatG),
		CarbsG:      round1(dto.CarbsG),
		CreatedAt:   now,
	}
	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) MealsOn(ctx context.Context, userID int64, date string) ([]models.MealEntry, error) {
	return s.meals.ListByDate(ctx, userID, date)
}

func (s *MealService) GetMeal(ctx context.Context, userID int64, id uint) (*models.MealEntry, error) {
	return s.meals.FindByID(ctx, userID, id)
}

func (s *MealService) DeleteMeal(ctx context.Context, userID int64, id uint) error {
	return s.meals.Delete(ctx, userID, id)
}

// HasMealsInHours - был ли приём пищи в date между fromHour:00 и toHour:59 включительно
func (s *MealService) HasMealsInHours(ctx context.Context, userID int64, date string, fromHour, toHour int) (bool, error) {
	from, to, err := s.clock.HourRange(date, fromHour, toHour)
	if err != nil {
		return false, err
	}
	return s.meals.ExistsBetween(ctx, userID, from, to)
}

// NormalizeFavoriteName обрезает пробелы и проверяет длину
func NormalizeFavoriteName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinFavoriteNameLen {
		return "", fmt.Errorf("%w: favorite name too short", ErrInvalidInput)
	}
	return name, nil
}

// SaveFavorite - дубликат имени не перезаписывает существующее блюдо
func (s *MealService) SaveFavorite(ctx context.Context, dto FavoriteDTO) (*models.FavoriteMeal, error) {
	name, err := NormalizeFavoriteName(dto.Name)
	if err != nil {
		return nil, err
	}

	fav := &models.FavoriteMeal{
		UserID:      dto.UserID,
		Name:        name,
		Description: dto.Description,
		Calories:    dto.Calories,
		ProteinG:    dto.ProteinG,
		FatG:        dto.FatG,
		CarbsG:      dto.CarbsG,
	}
	if err := s.favorites.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFavorite
		}
		return nil, err
	}
	return fav, nil
}

func (s *MealService) ListFavorites(ctx context.Context, userID int64) ([]models.FavoriteMeal, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// UseFavorite добавляет любимое блюдо в дневник на сегодня
func (s *MealService) UseFavorite(ctx context.Context, userID int64, favoriteID uint) (*models.MealEntry, error) {
	now := s.clock.Now()
	return s.favorites.Use(ctx, userID, favoriteID, now.Format(DateLayout), now)
}

func (s *MealService) DeleteFavorite(ctx context.Context, userID int64, favoriteID uint) error {
	return s.favorites.Delete(ctx, userID, favoriteID)
}
