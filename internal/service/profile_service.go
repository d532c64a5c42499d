package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Onboard - сохранить анкету после выбора режима
func (s *ProfileService) Onboard(ctx context.Context, dto OnboardingDTO) (*models.UserProfile, error) {
	if dto.HeightCm <= 0 {
		return nil, fmt.Errorf("%w: height %d", ErrInvalidProfile, dto.HeightCm)
	}
	if dto.Gender != models.GenderMale && dto.Gender != models.GenderFemale {
		return nil, fmt.Errorf("%w: gender %q", ErrInvalidProfile, dto.Gender)
	}
	deficit, ok := dto.DeficitMode.Kcal()
	if !ok {
		return nil, fmt.Errorf("%w: deficit mode %q", ErrInvalidProfile, dto.DeficitMode)
	}
	if _, err := CalculateTargets(dto.WeightKg, dto.BodyFatPercent, deficit); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:         dto.UserID,
		WeightKg:       dto.WeightKg,
		HeightCm:       dto.HeightCm,
		BodyFatPercent: dto.BodyFatPercent,
		Gender:         dto.Gender,
		DeficitMode:    dto.DeficitMode,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Get возвращает ErrNoProfile, если анкеты нет
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoProfile
	}
	return profile, err
}

func (s *ProfileService) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.Get(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoProfile):
		return false, nil
	}
	return false, err
}

// Targets - норма пользователя, без анкеты DefaultTargets
func (s *ProfileService) Targets(ctx context.Context, userID int64) (Targets, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return Targets{}, err
	}
	return TargetsFor(profile)
}

// ChangeDeficitMode меняет режим и возвращает старую и новую норму
func (s *ProfileService) ChangeDeficitMode(ctx context.Context, userID int64, mode models.DeficitMode) (ModeChange, error) {
	newDeficit, ok := mode.Kcal()
	if !ok {
		return ModeChange{}, fmt.Errorf("%w: deficit mode %q", ErrInvalidInput, mode)
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return ModeChange{}, err
	}
	oldTargets, err := TargetsFor(profile)
	if err != nil {
		return ModeChange{}, err
	}
	oldDeficit, _ := profile.DeficitMode.Kcal()

	if err := s.repo.UpdateDeficitMode(ctx, userID, mode); err != nil {
		return ModeChange{}, err
	}

	updated := *profile
	updated.DeficitMode = mode
	newTargets, err := TargetsFor(&updated)
	if err != nil {
		return ModeChange{}, err
	}

	return ModeChange{
		OldMode:        profile.DeficitMode,
		NewMode:        mode,
		OldDeficitKcal: oldDeficit,
		NewDeficitKcal: newDeficit,
		OldTargets:     oldTargets,
		NewTargets:     newTargets,
	}, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.UserProfile, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProfileService) ListUserIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListUserIDs(ctx)
}

func (s *ProfileService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
