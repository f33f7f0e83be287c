package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("nutrition profile not found")

// ProfileService handles nutrition profile reads and writes. Derived fields
// are recomputed on every save via ApplyGoals.
type ProfileService struct {
	db *gorm.DB
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's nutrition profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.NutritionProfile, error) {
	var profile models.NutritionProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// SaveProfile upserts a profile. Profiles are never deleted, only
// overwritten; the calorie goal and macro targets are recomputed from the
// incoming snapshot before the write.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *models.NutritionProfile) (*models.NutritionProfile, error) {
	ApplyGoals(profile)

	var existing models.NutritionProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
			return nil, err
		}
	}
	return profile, nil
}
