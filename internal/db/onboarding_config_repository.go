package db

import (
	"context"
	"time"

	"github.com/terraincognita07/onboardly/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OnboardingConfigRepository struct {
	database *gorm.DB
}

func NewOnboardingConfigRepository(database *gorm.DB) *OnboardingConfigRepository {
	return &OnboardingConfigRepository{database: database}
}

// FindSingleton returns gorm.ErrRecordNotFound when no configuration was ever stored.
func (repo *OnboardingConfigRepository) FindSingleton(ctx context.Context) (models.OnboardingConfigRecord, error) {
	var record models.OnboardingConfigRecord
	if err := repo.database.WithContext(ctx).First(&record, models.OnboardingConfigSingletonID).Error; err != nil {
		return models.OnboardingConfigRecord{}, err
	}
	return record, nil
}

// UpsertSingleton creates or overwrites the singleton row. Concurrent writers
// race and the last one wins.
func (repo *OnboardingConfigRepository) UpsertSingleton(ctx context.Context, configData string) error {
	record := models.OnboardingConfigRecord{
		ID:         models.OnboardingConfigSingletonID,
		ConfigData: configData,
		UpdatedAt:  time.Now().UTC(),
	}
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_data", "updated_at"}),
	}).Create(&record).Error
}

func (repo *OnboardingConfigRepository) DeleteSingleton(ctx context.Context) error {
	return repo.database.WithContext(ctx).Delete(&models.OnboardingConfigRecord{}, models.OnboardingConfigSingletonID).Error
}
