package db

import "gorm.io/gorm"

type Repositories struct {
	Users            *UserRepository
	OnboardingConfig *OnboardingConfigRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:            NewUserRepository(database),
		OnboardingConfig: NewOnboardingConfigRepository(database),
	}
}
