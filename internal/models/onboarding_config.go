package models

import "time"

const OnboardingConfigSingletonID uint = 1

// OnboardingConfigRecord is the single row holding the admin page assignment.
// ConfigData is JSON shaped like {"page2": [...], "page3": [...]}.
type OnboardingConfigRecord struct {
	ID         uint   `gorm:"primaryKey"`
	ConfigData string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}

func (OnboardingConfigRecord) TableName() string {
	return "onboarding_configurations"
}
