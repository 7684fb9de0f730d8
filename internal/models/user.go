package models

import "time"

const InitialOnboardingStep = 1

// User stores the account created on step 1 and the profile collected on the
// configurable steps. Address parts are flat columns; the composite address
// only exists while a step is validated.
type User struct {
	ID             string    `gorm:"primaryKey;type:text"`
	Email          string    `gorm:"uniqueIndex;not null"`
	Password       string    `gorm:"not null"`
	OnboardingStep int       `gorm:"not null;default:1"`
	AboutMe        *string
	StreetAddress  *string
	City           *string
	State          *string
	ZipCode        *string
	Birthdate      *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}
