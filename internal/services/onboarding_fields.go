package services

import (
	"fmt"
	"strings"
)

// FieldIdentifier names one of the profile fields an administrator can place
// on onboarding page 2 or page 3. The set is closed.
type FieldIdentifier string

const (
	FieldAboutMe   FieldIdentifier = "aboutMe"
	FieldAddress   FieldIdentifier = "address"
	FieldBirthdate FieldIdentifier = "birthdate"
)

// AllOnboardingFields returns the closed field set in canonical order.
func AllOnboardingFields() []FieldIdentifier {
	return []FieldIdentifier{FieldAboutMe, FieldAddress, FieldBirthdate}
}

func ParseFieldIdentifier(raw string) (FieldIdentifier, error) {
	candidate := FieldIdentifier(strings.TrimSpace(raw))
	if !candidate.Valid() {
		return "", fmt.Errorf("unknown onboarding field %q", raw)
	}
	return candidate, nil
}

func (field FieldIdentifier) Valid() bool {
	switch field {
	case FieldAboutMe, FieldAddress, FieldBirthdate:
		return true
	default:
		return false
	}
}

func (field FieldIdentifier) String() string {
	return string(field)
}

func joinFieldIdentifiers(fields []FieldIdentifier) string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.String())
	}
	return strings.Join(names, ", ")
}
