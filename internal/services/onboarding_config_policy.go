package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	PageTwo   = "2"
	PageThree = "3"
)

const (
	MessagePage2Empty           = "Page 2 must have at least one field."
	MessagePage3Empty           = "Page 3 must have at least one field."
	MessageFieldOnMultiplePages = "Fields cannot be assigned to multiple pages."
	MessageAssignmentChoice     = "Select page 2 or page 3."
	MessageBothPagesRequired    = "Both Page 2 and Page 3 must have at least one field assigned."
)

// OnboardingConfiguration assigns every field to exactly one of the two
// configurable pages. Values returned by this package are always valid.
type OnboardingConfiguration struct {
	Page2 []FieldIdentifier `json:"page2"`
	Page3 []FieldIdentifier `json:"page3"`
}

// RawOnboardingConfiguration is an unchecked candidate, as decoded from the
// store or built from admin input.
type RawOnboardingConfiguration struct {
	Page2 []string `json:"page2"`
	Page3 []string `json:"page3"`
}

// ConfigValidationError lists every structural problem found by the first
// failing check. FieldErrors is only set for the admin assignment form.
type ConfigValidationError struct {
	Messages    []string
	FieldErrors map[string][]string
}

func (err *ConfigValidationError) Error() string {
	return "invalid onboarding configuration: " + strings.Join(err.Messages, " ")
}

func DefaultOnboardingConfiguration() OnboardingConfiguration {
	return OnboardingConfiguration{
		Page2: []FieldIdentifier{FieldAboutMe, FieldAddress},
		Page3: []FieldIdentifier{FieldBirthdate},
	}
}

func messageAllFieldsAssigned() string {
	return fmt.Sprintf("All fields (%s) must be assigned exactly once.", joinFieldIdentifiers(AllOnboardingFields()))
}

// FieldsForStep returns the fields rendered on the given wizard step. Steps
// other than 2 and 3 have none.
func (config OnboardingConfiguration) FieldsForStep(step int) []FieldIdentifier {
	switch step {
	case 2:
		return append([]FieldIdentifier(nil), config.Page2...)
	case 3:
		return append([]FieldIdentifier(nil), config.Page3...)
	default:
		return nil
	}
}

// PageOf reports the page ("2" or "3") a field is assigned to.
func (config OnboardingConfiguration) PageOf(field FieldIdentifier) string {
	for _, candidate := range config.Page3 {
		if candidate == field {
			return PageThree
		}
	}
	return PageTwo
}

func (config OnboardingConfiguration) Raw() RawOnboardingConfiguration {
	raw := RawOnboardingConfiguration{
		Page2: make([]string, 0, len(config.Page2)),
		Page3: make([]string, 0, len(config.Page3)),
	}
	for _, field := range config.Page2 {
		raw.Page2 = append(raw.Page2, field.String())
	}
	for _, field := range config.Page3 {
		raw.Page3 = append(raw.Page3, field.String())
	}
	return raw
}

func (config OnboardingConfiguration) MarshalConfigData() (string, error) {
	encoded, err := json.Marshal(config.Raw())
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// ParseOnboardingConfiguration decodes stored JSON and validates it.
func ParseOnboardingConfiguration(configData string) (OnboardingConfiguration, error) {
	raw := RawOnboardingConfiguration{}
	if err := json.Unmarshal([]byte(configData), &raw); err != nil {
		return OnboardingConfiguration{}, &ConfigValidationError{
			Messages: []string{fmt.Sprintf("Stored configuration is not valid JSON: %v.", err)},
		}
	}
	return ValidateOnboardingConfiguration(raw)
}

// ValidateOnboardingConfiguration checks, in order: both pages non-empty and
// made of known fields, no field on more than one page (or twice on one), and
// every field assigned.
func ValidateOnboardingConfiguration(candidate RawOnboardingConfiguration) (OnboardingConfiguration, error) {
	messages := make([]string, 0)
	if len(candidate.Page2) == 0 {
		messages = append(messages, MessagePage2Empty)
	}
	if len(candidate.Page3) == 0 {
		messages = append(messages, MessagePage3Empty)
	}
	page2, unknown2 := parseFieldList(candidate.Page2)
	page3, unknown3 := parseFieldList(candidate.Page3)
	for _, name := range append(unknown2, unknown3...) {
		messages = append(messages, fmt.Sprintf("Unknown onboarding field %q.", name))
	}
	if len(messages) > 0 {
		return OnboardingConfiguration{}, &ConfigValidationError{Messages: messages}
	}

	seen := make(map[FieldIdentifier]struct{}, len(page2)+len(page3))
	for _, field := range append(append([]FieldIdentifier(nil), page2...), page3...) {
		seen[field] = struct{}{}
	}
	if len(seen) != len(page2)+len(page3) {
		return OnboardingConfiguration{}, &ConfigValidationError{Messages: []string{MessageFieldOnMultiplePages}}
	}

	for _, field := range AllOnboardingFields() {
		if _, ok := seen[field]; !ok {
			return OnboardingConfiguration{}, &ConfigValidationError{Messages: []string{messageAllFieldsAssigned()}}
		}
	}

	return OnboardingConfiguration{Page2: page2, Page3: page3}, nil
}

// ValidatePageAssignments checks the admin form shape, one "2" or "3" per
// field, and converts it into page sequences in canonical field order. The
// both-pages refinement only runs once every field holds a valid choice.
func ValidatePageAssignments(assignments map[string]string) (RawOnboardingConfiguration, error) {
	fieldErrors := map[string][]string{}
	for _, field := range AllOnboardingFields() {
		switch strings.TrimSpace(assignments[field.String()]) {
		case PageTwo, PageThree:
		default:
			fieldErrors[field.String()] = []string{MessageAssignmentChoice}
		}
	}
	if len(fieldErrors) > 0 {
		return RawOnboardingConfiguration{}, &ConfigValidationError{FieldErrors: fieldErrors}
	}

	raw := RawOnboardingConfiguration{Page2: []string{}, Page3: []string{}}
	for _, field := range AllOnboardingFields() {
		if strings.TrimSpace(assignments[field.String()]) == PageTwo {
			raw.Page2 = append(raw.Page2, field.String())
		} else {
			raw.Page3 = append(raw.Page3, field.String())
		}
	}
	if len(raw.Page2) == 0 || len(raw.Page3) == 0 {
		return RawOnboardingConfiguration{}, &ConfigValidationError{Messages: []string{MessageBothPagesRequired}}
	}
	return raw, nil
}

func parseFieldList(names []string) ([]FieldIdentifier, []string) {
	fields := make([]FieldIdentifier, 0, len(names))
	unknown := make([]string, 0)
	for _, name := range names {
		field, err := ParseFieldIdentifier(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		fields = append(fields, field)
	}
	return fields, unknown
}
