package services

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	aboutMeMinLength = 10
	zipCodeMinLength = 4
	zipCodeMaxLength = 10
)

const (
	MessageAboutMeRequired    = "About me is required."
	MessageAboutMeTooShort    = "Please tell us a bit more (at least 10 characters)."
	MessageAddressRequired    = "Address is required."
	MessageStreetRequired     = "Street address is required."
	MessageCityRequired       = "City is required."
	MessageStateRequired      = "State is required."
	MessageZipCodeTooShort    = "Zip code must be at least 4 digits."
	MessageZipCodeTooLong     = "Zip code too long."
	MessageBirthdateInvalid   = "Please select a valid date."
	MessageBirthdateNotInPast = "Birthdate must be in the past."
)

// fieldRule validates the raw value of one field and returns the typed
// value. Messages go to errs; ok is false when any were added.
type fieldRule func(raw any, env ruleEnv, errs *FieldErrors) (value any, ok bool)

type ruleEnv struct {
	now      time.Time
	location *time.Location
}

var fieldRules = map[FieldIdentifier]fieldRule{
	FieldAboutMe:   validateAboutMe,
	FieldAddress:   validateAddress,
	FieldBirthdate: validateBirthdate,
}

func validateAboutMe(raw any, _ ruleEnv, errs *FieldErrors) (any, bool) {
	text, present := raw.(string)
	if !present {
		errs.Add(FieldAboutMe, MessageAboutMeRequired)
		return nil, false
	}
	if utf8.RuneCountInString(text) < aboutMeMinLength {
		errs.Add(FieldAboutMe, MessageAboutMeTooShort)
		return nil, false
	}
	return text, true
}

func validateAddress(raw any, _ ruleEnv, errs *FieldErrors) (any, bool) {
	address, present := raw.(AddressValue)
	if !present {
		errs.Add(FieldAddress, MessageAddressRequired)
		return nil, false
	}

	ok := true
	if address.StreetAddress == "" {
		errs.AddAddress(AddressStreet, MessageStreetRequired)
		ok = false
	}
	if address.City == "" {
		errs.AddAddress(AddressCity, MessageCityRequired)
		ok = false
	}
	if address.State == "" {
		errs.AddAddress(AddressState, MessageStateRequired)
		ok = false
	}
	switch zipLength := utf8.RuneCountInString(address.ZipCode); {
	case zipLength < zipCodeMinLength:
		errs.AddAddress(AddressZip, MessageZipCodeTooShort)
		ok = false
	case zipLength > zipCodeMaxLength:
		errs.AddAddress(AddressZip, MessageZipCodeTooLong)
		ok = false
	}
	if !ok {
		return nil, false
	}
	return address, true
}

func validateBirthdate(raw any, env ruleEnv, errs *FieldErrors) (any, bool) {
	var birthdate time.Time
	switch value := raw.(type) {
	case time.Time:
		birthdate = value
	case string:
		parsed, err := parseBirthdate(value, env.location)
		if err != nil {
			errs.Add(FieldBirthdate, MessageBirthdateInvalid)
			return nil, false
		}
		birthdate = parsed
	default:
		errs.Add(FieldBirthdate, MessageBirthdateInvalid)
		return nil, false
	}

	if birthdate.IsZero() {
		errs.Add(FieldBirthdate, MessageBirthdateInvalid)
		return nil, false
	}
	if !birthdate.Before(env.now) {
		errs.Add(FieldBirthdate, MessageBirthdateNotInPast)
		return nil, false
	}
	return birthdate, true
}

// parseBirthdate accepts a calendar date (interpreted at midnight in
// location) or a full RFC 3339 timestamp.
func parseBirthdate(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if parsed, err := time.ParseInLocation("2006-01-02", trimmed, location); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}
