package services

import (
	"errors"
	"time"
)

// StepFormInput holds the raw submitted values keyed by form input name
// (aboutMe, birthdate, streetAddress, city, state, zipCode). A missing key
// means the input was not submitted at all.
type StepFormInput map[string]string

// StepCandidate is the structured value validated by a StepSchema: a string
// for aboutMe, an AddressValue for address, a string or time.Time for
// birthdate. Absent keys are treated as missing values.
type StepCandidate map[FieldIdentifier]any

// StepValues holds the validated values of the fields active on a step.
type StepValues struct {
	AboutMe   *string
	Address   *AddressValue
	Birthdate *time.Time
}

type FieldValidationError struct {
	Fields *FieldErrors
}

func (err *FieldValidationError) Error() string {
	return "invalid form data for this step"
}

func AsFieldValidationError(err error) (*FieldValidationError, bool) {
	var fieldErr *FieldValidationError
	if errors.As(err, &fieldErr) {
		return fieldErr, true
	}
	return nil, false
}

// StepSchema validates exactly the fields assigned to one onboarding step.
type StepSchema struct {
	fields []FieldIdentifier
	rules  map[FieldIdentifier]fieldRule
}

// BuildStepSchema composes a schema from the registry rules of fields.
// Unknown identifiers and duplicates are dropped; order is kept for display.
func BuildStepSchema(fields []FieldIdentifier) StepSchema {
	schema := StepSchema{
		fields: make([]FieldIdentifier, 0, len(fields)),
		rules:  make(map[FieldIdentifier]fieldRule, len(fields)),
	}
	for _, field := range fields {
		rule, known := fieldRules[field]
		if !known {
			continue
		}
		if _, seen := schema.rules[field]; seen {
			continue
		}
		schema.rules[field] = rule
		schema.fields = append(schema.fields, field)
	}
	return schema
}

func (schema StepSchema) Fields() []FieldIdentifier {
	return append([]FieldIdentifier(nil), schema.fields...)
}

func (schema StepSchema) Has(field FieldIdentifier) bool {
	_, ok := schema.rules[field]
	return ok
}

// CandidateFromForm reassembles raw form input into the structured
// candidate. Only fields in the schema are read; the address parts are
// gathered into one AddressValue.
func (schema StepSchema) CandidateFromForm(input StepFormInput) StepCandidate {
	candidate := make(StepCandidate, len(schema.fields))
	for _, field := range schema.fields {
		switch field {
		case FieldAddress:
			if address, ok := AddressFromForm(input); ok {
				candidate[FieldAddress] = address
			}
		default:
			if value, ok := input[field.String()]; ok {
				candidate[field] = value
			}
		}
	}
	return candidate
}

// Validate runs every rule independently and reports all failures at once.
// Values for fields outside the schema are ignored.
func (schema StepSchema) Validate(candidate StepCandidate, now time.Time, location *time.Location) (StepValues, error) {
	env := ruleEnv{now: now, location: location}
	errs := NewFieldErrors()
	values := StepValues{}

	for _, field := range schema.fields {
		value, ok := schema.rules[field](candidate[field], env, errs)
		if !ok {
			continue
		}
		switch typed := value.(type) {
		case string:
			values.AboutMe = &typed
		case AddressValue:
			values.Address = &typed
		case time.Time:
			values.Birthdate = &typed
		}
	}

	if !errs.Empty() {
		return StepValues{}, &FieldValidationError{Fields: errs}
	}
	return values, nil
}

// Columns flattens validated values into user table columns.
func (values StepValues) Columns() map[string]any {
	columns := map[string]any{}
	if values.AboutMe != nil {
		columns["about_me"] = *values.AboutMe
	}
	if values.Address != nil {
		for column, value := range values.Address.Columns() {
			columns[column] = value
		}
	}
	if values.Birthdate != nil {
		columns["birthdate"] = *values.Birthdate
	}
	return columns
}
