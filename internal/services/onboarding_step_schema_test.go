package services

import (
	"encoding/json"
	"testing"
	"time"
)

var schemaTestNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func validateForm(t *testing.T, fields []FieldIdentifier, input StepFormInput) (StepValues, *FieldErrors) {
	t.Helper()
	schema := BuildStepSchema(fields)
	values, err := schema.Validate(schema.CandidateFromForm(input), schemaTestNow, time.UTC)
	if err == nil {
		return values, nil
	}
	fieldErr, ok := AsFieldValidationError(err)
	if !ok {
		t.Fatalf("expected FieldValidationError, got %T %v", err, err)
	}
	return values, fieldErr.Fields
}

func TestStepSchema_AboutMeMinimumLength(t *testing.T) {
	_, errs := validateForm(t, []FieldIdentifier{FieldAboutMe}, StepFormInput{"aboutMe": "too short"})
	if got := errs.Field(FieldAboutMe); len(got) != 1 || got[0] != MessageAboutMeTooShort {
		t.Fatalf("expected too-short error, got %v", got)
	}

	values, errs := validateForm(t, []FieldIdentifier{FieldAboutMe}, StepFormInput{"aboutMe": "ten chars!"})
	if errs != nil {
		t.Fatalf("expected 10 characters to pass, got %v", errs.Map())
	}
	if values.AboutMe == nil || *values.AboutMe != "ten chars!" {
		t.Fatalf("unexpected aboutMe value: %v", values.AboutMe)
	}
}

func TestStepSchema_AddressZipCodeLength(t *testing.T) {
	input := StepFormInput{"streetAddress": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "12"}
	_, errs := validateForm(t, []FieldIdentifier{FieldAddress}, input)
	if got := errs.AddressField(AddressZip); len(got) != 1 || got[0] != MessageZipCodeTooShort {
		t.Fatalf("expected zip too short, got %v", got)
	}

	input["zipCode"] = "12345678901"
	_, errs = validateForm(t, []FieldIdentifier{FieldAddress}, input)
	if got := errs.AddressField(AddressZip); len(got) != 1 || got[0] != MessageZipCodeTooLong {
		t.Fatalf("expected zip too long, got %v", got)
	}

	input["zipCode"] = "90210"
	values, errs := validateForm(t, []FieldIdentifier{FieldAddress}, input)
	if errs != nil {
		t.Fatalf("expected valid address, got %v", errs.Map())
	}
	if values.Address == nil || values.Address.ZipCode != "90210" {
		t.Fatalf("unexpected address value: %+v", values.Address)
	}
}

func TestStepSchema_AddressReportsEverySubField(t *testing.T) {
	_, errs := validateForm(t, []FieldIdentifier{FieldAddress}, StepFormInput{"zipCode": "1"})
	for _, subField := range []string{AddressStreet, AddressCity, AddressState, AddressZip} {
		if len(errs.AddressField(subField)) != 1 {
			t.Fatalf("expected one error on %s, got %v", subField, errs.AddressField(subField))
		}
	}

	encoded, err := json.Marshal(errs)
	if err != nil {
		t.Fatalf("marshal field errors: %v", err)
	}
	decoded := map[string]map[string][]string{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("expected nested address errors, got %s", encoded)
	}
	if decoded["address"]["city"][0] != MessageCityRequired {
		t.Fatalf("unexpected nested payload: %s", encoded)
	}
}

func TestStepSchema_MissingAddressIsRequired(t *testing.T) {
	_, errs := validateForm(t, []FieldIdentifier{FieldAddress}, StepFormInput{})
	if got := errs.Field(FieldAddress); len(got) != 1 || got[0] != MessageAddressRequired {
		t.Fatalf("expected address required, got %v", got)
	}
	nested, ok := errs.Map()["address"].(map[string][]string)
	if !ok || nested["_errors"][0] != MessageAddressRequired {
		t.Fatalf("expected address-level error under _errors, got %v", errs.Map())
	}
}

func TestStepSchema_BirthdateMustBeInThePast(t *testing.T) {
	tomorrow := schemaTestNow.AddDate(0, 0, 1).Format("2006-01-02")
	_, errs := validateForm(t, []FieldIdentifier{FieldBirthdate}, StepFormInput{"birthdate": tomorrow})
	if got := errs.Field(FieldBirthdate); len(got) != 1 || got[0] != MessageBirthdateNotInPast {
		t.Fatalf("expected not-in-past error, got %v", got)
	}

	_, errs = validateForm(t, []FieldIdentifier{FieldBirthdate}, StepFormInput{"birthdate": "not a date"})
	if got := errs.Field(FieldBirthdate); len(got) != 1 || got[0] != MessageBirthdateInvalid {
		t.Fatalf("expected invalid date error, got %v", got)
	}

	yesterday := schemaTestNow.AddDate(0, 0, -1).Format("2006-01-02")
	values, errs := validateForm(t, []FieldIdentifier{FieldBirthdate}, StepFormInput{"birthdate": yesterday})
	if errs != nil {
		t.Fatalf("expected yesterday to pass, got %v", errs.Map())
	}
	if values.Birthdate == nil || values.Birthdate.Format("2006-01-02") != yesterday {
		t.Fatalf("unexpected birthdate: %v", values.Birthdate)
	}
}

func TestStepSchema_BirthdateAcceptsTimeValue(t *testing.T) {
	schema := BuildStepSchema([]FieldIdentifier{FieldBirthdate})
	_, err := schema.Validate(StepCandidate{FieldBirthdate: schemaTestNow}, schemaTestNow, time.UTC)
	if _, ok := AsFieldValidationError(err); !ok {
		t.Fatalf("expected now to be rejected, got %v", err)
	}

	values, err := schema.Validate(StepCandidate{FieldBirthdate: schemaTestNow.Add(-time.Hour)}, schemaTestNow, time.UTC)
	if err != nil || values.Birthdate == nil {
		t.Fatalf("expected an hour ago to pass, got %v", err)
	}
}

func TestStepSchema_IgnoresFieldsOutsideStep(t *testing.T) {
	input := StepFormInput{"aboutMe": "I enjoy hiking and cooking.", "birthdate": "garbage", "zipCode": "1"}
	values, errs := validateForm(t, []FieldIdentifier{FieldAboutMe}, input)
	if errs != nil {
		t.Fatalf("expected unlisted fields to be ignored, got %v", errs.Map())
	}
	if values.Birthdate != nil || values.Address != nil {
		t.Fatalf("expected only aboutMe to be populated, got %+v", values)
	}
	if columns := values.Columns(); len(columns) != 1 || columns["about_me"] != "I enjoy hiking and cooking." {
		t.Fatalf("unexpected columns: %v", columns)
	}
}

func TestStepSchema_OrderDoesNotAffectAcceptance(t *testing.T) {
	input := StepFormInput{
		"streetAddress": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "1",
		"birthdate": "2001-02-03",
	}
	_, forward := validateForm(t, []FieldIdentifier{FieldAddress, FieldBirthdate}, input)
	_, reverse := validateForm(t, []FieldIdentifier{FieldBirthdate, FieldAddress, FieldBirthdate}, input)

	forwardJSON, _ := json.Marshal(forward)
	reverseJSON, _ := json.Marshal(reverse)
	if string(forwardJSON) != string(reverseJSON) {
		t.Fatalf("expected identical errors, got %s and %s", forwardJSON, reverseJSON)
	}
	if fields := BuildStepSchema([]FieldIdentifier{FieldBirthdate, FieldAddress, FieldBirthdate}).Fields(); len(fields) != 2 {
		t.Fatalf("expected duplicates to collapse, got %v", fields)
	}
}

func TestBuildStepSchema_DropsUnknownIdentifiers(t *testing.T) {
	schema := BuildStepSchema([]FieldIdentifier{"nickname", FieldAboutMe})
	if schema.Has("nickname") || !schema.Has(FieldAboutMe) {
		t.Fatalf("unexpected schema fields: %v", schema.Fields())
	}
}
