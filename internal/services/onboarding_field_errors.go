package services

import (
	"encoding/json"
	"sort"
)

// FieldErrors collects human-readable messages per field. Address messages
// are kept per sub-field so the form can render them next to each input.
type FieldErrors struct {
	fields  map[FieldIdentifier][]string
	address map[string][]string
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{
		fields:  map[FieldIdentifier][]string{},
		address: map[string][]string{},
	}
}

func (errs *FieldErrors) Add(field FieldIdentifier, message string) {
	errs.fields[field] = append(errs.fields[field], message)
}

func (errs *FieldErrors) AddAddress(subField string, message string) {
	errs.address[subField] = append(errs.address[subField], message)
}

func (errs *FieldErrors) Empty() bool {
	return errs == nil || (len(errs.fields) == 0 && len(errs.address) == 0)
}

func (errs *FieldErrors) Field(field FieldIdentifier) []string {
	if errs == nil {
		return nil
	}
	return errs.fields[field]
}

func (errs *FieldErrors) AddressField(subField string) []string {
	if errs == nil {
		return nil
	}
	return errs.address[subField]
}

// Fields lists the fields carrying at least one message, address included
// when any of its sub-fields failed.
func (errs *FieldErrors) Fields() []FieldIdentifier {
	if errs == nil {
		return nil
	}
	result := make([]FieldIdentifier, 0, len(errs.fields)+1)
	for field := range errs.fields {
		result = append(result, field)
	}
	if len(errs.address) > 0 && len(errs.fields[FieldAddress]) == 0 {
		result = append(result, FieldAddress)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Map returns the nested shape rendered to callers:
// {"aboutMe": [...], "address": {"zipCode": [...]}}.
func (errs *FieldErrors) Map() map[string]any {
	result := map[string]any{}
	if errs == nil {
		return result
	}
	for field, messages := range errs.fields {
		if field == FieldAddress {
			continue
		}
		result[field.String()] = append([]string(nil), messages...)
	}
	if len(errs.address) > 0 || len(errs.fields[FieldAddress]) > 0 {
		nested := make(map[string][]string, len(errs.address)+1)
		for subField, messages := range errs.address {
			nested[subField] = append([]string(nil), messages...)
		}
		if messages := errs.fields[FieldAddress]; len(messages) > 0 {
			nested["_errors"] = append([]string(nil), messages...)
		}
		result[FieldAddress.String()] = nested
	}
	return result
}

func (errs *FieldErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(errs.Map())
}
