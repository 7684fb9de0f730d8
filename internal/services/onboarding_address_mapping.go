package services

import "github.com/terraincognita07/onboardly/internal/models"

// Address sub-field names shared by the form inputs and the error map.
const (
	AddressStreet = "streetAddress"
	AddressCity   = "city"
	AddressState  = "state"
	AddressZip    = "zipCode"
)

// AddressValue is the composite address validated as one field. It never
// reaches storage in this shape.
type AddressValue struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
}

// AddressFromForm gathers the four independent form values into one
// composite. It reports false when none of the parts was submitted.
func AddressFromForm(input StepFormInput) (AddressValue, bool) {
	street, hasStreet := input[AddressStreet]
	city, hasCity := input[AddressCity]
	state, hasState := input[AddressState]
	zip, hasZip := input[AddressZip]
	if !hasStreet && !hasCity && !hasState && !hasZip {
		return AddressValue{}, false
	}
	return AddressValue{StreetAddress: street, City: city, State: state, ZipCode: zip}, true
}

// AddressFromUser rebuilds the composite from the flat user columns.
func AddressFromUser(user models.User) AddressValue {
	return AddressValue{
		StreetAddress: derefString(user.StreetAddress),
		City:          derefString(user.City),
		State:         derefString(user.State),
		ZipCode:       derefString(user.ZipCode),
	}
}

// Columns flattens the composite into the user table columns.
func (address AddressValue) Columns() map[string]any {
	return map[string]any{
		"street_address": address.StreetAddress,
		"city":           address.City,
		"state":          address.State,
		"zip_code":       address.ZipCode,
	}
}

func (address AddressValue) IsZero() bool {
	return address == AddressValue{}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
