package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

const currentStepFormKey = "currentStep"

var errInvalidRequestBody = errors.New("invalid request body")

var stepFormKeys = []string{
	services.FieldAboutMe.String(),
	services.FieldBirthdate.String(),
	services.AddressStreet,
	services.AddressCity,
	services.AddressState,
	services.AddressZip,
}

type step1Input struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// parseStepRequest reads the step number and the submitted field values.
// Keys that were not submitted stay absent from the input so the schema can
// tell a missing field from an empty one.
func parseStepRequest(c *fiber.Ctx) (string, services.StepFormInput, error) {
	if isJSONBody(c) {
		return parseJSONStepRequest(c.Body())
	}

	input := services.StepFormInput{}
	for _, key := range stepFormKeys {
		if value, ok := formValue(c, key); ok {
			input[key] = value
		}
	}
	rawStep, _ := formValue(c, currentStepFormKey)
	return rawStep, input, nil
}

func parseJSONStepRequest(body []byte) (string, services.StepFormInput, error) {
	payload := map[string]any{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil, errInvalidRequestBody
	}

	input := services.StepFormInput{}
	if nested, ok := payload[services.FieldAddress.String()].(map[string]any); ok {
		for key, value := range nested {
			payload[key] = value
		}
	}
	for _, key := range stepFormKeys {
		if value, ok := payload[key].(string); ok {
			input[key] = value
		}
	}

	rawStep := ""
	switch value := payload[currentStepFormKey].(type) {
	case string:
		rawStep = value
	case float64:
		rawStep = strconv.FormatFloat(value, 'f', -1, 64)
	}
	return rawStep, input, nil
}

func parseStep1Request(c *fiber.Ctx) (step1Input, error) {
	input := step1Input{}
	if err := c.BodyParser(&input); err != nil {
		return step1Input{}, errInvalidRequestBody
	}
	return input, nil
}

func parseConfigAssignments(c *fiber.Ctx) (map[string]string, error) {
	assignments := map[string]string{}
	if isJSONBody(c) {
		payload := map[string]any{}
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return nil, errInvalidRequestBody
		}
		for _, field := range services.AllOnboardingFields() {
			switch value := payload[field.String()].(type) {
			case string:
				assignments[field.String()] = value
			case float64:
				assignments[field.String()] = strconv.FormatFloat(value, 'f', -1, 64)
			}
		}
		return assignments, nil
	}

	for _, field := range services.AllOnboardingFields() {
		if value, ok := formValue(c, field.String()); ok {
			assignments[field.String()] = value
		}
	}
	return assignments, nil
}

// formValue reports whether key was submitted, for urlencoded and
// multipart bodies alike.
func formValue(c *fiber.Ctx, key string) (string, bool) {
	if form, err := c.MultipartForm(); err == nil {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}
	args := c.Request().PostArgs()
	if !args.Has(key) {
		return "", false
	}
	return strings.Clone(string(args.Peek(key))), true
}
