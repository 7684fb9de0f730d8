package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

func stepFailureResult(err error) (int, actionResult) {
	stepErr, ok := services.AsStepSubmissionError(err)
	if !ok {
		return fiber.StatusInternalServerError, actionResult{
			Status:  services.StatusError,
			Message: "An unexpected error occurred saving your progress.",
		}
	}

	result := actionResult{Status: services.StatusError, Message: stepErr.Message}
	if !stepErr.Fields.Empty() {
		result.FieldErrors = stepErr.Fields
	}
	return stepFailureStatus(err), result
}

func stepFailureStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMalformedRequest), errors.Is(err, services.ErrNoFieldsConfigured):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrFieldValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func registrationFailureResult(err error) (int, actionResult) {
	var registrationErr *services.RegistrationError
	if !errors.As(err, &registrationErr) {
		return fiber.StatusInternalServerError, actionResult{
			Status:  services.StatusError,
			Message: "An unexpected error occurred. Please try again.",
		}
	}

	result := actionResult{Status: services.StatusError, Message: registrationErr.Message}
	if len(registrationErr.Fields) > 0 {
		result.FieldErrors = registrationErr.Fields
	}
	switch {
	case errors.Is(err, services.ErrFieldValidation):
		return fiber.StatusUnprocessableEntity, result
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, result
	default:
		return fiber.StatusInternalServerError, result
	}
}

func configUpdateStatus(result services.ConfigUpdateResult) int {
	switch {
	case result.Status == services.StatusSuccess:
		return fiber.StatusOK
	case result.Code == services.ConfigUpdateInvalid:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
