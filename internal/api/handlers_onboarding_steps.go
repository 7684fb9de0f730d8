package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

// OnboardingStep1 creates the account and opens the wizard session.
func (handler *Handler) OnboardingStep1(c *fiber.Ctx) error {
	input, err := parseStep1Request(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "Invalid form data.")
	}

	user, err := handler.registration.CreateUser(c.UserContext(), input.Email, input.Password)
	if err != nil {
		status, result := registrationFailureResult(err)
		if acceptsJSON(c) {
			return c.Status(status).JSON(result)
		}
		return handler.renderStep1Error(c, status, result, input.Email)
	}

	if err := handler.setSessionCookie(c, user.ID); err != nil {
		handler.logger.ErrorContext(c.UserContext(), "issue session cookie failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
	return redirectOrJSON(c, "/", actionResult{
		Status:  services.StatusSuccess,
		Message: "Account created successfully!",
		UserID:  user.ID,
	})
}

// OnboardingStep handles the configurable steps 2 and 3. The user is the
// one bound to the session cookie.
func (handler *Handler) OnboardingStep(c *fiber.Ctx) error {
	rawStep, input, err := parseStepRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	outcome, err := handler.onboardingSvc.SubmitStep(c.UserContext(), services.StepSubmission{
		UserID: handler.sessionUserID(c),
		Step:   rawStep,
		Input:  input,
	})
	if err != nil {
		status, result := stepFailureResult(err)
		if acceptsJSON(c) {
			return c.Status(status).JSON(result)
		}
		return handler.renderStepError(c, status, result, err, outcome.Step, input)
	}

	return redirectOrJSON(c, "/", actionResult{Status: services.StatusSuccess, Message: outcome.Message})
}

// RestartOnboarding drops the session; the stored user is kept.
func (handler *Handler) RestartOnboarding(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return redirectOrJSON(c, "/", actionResult{Status: services.StatusSuccess, Message: "Onboarding restarted."})
}

func (handler *Handler) renderStep1Error(c *fiber.Ctx, status int, result actionResult, email string) error {
	data, err := handler.onboardingPageData(c)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, result.Message)
	}
	if fields, ok := result.FieldErrors.(map[string][]string); ok {
		data["Step1Errors"] = fields
	}
	data["Step"] = 1
	data["FormError"] = result.Message
	data["Values"] = map[string]string{"email": email}
	c.Status(status)
	return handler.render(c, "onboarding", data)
}

func (handler *Handler) renderStepError(c *fiber.Ctx, status int, result actionResult, cause error, step int, input services.StepFormInput) error {
	data, err := handler.onboardingPageData(c)
	if err != nil {
		return apiError(c, status, result.Message)
	}
	if stepErr, ok := services.AsStepSubmissionError(cause); ok && stepErr.Fields != nil {
		data["FieldErrors"] = stepErr.Fields
	}
	if errors.Is(cause, services.ErrFieldValidation) && step > 0 {
		if current, _ := data["Step"].(int); current != step {
			config, _, err := handler.configService.Current(c.UserContext())
			if err == nil {
				data["Step"] = step
				data["Fields"] = config.FieldsForStep(step)
			}
		}
		data["Values"] = submittedStepValues(input)
	}
	data["FormError"] = result.Message
	c.Status(status)
	return handler.render(c, "onboarding", data)
}
