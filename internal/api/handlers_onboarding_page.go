package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/models"
	"github.com/terraincognita07/onboardly/internal/services"
)

// ShowOnboarding renders whichever wizard step the session's user is on.
// Without a session, or with a session for a user that no longer exists,
// it starts at step 1.
func (handler *Handler) ShowOnboarding(c *fiber.Ctx) error {
	data, err := handler.onboardingPageData(c)
	if err != nil {
		handler.logger.ErrorContext(c.UserContext(), "load onboarding progress failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load onboarding")
	}
	return handler.render(c, "onboarding", data)
}

func (handler *Handler) onboardingPageData(c *fiber.Ctx) (fiber.Map, error) {
	messages := currentMessages(c)
	data := fiber.Map{
		"Title":       localizedPageTitle(messages, "meta.title.onboarding", "Onboardly | Get started"),
		"Step":        models.InitialOnboardingStep,
		"Values":      map[string]string{},
		"FieldErrors": services.NewFieldErrors(),
		"Step1Errors": map[string][]string{},
	}

	userID := handler.sessionUserID(c)
	if userID == "" {
		return data, nil
	}
	progress, err := handler.onboardingSvc.LoadProgress(c.UserContext(), userID)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		handler.clearSessionCookie(c)
		return data, nil
	case err != nil:
		return nil, err
	}

	data["Step"] = progress.Step
	data["Complete"] = progress.Complete
	data["Fields"] = progress.Fields
	data["Values"] = savedStepValues(progress.User, handler.location)
	return data, nil
}

// savedStepValues prefills the wizard with what the user stored earlier,
// keyed by form input name.
func savedStepValues(user models.User, location *time.Location) map[string]string {
	values := map[string]string{}
	if user.AboutMe != nil {
		values[services.FieldAboutMe.String()] = *user.AboutMe
	}
	address := services.AddressFromUser(user)
	values[services.AddressStreet] = address.StreetAddress
	values[services.AddressCity] = address.City
	values[services.AddressState] = address.State
	values[services.AddressZip] = address.ZipCode
	if user.Birthdate != nil {
		values[services.FieldBirthdate.String()] = user.Birthdate.In(location).Format("2006-01-02")
	}
	return values
}

// submittedStepValues echoes rejected input back into the form.
func submittedStepValues(input services.StepFormInput) map[string]string {
	values := make(map[string]string, len(input))
	for key, value := range input {
		values[key] = value
	}
	return values
}
