package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

// ShowAdmin renders the page-assignment form seeded from the current
// configuration.
func (handler *Handler) ShowAdmin(c *fiber.Ctx) error {
	flash := handler.popFlashCookie(c)
	data := handler.adminPageData(c, handler.configService.Read(c.UserContext()))
	data["SuccessMessage"] = flash.AdminSuccess
	if flash.AdminError != "" {
		data["FormError"] = flash.AdminError
	}
	return handler.render(c, "admin", data)
}

func (handler *Handler) UpdateAdminConfig(c *fiber.Ctx) error {
	assignments, err := parseConfigAssignments(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	result := handler.configService.Update(c.UserContext(), assignments)
	return handler.respondConfigUpdate(c, result, assignments)
}

// ResetAdminConfig drops the stored configuration so the built-in default
// applies again.
func (handler *Handler) ResetAdminConfig(c *fiber.Ctx) error {
	result := handler.configService.ResetToDefault(c.UserContext())
	return handler.respondConfigUpdate(c, result, nil)
}

func (handler *Handler) respondConfigUpdate(c *fiber.Ctx, result services.ConfigUpdateResult, submitted map[string]string) error {
	status := configUpdateStatus(result)
	if acceptsJSON(c) {
		return c.Status(status).JSON(result)
	}

	if result.Status == services.StatusSuccess {
		handler.setFlashCookie(c, FlashPayload{AdminSuccess: result.Message})
		return redirectOrJSON(c, "/admin", actionResult{Status: result.Status, Message: result.Message})
	}

	data := handler.adminPageData(c, handler.configService.Read(c.UserContext()))
	if submitted != nil {
		data["Assignments"] = submittedAssignments(submitted)
	}
	data["FieldErrors"] = result.FieldErrors
	data["FormError"] = result.Message
	c.Status(status)
	return handler.render(c, "admin", data)
}

func (handler *Handler) adminPageData(c *fiber.Ctx, read services.ConfigReadResult) fiber.Map {
	messages := currentMessages(c)
	data := fiber.Map{
		"Title":         localizedPageTitle(messages, "meta.title.admin", "Onboardly | Admin"),
		"Fields":        services.AllOnboardingFields(),
		"Assignments":   map[string]string{},
		"FieldErrors":   map[string][]string{},
		"SourceMessage": read.Message,
	}
	if read.Config != nil {
		data["Assignments"] = configAssignments(*read.Config)
	} else {
		data["FormError"] = read.Message
	}
	return data
}

func configAssignments(config services.OnboardingConfiguration) map[string]string {
	assignments := make(map[string]string, len(services.AllOnboardingFields()))
	for _, field := range services.AllOnboardingFields() {
		assignments[field.String()] = config.PageOf(field)
	}
	return assignments
}

func submittedAssignments(submitted map[string]string) map[string]string {
	assignments := make(map[string]string, len(submitted))
	for key, value := range submitted {
		assignments[key] = value
	}
	return assignments
}
