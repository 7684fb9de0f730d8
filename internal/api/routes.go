package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.ShowOnboarding)
	app.Post("/onboarding/step1", handler.OnboardingStep1)
	app.Post("/onboarding/step", handler.OnboardingStep)
	app.Post("/onboarding/restart", handler.RestartOnboarding)

	app.Get("/admin", handler.AdminRequired, handler.ShowAdmin)
	app.Post("/admin/config", handler.AdminRequired, handler.UpdateAdminConfig)
	app.Post("/admin/config/reset", handler.AdminRequired, handler.ResetAdminConfig)
	app.Get("/data", handler.AdminRequired, handler.ShowData)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/config", handler.GetConfig)
	api.Get("/users", handler.AdminRequired, handler.ListUsers)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
