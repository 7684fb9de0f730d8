package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

// ShowData renders every user, newest first.
func (handler *Handler) ShowData(c *fiber.Ctx) error {
	users, err := handler.directory.ListUsers(c.UserContext())
	if err != nil {
		handler.logger.ErrorContext(c.UserContext(), "list users failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load users")
	}
	return handler.render(c, "data", fiber.Map{
		"Title":  localizedPageTitle(currentMessages(c), "meta.title.data", "Onboardly | User data"),
		"Users":  users,
		"Layout": "2006-01-02",
	})
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.directory.ListUsers(c.UserContext())
	if err != nil {
		handler.logger.ErrorContext(c.UserContext(), "list users failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "Failed to load users.")
	}
	return c.JSON(fiber.Map{"status": services.StatusSuccess, "users": users})
}
