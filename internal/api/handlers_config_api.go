package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/services"
)

// GetConfig exposes the effective configuration to the wizard's clients.
func (handler *Handler) GetConfig(c *fiber.Ctx) error {
	result := handler.configService.Read(c.UserContext())
	if result.Status != services.StatusSuccess {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}
