package api

import (
	"github.com/terraincognita07/onboardly/internal/cache"
	"github.com/terraincognita07/onboardly/internal/db"
	"github.com/terraincognita07/onboardly/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, listCache cache.UserListCache) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.directory = services.NewUserDirectoryService(handler.repositories.Users, listCache, handler.logger)
	handler.configService = services.NewOnboardingConfigService(handler.repositories.OnboardingConfig, handler.logger, handler.metrics)
	handler.onboardingSvc = services.NewOnboardingService(
		handler.repositories.Users,
		handler.configService,
		handler.directory,
		handler.logger,
		handler.metrics,
		handler.location,
	)
	handler.registration = services.NewRegistrationService(handler.repositories.Users, handler.directory, handler.logger, handler.metrics)
	return handler
}
