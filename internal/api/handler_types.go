package api

import (
	"html/template"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/onboardly/internal/db"
	"github.com/terraincognita07/onboardly/internal/i18n"
	"github.com/terraincognita07/onboardly/internal/metrics"
	"github.com/terraincognita07/onboardly/internal/services"
)

type Handler struct {
	secretKey         []byte
	location          *time.Location
	cookieSecure      bool
	adminUser         string
	adminPasswordHash []byte
	i18n              *i18n.Manager
	templates         map[string]*template.Template
	logger            *slog.Logger
	metrics           *metrics.Metrics
	adminLimiter      *attemptLimiter

	repositories  *db.Repositories
	configService *services.OnboardingConfigService
	onboardingSvc *services.OnboardingService
	registration  *services.RegistrationService
	directory     *services.UserDirectoryService
}

type FlashPayload struct {
	AdminSuccess string `json:"admin_success,omitempty"`
	AdminError   string `json:"admin_error,omitempty"`
}

const sessionTokenTTL = 30 * 24 * time.Hour

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}
