package api

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/terraincognita07/onboardly/internal/cache"
	"github.com/terraincognita07/onboardly/internal/i18n"
	"github.com/terraincognita07/onboardly/internal/metrics"
	"gorm.io/gorm"
)

type HandlerConfig struct {
	SecretKey         string
	TemplatesDir      string
	Location          *time.Location
	CookieSecure      bool
	AdminUser         string
	AdminPasswordHash string
	I18n              *i18n.Manager
	Logger            *slog.Logger
	Metrics           *metrics.Metrics
	UserListCache     cache.UserListCache
}

func NewHandler(database *gorm.DB, cfg HandlerConfig) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if cfg.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	templates, err := parsePageTemplates(cfg.TemplatesDir, newTemplateFuncMap(), pageTemplates)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		secretKey:         []byte(cfg.SecretKey),
		location:          cfg.Location,
		cookieSecure:      cfg.CookieSecure,
		adminUser:         strings.TrimSpace(cfg.AdminUser),
		adminPasswordHash: []byte(strings.TrimSpace(cfg.AdminPasswordHash)),
		i18n:              cfg.I18n,
		templates:         templates,
		logger:            cfg.Logger,
		metrics:           cfg.Metrics,
		adminLimiter:      newAttemptLimiter(adminAuthAttemptLimit, adminAuthAttemptWindow),
	}
	return handler.withDependencies(database, cfg.UserListCache), nil
}
