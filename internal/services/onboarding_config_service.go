package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terraincognita07/onboardly/internal/metrics"
	"github.com/terraincognita07/onboardly/internal/models"
	"gorm.io/gorm"
)

// ConfigProvenance explains where a configuration read came from. It is
// informational; callers branch on the returned error only.
type ConfigProvenance string

const (
	ProvenanceStored               ConfigProvenance = "loaded from store"
	ProvenanceDefaultNoneStored    ConfigProvenance = "using default: none stored"
	ProvenanceDefaultStoredInvalid ConfigProvenance = "using default: stored was invalid"
	ProvenanceDefaultStoreErrored  ConfigProvenance = "using default: store errored"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Failure codes of ConfigUpdateResult.
const (
	ConfigUpdateInvalid       = "invalid"
	ConfigUpdateInternalError = "internal_error"
	ConfigUpdateStoreError    = "store_error"
)

type OnboardingConfigRepository interface {
	FindSingleton(ctx context.Context) (models.OnboardingConfigRecord, error)
	UpsertSingleton(ctx context.Context, configData string) error
	DeleteSingleton(ctx context.Context) error
}

type ConfigReadResult struct {
	Status     string                   `json:"status"`
	Config     *OnboardingConfiguration `json:"config,omitempty"`
	Message    string                   `json:"message"`
	Provenance ConfigProvenance         `json:"-"`
}

type ConfigUpdateResult struct {
	Status      string              `json:"status"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	FormError   string              `json:"formError,omitempty"`
	Code        string              `json:"-"`
}

type OnboardingConfigService struct {
	configs  OnboardingConfigRepository
	logger   *slog.Logger
	metrics  *metrics.Metrics
	fallback func() OnboardingConfiguration
}

func NewOnboardingConfigService(configs OnboardingConfigRepository, logger *slog.Logger, m *metrics.Metrics) *OnboardingConfigService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnboardingConfigService{
		configs:  configs,
		logger:   logger,
		metrics:  m,
		fallback: DefaultOnboardingConfiguration,
	}
}

// Current returns the stored configuration, or the built-in default when
// nothing valid is stored or the store fails. It only errors, with
// ErrConfigurationIntegrity, when the built-in default is itself invalid.
func (service *OnboardingConfigService) Current(ctx context.Context) (OnboardingConfiguration, ConfigProvenance, error) {
	record, err := service.configs.FindSingleton(ctx)
	provenance := ProvenanceStored
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		provenance = ProvenanceDefaultNoneStored
	case err != nil:
		service.logger.WarnContext(ctx, "onboarding configuration read failed", "error", err)
		provenance = ProvenanceDefaultStoreErrored
	case strings.TrimSpace(record.ConfigData) == "":
		provenance = ProvenanceDefaultNoneStored
	default:
		config, parseErr := ParseOnboardingConfiguration(record.ConfigData)
		if parseErr == nil {
			service.metrics.IncrementConfigRead(string(provenance))
			return config, provenance, nil
		}
		service.logger.WarnContext(ctx, "stored onboarding configuration is invalid", "error", parseErr)
		provenance = ProvenanceDefaultStoredInvalid
	}

	config, err := ValidateOnboardingConfiguration(service.fallback().Raw())
	if err != nil {
		service.logger.ErrorContext(ctx, "built-in onboarding configuration is invalid", "provenance", provenance, "error", err)
		service.metrics.IncrementConfigRead("integrity_error")
		return OnboardingConfiguration{}, provenance, fmt.Errorf("%w: %v", ErrConfigurationIntegrity, err)
	}
	service.logger.InfoContext(ctx, "using default onboarding configuration", "provenance", provenance)
	service.metrics.IncrementConfigRead(string(provenance))
	return config, provenance, nil
}

// Read is the caller-facing configuration read.
func (service *OnboardingConfigService) Read(ctx context.Context) ConfigReadResult {
	config, provenance, err := service.Current(ctx)
	if err != nil {
		return ConfigReadResult{Status: StatusError, Message: integrityMessage(provenance), Provenance: provenance}
	}
	return ConfigReadResult{Status: StatusSuccess, Config: &config, Message: provenanceMessage(provenance), Provenance: provenance}
}

// Update is the caller-facing admin update. assignments maps each field
// identifier to "2" or "3".
func (service *OnboardingConfigService) Update(ctx context.Context, assignments map[string]string) ConfigUpdateResult {
	raw, err := ValidatePageAssignments(assignments)
	if err != nil {
		service.metrics.IncrementConfigUpdate(ConfigUpdateInvalid)
		var validationErr *ConfigValidationError
		errors.As(err, &validationErr)
		result := ConfigUpdateResult{Status: StatusError, Message: "Invalid configuration data provided.", Code: ConfigUpdateInvalid}
		if validationErr != nil {
			result.FieldErrors = validationErr.FieldErrors
			if len(validationErr.Messages) > 0 {
				result.FormError = strings.Join(validationErr.Messages, ", ")
				result.Message = result.FormError
			}
		}
		return result
	}

	config, err := ValidateOnboardingConfiguration(raw)
	if err != nil {
		service.logger.ErrorContext(ctx, "generated onboarding configuration is invalid", "error", err)
		service.metrics.IncrementConfigUpdate(ConfigUpdateInternalError)
		return ConfigUpdateResult{
			Status:    StatusError,
			Message:   "Internal error generating config.",
			FormError: "Internal server error while structuring configuration.",
			Code:      ConfigUpdateInternalError,
		}
	}

	configData, err := config.MarshalConfigData()
	if err == nil {
		err = service.configs.UpsertSingleton(ctx, configData)
	}
	if err != nil {
		service.logger.ErrorContext(ctx, "onboarding configuration save failed", "error", err)
		service.metrics.IncrementConfigUpdate(ConfigUpdateStoreError)
		return ConfigUpdateResult{
			Status:    StatusError,
			Message:   "Database error saving configuration.",
			FormError: "Could not save configuration due to a database issue.",
			Code:      ConfigUpdateStoreError,
		}
	}

	service.logger.InfoContext(ctx, "onboarding configuration updated", "page2", joinFieldIdentifiers(config.Page2), "page3", joinFieldIdentifiers(config.Page3))
	service.metrics.IncrementConfigUpdate(StatusSuccess)
	return ConfigUpdateResult{Status: StatusSuccess, Message: "Configuration updated successfully!"}
}

// ResetToDefault removes the stored record so reads fall back to the
// built-in default.
func (service *OnboardingConfigService) ResetToDefault(ctx context.Context) ConfigUpdateResult {
	if err := service.configs.DeleteSingleton(ctx); err != nil {
		service.logger.ErrorContext(ctx, "onboarding configuration reset failed", "error", err)
		service.metrics.IncrementConfigUpdate(ConfigUpdateStoreError)
		return ConfigUpdateResult{
			Status:    StatusError,
			Message:   "Database error saving configuration.",
			FormError: "Could not save configuration due to a database issue.",
			Code:      ConfigUpdateStoreError,
		}
	}
	service.metrics.IncrementConfigUpdate("reset")
	return ConfigUpdateResult{Status: StatusSuccess, Message: "Configuration reset to default."}
}

func provenanceMessage(provenance ConfigProvenance) string {
	switch provenance {
	case ProvenanceStored:
		return "Configuration loaded from database."
	case ProvenanceDefaultStoredInvalid:
		return "Using default configuration due to invalid DB data."
	case ProvenanceDefaultStoreErrored:
		return "Using default configuration due to error."
	default:
		return "Using default configuration."
	}
}

func integrityMessage(provenance ConfigProvenance) string {
	switch provenance {
	case ProvenanceDefaultStoredInvalid:
		return "Database and default configurations are invalid."
	case ProvenanceDefaultStoreErrored:
		return "Failed to fetch configuration and default is invalid."
	default:
		return "Default configuration is invalid. Please check defaults."
	}
}
