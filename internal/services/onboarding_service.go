package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/onboardly/internal/metrics"
	"github.com/terraincognita07/onboardly/internal/models"
	"gorm.io/gorm"
)

type OnboardingUserRepository interface {
	FindByID(ctx context.Context, userID string) (models.User, error)
	UpdateByID(ctx context.Context, userID string, updates map[string]any) error
}

type OnboardingConfigSource interface {
	Current(ctx context.Context) (OnboardingConfiguration, ConfigProvenance, error)
}

// UserViewInvalidator drops cached renderings of user data after a write.
type UserViewInvalidator interface {
	InvalidateUsers(ctx context.Context) error
}

type StepSubmission struct {
	UserID string
	Step   string
	Input  StepFormInput
}

type StepOutcome struct {
	Step    int
	Message string
}

// OnboardingProgress is what the wizard needs to render a user's current
// step, including values already saved on earlier visits.
type OnboardingProgress struct {
	User     models.User
	Step     int
	Fields   []FieldIdentifier
	Complete bool
}

type OnboardingService struct {
	users    OnboardingUserRepository
	configs  OnboardingConfigSource
	views    UserViewInvalidator
	logger   *slog.Logger
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
}

func NewOnboardingService(users OnboardingUserRepository, configs OnboardingConfigSource, views UserViewInvalidator, logger *slog.Logger, m *metrics.Metrics, location *time.Location) *OnboardingService {
	if logger == nil {
		logger = slog.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &OnboardingService{
		users:    users,
		configs:  configs,
		views:    views,
		logger:   logger,
		metrics:  m,
		location: location,
		now:      time.Now,
	}
}

// SubmitStep validates the fields configured for one step and advances the
// user past it. The user row is read and then written without a transaction;
// two concurrent submissions for the same step both succeed and the later
// write wins.
func (service *OnboardingService) SubmitStep(ctx context.Context, submission StepSubmission) (StepOutcome, error) {
	start := time.Now()
	outcome, err := service.submitStep(ctx, submission)
	status := StatusSuccess
	if err != nil {
		status = submissionStatus(err)
	}
	service.metrics.ObserveStepSubmission(outcome.Step, status, start)
	return outcome, err
}

func (service *OnboardingService) submitStep(ctx context.Context, submission StepSubmission) (StepOutcome, error) {
	userID := strings.TrimSpace(submission.UserID)
	step, err := strconv.Atoi(strings.TrimSpace(submission.Step))
	if userID == "" || err != nil {
		return StepOutcome{}, &StepSubmissionError{
			Kind:    ErrMalformedRequest,
			Message: "Missing user ID or step information.",
		}
	}
	outcome := StepOutcome{Step: step}

	config, _, err := service.configs.Current(ctx)
	if err != nil {
		service.logger.ErrorContext(ctx, "onboarding configuration unavailable", "step", step, "error", err)
		return outcome, &StepSubmissionError{
			Kind:    ErrConfigurationUnavailable,
			Step:    step,
			Message: fmt.Sprintf("Failed to load configuration to validate step %d.", step),
			cause:   err,
		}
	}

	stepFields := config.FieldsForStep(step)
	if len(stepFields) == 0 {
		return outcome, &StepSubmissionError{
			Kind:    ErrNoFieldsConfigured,
			Step:    step,
			Message: fmt.Sprintf("No fields configured for step %d.", step),
		}
	}

	schema := BuildStepSchema(stepFields)
	values, err := schema.Validate(schema.CandidateFromForm(submission.Input), service.now(), service.location)
	if err != nil {
		stepErr := &StepSubmissionError{
			Kind:    ErrFieldValidation,
			Step:    step,
			Message: "Invalid form data for this step.",
			cause:   err,
		}
		if fieldErr, ok := AsFieldValidationError(err); ok {
			stepErr.Fields = fieldErr.Fields
		}
		return outcome, stepErr
	}

	if _, err := service.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return outcome, &StepSubmissionError{Kind: ErrUserNotFound, Step: step, Message: "User not found."}
		}
		service.logger.ErrorContext(ctx, "load user for onboarding step failed", "user_id", userID, "step", step, "error", err)
		return outcome, persistenceError(step, err)
	}

	updates := values.Columns()
	updates["onboarding_step"] = step + 1
	if err := service.users.UpdateByID(ctx, userID, updates); err != nil {
		service.logger.ErrorContext(ctx, "save onboarding step failed", "user_id", userID, "step", step, "error", err)
		return outcome, persistenceError(step, err)
	}

	if service.views != nil {
		if err := service.views.InvalidateUsers(ctx); err != nil {
			service.logger.WarnContext(ctx, "invalidate user views failed", "error", err)
		}
	}
	service.logger.InfoContext(ctx, "onboarding step completed", "user_id", userID, "step", step)
	outcome.Message = fmt.Sprintf("Step %d completed!", step)
	return outcome, nil
}

// LoadProgress resolves the step a user is on and the fields it shows.
// Users past the last configurable page are complete.
func (service *OnboardingService) LoadProgress(ctx context.Context, userID string) (OnboardingProgress, error) {
	if strings.TrimSpace(userID) == "" {
		return OnboardingProgress{}, ErrMalformedRequest
	}
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OnboardingProgress{}, ErrUserNotFound
		}
		return OnboardingProgress{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	progress := OnboardingProgress{User: user, Step: user.OnboardingStep}
	if progress.Step < 2 {
		progress.Step = 2
	}
	if progress.Step > 3 {
		progress.Complete = true
		return progress, nil
	}

	config, _, err := service.configs.Current(ctx)
	if err != nil {
		return OnboardingProgress{}, fmt.Errorf("%w: %v", ErrConfigurationUnavailable, err)
	}
	progress.Fields = config.FieldsForStep(progress.Step)
	return progress, nil
}

func persistenceError(step int, cause error) *StepSubmissionError {
	return &StepSubmissionError{
		Kind:    ErrPersistence,
		Step:    step,
		Message: "An unexpected error occurred saving your progress.",
		cause:   cause,
	}
}

func submissionStatus(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return "malformed"
	case errors.Is(err, ErrConfigurationUnavailable):
		return "config_unavailable"
	case errors.Is(err, ErrNoFieldsConfigured):
		return "no_fields"
	case errors.Is(err, ErrFieldValidation):
		return "invalid"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	default:
		return "store_error"
	}
}
