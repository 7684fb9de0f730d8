package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/onboardly/internal/metrics"
	"github.com/terraincognita07/onboardly/internal/models"
	"gorm.io/gorm"
)

const passwordMinLength = 8

const (
	MessageEmailInvalid     = "Please enter a valid email address."
	MessagePasswordTooShort = "Password must be at least 8 characters long."
	MessageEmailInUse       = "Email already in use."
)

type RegistrationUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type RegistrationService struct {
	users   RegistrationUserRepository
	views   UserViewInvalidator
	logger  *slog.Logger
	metrics *metrics.Metrics
	newID   func() string
}

func NewRegistrationService(users RegistrationUserRepository, views UserViewInvalidator, logger *slog.Logger, m *metrics.Metrics) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		users:   users,
		views:   views,
		logger:  logger,
		metrics: m,
		newID:   uuid.NewString,
	}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CreateUser is onboarding step 1. The password is stored exactly as
// submitted; it is never hashed.
func (service *RegistrationService) CreateUser(ctx context.Context, email string, password string) (models.User, error) {
	normalized := NormalizeEmail(email)
	fields := map[string][]string{}
	if !validEmailAddress(normalized) {
		fields["email"] = []string{MessageEmailInvalid}
	}
	if utf8.RuneCountInString(password) < passwordMinLength {
		fields["password"] = []string{MessagePasswordTooShort}
	}
	if len(fields) > 0 {
		return models.User{}, &RegistrationError{Kind: ErrFieldValidation, Message: "Invalid form data.", Fields: fields}
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, normalized)
	if err != nil {
		service.logger.ErrorContext(ctx, "check email uniqueness failed", "error", err)
		return models.User{}, registrationPersistenceError(err)
	}
	if exists {
		return models.User{}, emailTakenError()
	}

	user := models.User{
		ID:             service.newID(),
		Email:          normalized,
		Password:       password,
		OnboardingStep: models.InitialOnboardingStep,
	}
	if err := service.users.Create(ctx, &user); err != nil {
		// A concurrent sign-up can pass the existence check and lose on the
		// unique email index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, emailTakenError()
		}
		service.logger.ErrorContext(ctx, "create user failed", "error", err)
		return models.User{}, registrationPersistenceError(err)
	}

	if service.views != nil {
		if err := service.views.InvalidateUsers(ctx); err != nil {
			service.logger.WarnContext(ctx, "invalidate user views failed", "error", err)
		}
	}
	service.metrics.IncrementUserCreated()
	service.logger.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

func validEmailAddress(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func emailTakenError() *RegistrationError {
	return &RegistrationError{
		Kind:    ErrEmailTaken,
		Message: "An account with this email already exists.",
		Fields:  map[string][]string{"email": {MessageEmailInUse}},
	}
}

func registrationPersistenceError(cause error) *RegistrationError {
	return &RegistrationError{
		Kind:    ErrPersistence,
		Message: "An unexpected error occurred. Please try again.",
		cause:   cause,
	}
}
