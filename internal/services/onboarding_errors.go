package services

import "errors"

var (
	ErrMalformedRequest         = errors.New("malformed onboarding request")
	ErrConfigurationUnavailable = errors.New("onboarding configuration unavailable")
	ErrConfigurationIntegrity   = errors.New("default onboarding configuration is invalid")
	ErrNoFieldsConfigured       = errors.New("no fields configured for step")
	ErrFieldValidation          = errors.New("field validation failed")
	ErrUserNotFound             = errors.New("user not found")
	ErrPersistence              = errors.New("onboarding persistence failed")
	ErrEmailTaken               = errors.New("email already registered")
)

// StepSubmissionError is returned by every failed step submission. Message
// is safe to show to the user; Fields is set for ErrFieldValidation.
type StepSubmissionError struct {
	Kind    error
	Step    int
	Message string
	Fields  *FieldErrors
	cause   error
}

func (err *StepSubmissionError) Error() string {
	if err.cause != nil {
		return err.Message + ": " + err.cause.Error()
	}
	return err.Message
}

func (err *StepSubmissionError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.Kind}
	}
	return []error{err.Kind, err.cause}
}

func AsStepSubmissionError(err error) (*StepSubmissionError, bool) {
	var stepErr *StepSubmissionError
	if errors.As(err, &stepErr) {
		return stepErr, true
	}
	return nil, false
}

// RegistrationError is returned by CreateUser; Fields maps form input names
// (email, password) to messages.
type RegistrationError struct {
	Kind    error
	Message string
	Fields  map[string][]string
	cause   error
}

func (err *RegistrationError) Error() string {
	if err.cause != nil {
		return err.Message + ": " + err.cause.Error()
	}
	return err.Message
}

func (err *RegistrationError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.Kind}
	}
	return []error{err.Kind, err.cause}
}
