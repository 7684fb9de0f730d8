package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/terraincognita07/onboardly/internal/models"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubConfigRepo struct {
	record    models.OnboardingConfigRecord
	found     bool
	findErr   error
	upsertErr error
	deleteErr error
	upserted  []string
	deleted   bool
}

func (stub *stubConfigRepo) FindSingleton(context.Context) (models.OnboardingConfigRecord, error) {
	if stub.findErr != nil {
		return models.OnboardingConfigRecord{}, stub.findErr
	}
	if !stub.found {
		return models.OnboardingConfigRecord{}, gorm.ErrRecordNotFound
	}
	return stub.record, nil
}

func (stub *stubConfigRepo) UpsertSingleton(_ context.Context, configData string) error {
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	stub.upserted = append(stub.upserted, configData)
	stub.record = models.OnboardingConfigRecord{ID: models.OnboardingConfigSingletonID, ConfigData: configData}
	stub.found = true
	return nil
}

func (stub *stubConfigRepo) DeleteSingleton(context.Context) error {
	if stub.deleteErr != nil {
		return stub.deleteErr
	}
	stub.deleted = true
	stub.found = false
	return nil
}

func storedConfig(configData string) *stubConfigRepo {
	return &stubConfigRepo{
		record: models.OnboardingConfigRecord{ID: models.OnboardingConfigSingletonID, ConfigData: configData},
		found:  true,
	}
}

type stubUserRepo struct {
	users     map[string]models.User
	findErr   error
	updateErr error
	existsErr error
	createErr error
	updates   []map[string]any
	created   []models.User
	onList    func()
}

func newStubUserRepo(users ...models.User) *stubUserRepo {
	stub := &stubUserRepo{users: map[string]models.User{}}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (stub *stubUserRepo) FindByID(_ context.Context, userID string) (models.User, error) {
	if stub.findErr != nil {
		return models.User{}, stub.findErr
	}
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubUserRepo) UpdateByID(_ context.Context, userID string, updates map[string]any) error {
	if stub.updateErr != nil {
		return stub.updateErr
	}
	stub.updates = append(stub.updates, updates)
	user := stub.users[userID]
	if step, ok := updates["onboarding_step"].(int); ok {
		user.OnboardingStep = step
	}
	if aboutMe, ok := updates["about_me"].(string); ok {
		user.AboutMe = &aboutMe
	}
	stub.users[userID] = user
	return nil
}

func (stub *stubUserRepo) ExistsByNormalizedEmail(_ context.Context, email string) (bool, error) {
	if stub.existsErr != nil {
		return false, stub.existsErr
	}
	for _, user := range stub.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.users[user.ID] = *user
	stub.created = append(stub.created, *user)
	return nil
}

func (stub *stubUserRepo) ListNewestFirst(context.Context) ([]models.User, error) {
	if stub.findErr != nil {
		return nil, stub.findErr
	}
	users := make([]models.User, 0, len(stub.users))
	for _, user := range stub.users {
		users = append(users, user)
	}
	if stub.onList != nil {
		stub.onList()
	}
	return users, nil
}

type countingInvalidator struct {
	calls int
	err   error
}

func (stub *countingInvalidator) InvalidateUsers(context.Context) error {
	stub.calls++
	return stub.err
}

var errStoreDown = errors.New("store down")
