package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/terraincognita07/onboardly/internal/cache"
	"github.com/terraincognita07/onboardly/internal/models"
)

type UserListRepository interface {
	ListNewestFirst(ctx context.Context) ([]models.User, error)
}

// UserSummary is the listing shape of a user. It never carries the password.
type UserSummary struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	OnboardingStep int           `json:"onboardingStep"`
	AboutMe        *string       `json:"aboutMe,omitempty"`
	Address        *AddressValue `json:"address,omitempty"`
	Birthdate      *time.Time    `json:"birthdate,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type UserDirectoryService struct {
	users  UserListRepository
	cache  cache.UserListCache
	logger *slog.Logger
}

func NewUserDirectoryService(users UserListRepository, listCache cache.UserListCache, logger *slog.Logger) *UserDirectoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserDirectoryService{users: users, cache: listCache, logger: logger}
}

// ListUsers serves the cached listing when present. Cache failures fall
// through to the store. The cache generation is read before the store so a
// listing overtaken by an invalidation is not written back.
func (service *UserDirectoryService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	cacheable := false
	var generation uint64
	if service.cache != nil {
		payload, ok, err := service.cache.Get(ctx)
		switch {
		case err != nil:
			service.logger.WarnContext(ctx, "read user list cache failed", "error", err)
		case ok:
			summaries := make([]UserSummary, 0)
			if err := json.Unmarshal(payload, &summaries); err == nil {
				return summaries, nil
			}
			service.logger.WarnContext(ctx, "discarding undecodable user list cache entry")
		}

		current, err := service.cache.Generation(ctx)
		if err != nil {
			service.logger.WarnContext(ctx, "read user list cache generation failed", "error", err)
		} else {
			generation, cacheable = current, true
		}
	}

	users, err := service.users.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, summarizeUser(user))
	}

	if cacheable {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := service.cache.Set(ctx, payload, generation); err != nil {
				service.logger.WarnContext(ctx, "write user list cache failed", "error", err)
			}
		}
	}
	return summaries, nil
}

func (service *UserDirectoryService) InvalidateUsers(ctx context.Context) error {
	if service.cache == nil {
		return nil
	}
	return service.cache.Invalidate(ctx)
}

func summarizeUser(user models.User) UserSummary {
	summary := UserSummary{
		ID:             user.ID,
		Email:          user.Email,
		OnboardingStep: user.OnboardingStep,
		AboutMe:        user.AboutMe,
		Birthdate:      user.Birthdate,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if address := AddressFromUser(user); !address.IsZero() {
		summary.Address = &address
	}
	return summary
}
