package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/terraincognita07/onboardly/internal/db"
	"github.com/terraincognita07/onboardly/internal/services"
	"gorm.io/gorm"
)

type configReport struct {
	Provenance services.ConfigProvenance        `json:"provenance"`
	Config     services.OnboardingConfiguration `json:"config"`
}

// RunShowConfigCommand prints the configuration the wizard would use right
// now and where it came from.
func RunShowConfigCommand(ctx context.Context, dbPath string, logger *slog.Logger, stdout io.Writer) error {
	configs, closeDB, err := openConfigService(dbPath, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	config, provenance, err := configs.Current(ctx)
	if err != nil {
		return fmt.Errorf("read onboarding configuration: %w", err)
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(configReport{Provenance: provenance, Config: config})
}

// RunResetConfigCommand deletes the stored configuration so the built-in
// default applies again.
func RunResetConfigCommand(ctx context.Context, dbPath string, logger *slog.Logger, stdout io.Writer) error {
	configs, closeDB, err := openConfigService(dbPath, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	result := configs.ResetToDefault(ctx)
	if result.Status != services.StatusSuccess {
		return errors.New(result.Message)
	}
	fmt.Fprintln(stdout, result.Message)
	return nil
}

func openConfigService(dbPath string, logger *slog.Logger) (*services.OnboardingConfigService, func(), error) {
	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	repo := db.NewOnboardingConfigRepository(database)
	return services.NewOnboardingConfigService(repo, logger, nil), func() { closeDatabase(database) }, nil
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
