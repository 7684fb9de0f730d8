package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/onboardly/internal/api"
	"github.com/terraincognita07/onboardly/internal/cache"
	"github.com/terraincognita07/onboardly/internal/cli"
	"github.com/terraincognita07/onboardly/internal/config"
	"github.com/terraincognita07/onboardly/internal/db"
	"github.com/terraincognita07/onboardly/internal/i18n"
	"github.com/terraincognita07/onboardly/internal/logging"
	"github.com/terraincognita07/onboardly/internal/metrics"
)

var errUnknownCommand = errors.New("unknown command")

const usage = `usage: onboardly [command]

commands:
  serve                 run the web server (default)
  hash-admin-password   print a bcrypt hash for ADMIN_PASSWORD_HASH
  generate-secret       print a random SECRET_KEY
  show-config           print the effective onboarding configuration
  reset-config          drop the stored configuration and use the default
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "serve":
		return serve()
	case "hash-admin-password":
		return cli.RunHashAdminPasswordCommand(os.Stdin, os.Stdout)
	case "generate-secret":
		return cli.RunGenerateSecretCommand(os.Stdout)
	case "show-config", "reset-config":
		return runConfigCommand(command)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("%w %q\n\n%s", errUnknownCommand, command, usage)
	}
}

// runConfigCommand only needs DB_PATH and logging, so it does not insist on
// SECRET_KEY the way the server does.
func runConfigCommand(command string) error {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	appLogger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if command == "reset-config" {
		return cli.RunResetConfigCommand(context.Background(), cfg.DBPath, appLogger, os.Stdout)
	}
	return cli.RunShowConfigCommand(context.Background(), cfg.DBPath, appLogger, os.Stdout)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(appLogger)

	location, err := cfg.Location()
	if err != nil {
		appLogger.Warn("falling back to UTC", "error", err)
	}
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, appLogger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	listCache, closeCache, err := newUserListCache(sigCtx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, cfg.LocalesDir)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	if !cfg.AdminAuthEnabled() {
		appLogger.Warn("ADMIN_PASSWORD_HASH is not set; admin and data pages are unprotected")
	}

	handler, err := api.NewHandler(database, api.HandlerConfig{
		SecretKey:         cfg.SecretKey,
		TemplatesDir:      cfg.TemplatesDir,
		Location:          location,
		CookieSecure:      cfg.CookieSecure,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
		I18n:              i18nManager,
		Logger:            appLogger,
		Metrics:           metrics.New(),
		UserListCache:     listCache,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Onboardly",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))

	app.Static("/static", cfg.StaticDir)
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("server shutdown failed", "error", err)
		}
	}()

	appLogger.Info("onboardly listening", "port", cfg.Port, "db", cfg.DBPath, "tz", location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// newUserListCache uses Redis when REDIS_URL is set and an in-process cache
// otherwise.
func newUserListCache(ctx context.Context, cfg config.Config, appLogger *slog.Logger) (cache.UserListCache, func(), error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.NewMemoryUserListCache(cfg.CacheTTL), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(pingCtx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis init failed: %w", err)
	}
	appLogger.Info("user list cache backed by redis")
	return cache.NewRedisUserListCache(client, cfg.CacheTTL), func() { _ = client.Close() }, nil
}

// csrfMiddlewareConfig protects form posts. JSON callers are exempt; a
// cross-site form cannot send an application/json body.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "onboardly_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Next:           isJSONRequest,
	}
}

func isJSONRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}
