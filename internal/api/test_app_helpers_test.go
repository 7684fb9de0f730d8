package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/onboardly/internal/cache"
	"github.com/terraincognita07/onboardly/internal/db"
	"github.com/terraincognita07/onboardly/internal/i18n"
	"github.com/terraincognita07/onboardly/internal/metrics"
	"gorm.io/gorm"
)

type testAppOptions struct {
	adminPasswordHash string
}

func newOnboardingTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	return newOnboardingTestAppWithOptions(t, testAppOptions{})
}

func newOnboardingTestAppWithOptions(t *testing.T, options testAppOptions) (*fiber.App, *gorm.DB) {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	templatesDir := filepath.Join(filepath.Dir(apiDir), "templates")
	databasePath := filepath.Join(t.TempDir(), "onboardly-test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.OpenSQLite(databasePath, logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager("en", "")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, HandlerConfig{
		SecretKey:         "test-secret-key-with-enough-length",
		TemplatesDir:      templatesDir,
		Location:          time.UTC,
		AdminUser:         "admin",
		AdminPasswordHash: options.adminPasswordHash,
		I18n:              i18nManager,
		Logger:            logger,
		Metrics:           metrics.New(),
		UserListCache:     cache.NewMemoryUserListCache(time.Minute),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, database
}

func sendJSON(t *testing.T, app *fiber.App, method string, path string, payload any, cookie string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	request := httptest.NewRequest(method, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return doRequest(t, app, request)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return doRequest(t, app, request)
}

func getPage(t *testing.T, app *fiber.App, path string, cookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	return doRequest(t, app, request)
}

func doRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

func decodeJSONBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(readBody(t, response)), &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// sessionCookieHeader returns the session cookie set by response as a Cookie
// request header value.
func sessionCookieHeader(t *testing.T, response *http.Response) string {
	t.Helper()

	cookie := responseCookie(response.Cookies(), sessionCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("session cookie is missing in response")
	}
	return cookie.Name + "=" + cookie.Value
}

// registerTestUser runs step 1 over JSON and returns the user id and the
// session cookie header.
func registerTestUser(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()

	response := sendJSON(t, app, http.MethodPost, "/onboarding/step1", map[string]string{
		"email":    email,
		"password": "correct-horse",
	}, "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected step1 status 200, got %d", response.StatusCode)
	}
	cookie := sessionCookieHeader(t, response)
	payload := decodeJSONBody(t, response)
	userID, _ := payload["userId"].(string)
	if userID == "" {
		t.Fatalf("expected userId in step1 response, got %#v", payload)
	}
	return userID, cookie
}

func validAddressPayload() map[string]string {
	return map[string]string{
		"streetAddress": "1 Main St",
		"city":          "Springfield",
		"state":         "IL",
		"zipCode":       "62701",
	}
}
