package api

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "admin-password"

func newAdminProtectedTestApp(t *testing.T) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	app, _ := newOnboardingTestAppWithOptions(t, testAppOptions{adminPasswordHash: string(hash)})
	return app
}

func adminRequest(t *testing.T, app *fiber.App, path string, username string, password string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	request.Header.Set("Accept", "application/json")
	if username != "" || password != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		request.Header.Set("Authorization", "Basic "+encoded)
	}
	return doRequest(t, app, request)
}

func TestAdminRoutesRequireBasicAuth(t *testing.T) {
	app := newAdminProtectedTestApp(t)

	for _, path := range []string{"/admin", "/data", "/api/users"} {
		response := adminRequest(t, app, path, "", "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected %s to require auth, got %d", path, response.StatusCode)
		}
		if response.Header.Get("WWW-Authenticate") == "" {
			t.Fatalf("expected WWW-Authenticate challenge on %s", path)
		}
	}

	response := adminRequest(t, app, "/api/users", "admin", testAdminPassword)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected valid credentials to pass, got %d", response.StatusCode)
	}
}

func TestAdminAuthLeavesWizardPublic(t *testing.T) {
	app := newAdminProtectedTestApp(t)

	for _, path := range []string{"/", "/api/config", "/healthz"} {
		response := getPage(t, app, path, "")
		if response.StatusCode != http.StatusOK {
			t.Fatalf("expected %s to stay public, got %d", path, response.StatusCode)
		}
	}
}

func TestAdminAuthBlocksAfterRepeatedFailures(t *testing.T) {
	app := newAdminProtectedTestApp(t)

	for attempt := 0; attempt < adminAuthAttemptLimit; attempt++ {
		response := adminRequest(t, app, "/api/users", "admin", "wrong-password")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", attempt+1, response.StatusCode)
		}
	}

	response := adminRequest(t, app, "/api/users", "admin", testAdminPassword)
	if response.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected limiter to block even valid credentials, got %d", response.StatusCode)
	}
}

func TestAdminAuthRejectsWrongUsername(t *testing.T) {
	app := newAdminProtectedTestApp(t)

	response := adminRequest(t, app, "/api/users", "root", testAdminPassword)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong username, got %d", response.StatusCode)
	}
}
