package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/terraincognita07/onboardly/internal/services"
)

func readConfigPages(t *testing.T, response *http.Response) ([]any, []any, string) {
	t.Helper()

	payload := decodeJSONBody(t, response)
	config, ok := payload["config"].(map[string]any)
	if !ok {
		t.Fatalf("expected config object, got %#v", payload)
	}
	page2, _ := config["page2"].([]any)
	page3, _ := config["page3"].([]any)
	message, _ := payload["message"].(string)
	return page2, page3, message
}

func TestGetConfigReturnsSeededDefaultOnFreshDatabase(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	response := getPage(t, app, "/api/config", "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	page2, page3, message := readConfigPages(t, response)
	if len(page2) != 2 || page2[0] != "aboutMe" || page2[1] != "address" {
		t.Fatalf("unexpected default page2: %#v", page2)
	}
	if len(page3) != 1 || page3[0] != "birthdate" {
		t.Fatalf("unexpected default page3: %#v", page3)
	}
	if message != "Configuration loaded from database." {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestAdminConfigJSONUpdateIsPersisted(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	update := sendJSON(t, app, http.MethodPost, "/admin/config", map[string]string{
		"aboutMe":   "3",
		"address":   "2",
		"birthdate": "2",
	}, "")
	if update.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", update.StatusCode)
	}
	if payload := decodeJSONBody(t, update); payload["message"] != "Configuration updated successfully!" {
		t.Fatalf("unexpected update payload: %#v", payload)
	}

	page2, page3, message := readConfigPages(t, getPage(t, app, "/api/config", ""))
	if len(page2) != 2 || page2[0] != "address" || page2[1] != "birthdate" {
		t.Fatalf("unexpected page2 after update: %#v", page2)
	}
	if len(page3) != 1 || page3[0] != "aboutMe" {
		t.Fatalf("unexpected page3 after update: %#v", page3)
	}
	if message != "Configuration loaded from database." {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestAdminConfigRejectsInvalidAssignments(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	tests := []struct {
		name          string
		assignments   map[string]string
		wantFormError string
		wantFieldKey  string
	}{
		{
			name:          "every field on one page",
			assignments:   map[string]string{"aboutMe": "2", "address": "2", "birthdate": "2"},
			wantFormError: services.MessageBothPagesRequired,
		},
		{
			name:         "unknown page",
			assignments:  map[string]string{"aboutMe": "4", "address": "2", "birthdate": "3"},
			wantFieldKey: "aboutMe",
		},
		{
			name:         "missing field",
			assignments:  map[string]string{"aboutMe": "2", "address": "3"},
			wantFieldKey: "birthdate",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := sendJSON(t, app, http.MethodPost, "/admin/config", test.assignments, "")
			if response.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("expected status 422, got %d", response.StatusCode)
			}
			payload := decodeJSONBody(t, response)
			if payload["status"] != "error" {
				t.Fatalf("expected error status, got %#v", payload)
			}
			if test.wantFormError != "" && payload["formError"] != test.wantFormError {
				t.Fatalf("expected formError %q, got %#v", test.wantFormError, payload["formError"])
			}
			if test.wantFieldKey != "" {
				fieldErrors, _ := payload["fieldErrors"].(map[string]any)
				if _, ok := fieldErrors[test.wantFieldKey]; !ok {
					t.Fatalf("expected field error for %s, got %#v", test.wantFieldKey, payload["fieldErrors"])
				}
			}
		})
	}

	page2, page3, message := readConfigPages(t, getPage(t, app, "/api/config", ""))
	if message != "Configuration loaded from database." {
		t.Fatalf("unexpected message %q", message)
	}
	if len(page2) != 2 || page2[0] != "aboutMe" || page2[1] != "address" || len(page3) != 1 {
		t.Fatalf("expected rejected updates to keep the seeded configuration, got page2=%#v page3=%#v", page2, page3)
	}
}

func TestAdminConfigResetRestoresDefault(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	sendJSON(t, app, http.MethodPost, "/admin/config", map[string]string{
		"aboutMe":   "3",
		"address":   "3",
		"birthdate": "2",
	}, "")

	reset := sendJSON(t, app, http.MethodPost, "/admin/config/reset", map[string]string{}, "")
	if reset.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", reset.StatusCode)
	}
	if payload := decodeJSONBody(t, reset); payload["message"] != "Configuration reset to default." {
		t.Fatalf("unexpected reset payload: %#v", payload)
	}

	page2, _, message := readConfigPages(t, getPage(t, app, "/api/config", ""))
	if len(page2) != 2 || message != "Using default configuration." {
		t.Fatalf("expected default configuration after reset, got page2=%#v message=%q", page2, message)
	}
}

func TestAdminConfigFormUsesFlashAfterRedirect(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	response := postForm(t, app, "/admin/config", url.Values{
		"aboutMe":   {"2"},
		"address":   {"3"},
		"birthdate": {"3"},
	}, "")
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/admin" {
		t.Fatalf("expected redirect to /admin, got %q", location)
	}
	flash := responseCookie(response.Cookies(), flashCookieName)
	if flash == nil || flash.Value == "" {
		t.Fatal("expected flash cookie after successful update")
	}

	page := getPage(t, app, "/admin", flashCookieName+"="+flash.Value)
	body := readBody(t, page)
	if !strings.Contains(body, "Configuration updated successfully!") {
		t.Fatal("expected flash message on admin page")
	}
	if !strings.Contains(body, `name="address" value="3" checked`) {
		t.Fatal("expected stored assignment to be preselected")
	}
}

func TestAdminConfigFormRerendersOnError(t *testing.T) {
	app, _ := newOnboardingTestApp(t)

	response := postForm(t, app, "/admin/config", url.Values{
		"aboutMe":   {"3"},
		"address":   {"3"},
		"birthdate": {"3"},
	}, "")
	if response.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", response.StatusCode)
	}
	body := readBody(t, response)
	if !strings.Contains(body, services.MessageBothPagesRequired) {
		t.Fatal("expected validation message on admin page")
	}
	if !strings.Contains(body, `name="aboutMe" value="3" checked`) {
		t.Fatal("expected submitted assignment to be echoed back")
	}
}
