package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/property-dashboard/internal/auth"
	"github.com/example/property-dashboard/internal/httpapi"
	"github.com/example/property-dashboard/internal/property"
	"github.com/example/property-dashboard/internal/storage"
	"github.com/example/property-dashboard/internal/testfixtures"
)

type apiHarness struct {
	server   *httptest.Server
	sessions *auth.SessionContainer
	data     *property.Container
	notifier *testfixtures.RecordingNotifier
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	issuer := auth.NewTokenIssuer("test-secret", time.Hour, nil)
	credentials, err := auth.NewMockCredentialStore(issuer, 0, nil)
	if err != nil {
		t.Fatalf("NewMockCredentialStore failed: %v", err)
	}

	notifier := testfixtures.NewRecordingNotifier()
	sessions := auth.NewSessionContainer(credentials, storage.NewMemoryStore(), notifier, testfixtures.NewRecordingNavigator(), nil)
	t.Cleanup(sessions.Close)

	data := property.NewContainer(storage.NewMemoryStore(), notifier, time.Second, nil)
	t.Cleanup(data.Close)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:     httpapi.NewAuthHandler(sessions, credentials, nil),
		Property: httpapi.NewPropertyHandler(data, nil),
		Session:  httpapi.RequireSession(sessions, nil),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiHarness{server: server, sessions: sessions, data: data, notifier: notifier}
}

func (h *apiHarness) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (h *apiHarness) login(t *testing.T, email string) string {
	t.Helper()

	resp := h.request(t, http.MethodPost, "/sessions", "", map[string]string{
		"email":    email,
		"password": auth.MockPassword,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from login, got %d", resp.StatusCode)
	}

	var payload struct {
		Token string    `json:"token"`
		User  auth.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected a session token")
	}
	return payload.Token
}

func TestAPI_Login(t *testing.T) {
	t.Parallel()

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		resp := h.request(t, http.MethodPost, "/sessions", "", map[string]string{
			"email":    "admin@example.com",
			"password": auth.MockPassword,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		var payload struct {
			Token string    `json:"token"`
			User  auth.User `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.User.Email != "admin@example.com" || payload.User.Role != auth.RoleAdmin {
			t.Fatalf("unexpected user %+v", payload.User)
		}
		if payload.Token == "" {
			t.Fatal("expected a token")
		}
	})

	t.Run("rejects invalid credentials", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		resp := h.request(t, http.MethodPost, "/sessions", "", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}

		var payload struct {
			ErrorCode string `json:"error_code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("unexpected error code %q", payload.ErrorCode)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		req, err := http.NewRequest(http.MethodPost, h.server.URL+"/sessions", bytes.NewReader([]byte("{broken")))
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestAPI_RequireSession(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)

	resp := h.request(t, http.MethodGet, "/property", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}

	resp = h.request(t, http.MethodGet, "/property", "made-up-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bogus token, got %d", resp.StatusCode)
	}

	token := h.login(t, "tenant@example.com")
	resp = h.request(t, http.MethodGet, "/property", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", resp.StatusCode)
	}

	var state property.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if state.Resident.Name != "Max Mustermann" {
		t.Fatalf("unexpected resident %+v", state.Resident)
	}
}

func TestAPI_Logout(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)
	token := h.login(t, "manager@example.com")

	resp := h.request(t, http.MethodDelete, "/sessions/current", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// The revoked token no longer opens protected routes.
	resp = h.request(t, http.MethodGet, "/property", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestAPI_MaintenanceOrders(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)
	token := h.login(t, "manager@example.com")

	t.Run("creates a new order", func(t *testing.T) {
		order := testfixtures.NewOrderFixture(testfixtures.WithOrderID("5"), testfixtures.WithOrderType("Dach")).Order()
		resp := h.request(t, http.MethodPost, "/property/orders", token, order)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		order := testfixtures.NewOrderFixture(testfixtures.WithOrderID("5")).Order()
		resp := h.request(t, http.MethodPost, "/property/orders", token, order)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("updates an existing order", func(t *testing.T) {
		resp := h.request(t, http.MethodPatch, "/property/orders/5", token, map[string]string{"status": "completed"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var order property.MaintenanceOrder
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode order: %v", err)
		}
		if order.Status != property.OrderCompleted {
			t.Fatalf("expected completed status, got %s", order.Status)
		}
	})

	t.Run("reports 404 for a missing id", func(t *testing.T) {
		resp := h.request(t, http.MethodPatch, "/property/orders/999", token, map[string]string{"status": "completed"})
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}

		resp = h.request(t, http.MethodDelete, "/property/orders/999", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("deletes an order", func(t *testing.T) {
		resp := h.request(t, http.MethodDelete, "/property/orders/5", token, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}
	})

	t.Run("tallies orders by status", func(t *testing.T) {
		resp := h.request(t, http.MethodGet, "/property/orders/totals", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var totals property.OrderTally
		if err := json.NewDecoder(resp.Body).Decode(&totals); err != nil {
			t.Fatalf("failed to decode totals: %v", err)
		}
		if totals.Pending != 2 || totals.InProgress != 1 || totals.Completed != 1 {
			t.Fatalf("unexpected totals %+v", totals)
		}
	})
}

func TestAPI_FurnitureSearch(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)
	token := h.login(t, "tenant@example.com")

	resp := h.request(t, http.MethodGet, "/property/furniture?q=bett", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []property.FurnitureItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Bett" {
		t.Fatalf("unexpected search result %+v", items)
	}
}

func TestAPI_ListUsers(t *testing.T) {
	t.Parallel()

	t.Run("requires the admin role", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		token := h.login(t, "tenant@example.com")

		resp := h.request(t, http.MethodGet, "/users", token, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403 for a tenant, got %d", resp.StatusCode)
		}
	})

	t.Run("lists every account for an administrator", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		token := h.login(t, "admin@example.com")

		resp := h.request(t, http.MethodGet, "/users", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var users []auth.User
		if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
			t.Fatalf("failed to decode users: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(users))
		}
	})
}

func TestAPI_Profile(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)
	token := h.login(t, "tenant@example.com")

	resp := h.request(t, http.MethodGet, "/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var user auth.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if user.Name != "Anna Müller" {
		t.Fatalf("unexpected profile %+v", user)
	}

	resp = h.request(t, http.MethodPatch, "/profile", token, map[string]string{"name": "Anna Schulz"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode updated profile: %v", err)
	}
	if user.Name != "Anna Schulz" {
		t.Fatalf("expected updated name, got %q", user.Name)
	}
	if user.Department != "Resident" {
		t.Fatalf("expected department to be preserved, got %q", user.Department)
	}
}

func TestAPI_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates and signs in a new account", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		resp := h.request(t, http.MethodPost, "/users", "", map[string]string{
			"email":    "neu@example.com",
			"password": "password123",
			"name":     "Neue Person",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		var payload struct {
			Token string    `json:"token"`
			User  auth.User `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.User.Email != "neu@example.com" || payload.User.Role != auth.RoleTenant {
			t.Fatalf("unexpected user %+v", payload.User)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		h := newAPIHarness(t)
		resp := h.request(t, http.MethodPost, "/users", "", map[string]string{
			"email":    "not-an-address",
			"password": "short",
			"name":     "",
		})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", resp.StatusCode)
		}
	})
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newAPIHarness(t)
	resp := h.request(t, http.MethodGet, "/sessions", "", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}
