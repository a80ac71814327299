package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) client {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, CORSOrigins: "http://localhost:3000"}
	return client{t: t, app: New(cfg, store.NewMemory(), recommend.New())}
}

func (c client) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, raw
}

func (c client) login(name, email string) string {
	c.t.Helper()
	creds := map[string]string{"name": name, "email": email, "password": "correct-horse"}
	status, _ := c.do(http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(c.t, http.StatusCreated, status)

	status, raw := c.do(http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(c.t, http.StatusOK, status, string(raw))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(raw, &out))
	require.NotEmpty(c.t, out.Token)
	return out.Token
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	status, raw := c.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"EcoEats API is running"}`, string(raw))

	status, raw = c.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	c := newClient(t)
	for _, path := range []string{"/api/auth/me", "/api/inventory/", "/api/recipes/suggestions/", "/api/audit-logs"} {
		status, raw := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Contains(t, string(raw), `"error"`, path)
	}
}

func TestPantryToSuggestionsFlow(t *testing.T) {
	c := newClient(t)
	admin := c.login("Ada", "ada@example.com")
	member := c.login("Bob", "bob@example.com")

	recipe := map[string]any{
		"id":               "scrambled",
		"name":             "Scrambled Eggs",
		"cuisine_type":     "International",
		"prep_time":        10,
		"uses_ingredients": []string{"eggs", "butter"},
		"ingredients":      []string{"3 eggs", "1 tbsp butter"},
		"instructions":     []string{"Whisk", "Cook"},
	}
	status, _ := c.do(http.MethodPost, "/api/recipes/", member, recipe)
	assert.Equal(t, http.StatusForbidden, status)
	status, raw := c.do(http.MethodPost, "/api/recipes/", admin, recipe)
	require.Equal(t, http.StatusCreated, status, string(raw))

	ids := map[string]string{}
	for _, it := range []struct {
		name string
		days int
	}{{"Eggs", 1}, {"Butter", 20}} {
		status, raw := c.do(http.MethodPost, "/api/inventory/", member, map[string]any{
			"name":                  it.name,
			"category":              "Dairy",
			"quantity":              1,
			"days_until_expiration": it.days,
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		var created struct {
			ID   string `json:"id"`
			Days int    `json:"days_until_expiration"`
		}
		require.NoError(t, json.Unmarshal(raw, &created))
		assert.Equal(t, it.days, created.Days)
		ids[it.name] = created.ID
	}

	// The admin's pantry is empty, so nothing is suggested to them.
	status, raw = c.do(http.MethodGet, "/api/recipes/suggestions/", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, raw = c.do(http.MethodGet, "/api/recipes/suggestions/?explain=true", member, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var scored []struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
		Urgency float64 `json:"urgency_score"`
	}
	require.NoError(t, json.Unmarshal(raw, &scored))
	require.Len(t, scored, 1)
	assert.Equal(t, "scrambled", scored[0].Recipe.ID)
	assert.InDelta(t, 1.75, scored[0].Urgency, 1e-9)

	status, raw = c.do(http.MethodGet, "/api/recipes/lookup?ingredients=eggs", member, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"scrambled"`)

	status, _ = c.do(http.MethodPost, fmt.Sprintf("/api/inventory/%s/mark-used/", ids["Eggs"]), member, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = c.do(http.MethodGet, "/api/inventory/history", member, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"status":"used"`)

	status, raw = c.do(http.MethodGet, "/api/inventory/"+ids["Eggs"]+"/", member, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(raw), `"error"`)

	// Without eggs the recipe no longer passes the availability gate.
	status, raw = c.do(http.MethodGet, "/api/recipes/suggestions/", member, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	// Items are private to their owner.
	status, _ = c.do(http.MethodGet, "/api/inventory/"+ids["Butter"]+"/", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodGet, "/api/audit-logs", member, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, raw = c.do(http.MethodGet, "/api/audit-logs?entity_type=inventory_item", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &logs))
	assert.Len(t, logs, 3)

	status, _ = c.do(http.MethodDelete, "/api/recipes/scrambled/", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodGet, "/api/recipes/scrambled/", member, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot, "short and stout"},
		{"not found", fmt.Errorf("load: %w", store.ErrNotFound), fiber.StatusNotFound, "Not found"},
		{"duplicate", store.ErrDuplicate, fiber.StatusConflict, "Already exists"},
		{"unexpected", errors.New("disk on fire"), fiber.StatusInternalServerError, "Unexpected server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			raw, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(raw), tt.wantBody)
		})
	}
}
