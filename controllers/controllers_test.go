package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/districtnet/wifi-dashboard/database"
	authmiddleware "github.com/districtnet/wifi-dashboard/middleware"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
	"github.com/districtnet/wifi-dashboard/services"
)

// apiEnvelope mirrors models.APIResponse with a raw data payload so
// tests can decode it into the expected type.
type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func setupTestRouter(t *testing.T) (*chi.Mux, *services.Services) {
	dbPath := "test_" + time.Now().Format("20060102150405.000") + ".db"

	t.Cleanup(func() {
		database.CloseDB()
		os.Remove(dbPath)
	})

	require.NoError(t, database.InitializeDatabase(dbPath), "failed to initialize test database")

	repos := repositories.NewRepositories(database.GetDB())
	srvs := services.NewServices(repos)
	ctrl := NewControllers(srvs)

	r := chi.NewRouter()

	sessionHandler, err := session.Sessioner(session.Options{
		Provider:   "memory",
		CookieName: "wifidash_session_test",
	})
	require.NoError(t, err)
	r.Use(sessionHandler)

	r.Post("/api/auth/login", ctrl.Auth.APILogin)

	r.Route("/api", func(r chi.Router) {
		r.Use(authmiddleware.RequireAPIAuth)

		r.Get("/districts", ctrl.Districts.List)
		r.Get("/districts/{id}", ctrl.Districts.Get)
		r.Get("/devices", ctrl.Devices.List)
		r.Get("/devices/{id}/connections", ctrl.Devices.Connections)
		r.Get("/security-events", ctrl.Security.List)
		r.Get("/metrics/summary", ctrl.Dashboard.MetricsSummary)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAPIRole(models.RoleUser))

			r.Post("/districts", ctrl.Districts.Create)
			r.Put("/districts/{id}", ctrl.Districts.Update)
			r.Post("/devices", ctrl.Devices.Create)
			r.Delete("/devices/{id}", ctrl.Devices.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAPIRole(models.RoleAdmin))

			r.Delete("/districts/{id}", ctrl.Districts.Delete)
			r.Post("/security-events/{id}/resolve", ctrl.Security.Resolve)
			r.Get("/users", ctrl.Users.List)
			r.Post("/users", ctrl.Users.Create)
		})
	})

	return r, srvs
}

func createTestUser(t *testing.T, srvs *services.Services, username, role string) {
	t.Helper()
	_, err := srvs.Users.Create(context.Background(), &models.UserForm{
		Username: username,
		Email:    username + "@district.example",
		Password: "testpassword",
		Role:     role,
		Active:   true,
	})
	require.NoError(t, err)
}

func loginForToken(t *testing.T, r http.Handler, username string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": "testpassword"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func doJSON(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAPILogin(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "apiuser", models.RoleUser)

	// Valid credentials return a usable token
	token := loginForToken(t, r, "apiuser")
	rec := doJSON(r, "GET", "/api/districts", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is a 401 envelope
	body, _ := json.Marshal(map[string]string{"username": "apiuser", "password": "wrong"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
}

func TestAPIRequiresAuthentication(t *testing.T) {
	r, _ := setupTestRouter(t)

	rec := doJSON(r, "GET", "/api/districts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = doJSON(r, "GET", "/api/districts", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRoleGating(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "viewer", models.RoleViewer)
	createTestUser(t, srvs, "operator", models.RoleUser)
	createTestUser(t, srvs, "boss", models.RoleAdmin)

	viewerToken := loginForToken(t, r, "viewer")
	operatorToken := loginForToken(t, r, "operator")
	adminToken := loginForToken(t, r, "boss")

	form := models.DistrictForm{Name: "Gated", TotalHotspots: 5, ActiveHotspots: 5}

	// Viewers can read but not mutate
	rec := doJSON(r, "GET", "/api/districts", viewerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(r, "POST", "/api/districts", viewerToken, form)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Users can mutate but not touch the admin surface
	rec = doJSON(r, "POST", "/api/districts", operatorToken, form)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var created models.District
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec = doJSON(r, "DELETE", fmt.Sprintf("/api/districts/%d", created.ID), operatorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(r, "GET", "/api/users", operatorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can
	rec = doJSON(r, "DELETE", fmt.Sprintf("/api/districts/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(r, "GET", "/api/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDistrictAPI(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "operator", models.RoleUser)
	token := loginForToken(t, r, "operator")

	// Create
	rec := doJSON(r, "POST", "/api/districts", token, models.DistrictForm{
		Name:           "East Mesa",
		TotalHotspots:  16,
		ActiveHotspots: 14,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var created models.District
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.DistrictStatusHealthy, created.Status)

	// Duplicate name conflicts
	rec = doJSON(r, "POST", "/api/districts", token, models.DistrictForm{
		Name:           "East Mesa",
		TotalHotspots:  1,
		ActiveHotspots: 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Validation failures are 400
	rec = doJSON(r, "POST", "/api/districts", token, models.DistrictForm{
		Name:           "",
		TotalHotspots:  1,
		ActiveHotspots: 5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Get by ID
	rec = doJSON(r, "GET", fmt.Sprintf("/api/districts/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Bad and missing IDs
	rec = doJSON(r, "GET", "/api/districts/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(r, "GET", "/api/districts/99999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Update
	rec = doJSON(r, "PUT", fmt.Sprintf("/api/districts/%d", created.ID), token, models.DistrictForm{
		Name:           "East Mesa",
		TotalHotspots:  16,
		ActiveHotspots: 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var updated models.District
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.DistrictStatusOffline, updated.Status)
}

func TestDeviceAPI(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "operator", models.RoleUser)
	token := loginForToken(t, r, "operator")

	rec := doJSON(r, "POST", "/api/districts", token, models.DistrictForm{
		Name:           "Device District",
		TotalHotspots:  4,
		ActiveHotspots: 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var district models.District
	require.NoError(t, json.Unmarshal(env.Data, &district))

	// Create a device in it
	rec = doJSON(r, "POST", "/api/devices", token, models.DeviceForm{
		Identifier: "ab:cd:ef:01:02:03",
		Name:       "Test beacon",
		DeviceType: models.DeviceTypeIoT,
		DistrictID: district.ID,
		Active:     true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var device models.Device
	require.NoError(t, json.Unmarshal(env.Data, &device))
	assert.Equal(t, "AB:CD:EF:01:02:03", device.Identifier)

	// Connections endpoint answers for the new device
	rec = doJSON(r, "GET", fmt.Sprintf("/api/devices/%d/connections", device.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Device in a missing district is 404
	rec = doJSON(r, "POST", "/api/devices", token, models.DeviceForm{
		Identifier: "ab:cd:ef:01:02:04",
		Name:       "Orphan",
		DeviceType: models.DeviceTypePhone,
		DistrictID: 99999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Delete
	rec = doJSON(r, "DELETE", fmt.Sprintf("/api/devices/%d", device.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityEventAPI(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "viewer", models.RoleViewer)
	createTestUser(t, srvs, "boss", models.RoleAdmin)

	viewerToken := loginForToken(t, r, "viewer")
	adminToken := loginForToken(t, r, "boss")

	// Force a failed login so there is an unresolved event to work with
	body, _ := json.Marshal(map[string]string{"username": "viewer", "password": "wrong"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	r.ServeHTTP(httptest.NewRecorder(), req)

	rec := doJSON(r, "GET", "/api/security-events?resolved=false", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var events []models.SecurityEvent
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.NotEmpty(t, events)
	event := events[0]
	assert.Equal(t, models.EventFailedLogin, event.EventType)

	// Bad filter value is a 400
	rec = doJSON(r, "GET", "/api/security-events?resolved=maybe", viewerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Viewers cannot resolve
	rec = doJSON(r, "POST", fmt.Sprintf("/api/security-events/%d/resolve", event.ID), viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can, once
	rec = doJSON(r, "POST", fmt.Sprintf("/api/security-events/%d/resolve", event.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resolved models.SecurityEvent
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "boss", resolved.ResolvedBy)

	rec = doJSON(r, "POST", fmt.Sprintf("/api/security-events/%d/resolve", event.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMetricsSummaryAPI(t *testing.T) {
	r, srvs := setupTestRouter(t)
	createTestUser(t, srvs, "viewer", models.RoleViewer)
	token := loginForToken(t, r, "viewer")

	rec := doJSON(r, "GET", "/api/metrics/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var summary models.MetricsSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Greater(t, summary.Districts, 0, "demo data seeds districts")
	assert.Greater(t, summary.TotalHotspots, 0)
}
