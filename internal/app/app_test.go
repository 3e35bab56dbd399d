package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"akun/internal/app"
	"akun/internal/config"
	"akun/internal/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		AppName:        "akun-test",
		AppEnv:         "test",
		AppPort:        ":0",
		DatabaseDriver: database.DriverSQLite,
		DatabaseDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:      "test_jwt_secret",
		SessionTTL:     time.Hour,
		SessionDriver:  "memory",
	}

	a, err := app.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestHealthCheck(t *testing.T) {
	a := newTestApp(t)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "disabled", body["rabbitmq"])
}

func TestStartConsumersWithoutBroker(t *testing.T) {
	a := newTestApp(t)
	assert.NoError(t, a.StartConsumers())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/profile"} {
		resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRegisterLoginAndViewProfile(t *testing.T) {
	a := newTestApp(t)

	post := func(path string, payload map[string]string) *http.Response {
		b, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		resp, err := a.Fiber.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := post("/api/v1/auth/register", map[string]string{"name": "Jane", "email": "jane@example.com", "password": "password123"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post("/api/v1/auth/login", map[string]string{"email": "jane@example.com", "password": "password123"})
	var login map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "jane@example.com", profile.User.Email)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := app.New(&config.Config{DatabaseDriver: "oracle"}, logrus.New())
	assert.Error(t, err)
}
