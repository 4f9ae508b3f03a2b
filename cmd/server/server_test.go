package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artson-scm/scrapdecision/internal/db"
	"github.com/artson-scm/scrapdecision/internal/migrations"
	"github.com/artson-scm/scrapdecision/internal/seed"
)

const (
	testAdminEmail    = "admin@artson.example"
	testAdminPassword = "s3cret-pass"
	testSessionSecret = "test-session-secret"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database, zap.NewNop()))
	_, err = seed.Run(database, seed.Config{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword})
	require.NoError(t, err)

	return database
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	database := newTestDB(t)
	return &server{
		auth:   newAuthService(database, testSessionSecret),
		db:     database,
		logger: zap.NewNop(),
	}
}

func postForm(t *testing.T, h http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func adminCookie(s *server) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: s.auth.createSessionValue(testAdminEmail)}
}

func defaultFormValues() url.Values {
	return url.Values{
		"scrap_mode":             {"mass"},
		"total_required_output":  {"1000"},
		"scrap_available":        {"1000"},
		"scrap_quality":          {"0.6"},
		"transport_cost_per_kg":  {"3"},
		"processing_cost_per_kg": {"4.5"},
		"new_material_cost":      {"56"},
		"scrap_sale_price":       {"24"},
	}
}
