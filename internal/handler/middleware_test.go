package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

func newTestManager(t *testing.T) *tenantdb.Manager {
	t.Helper()

	m, err := tenantdb.New(context.Background(), tenantdb.Config{
		MasterURL: filepath.Join(t.TempDir(), "master.db"),
		Prefix:    "tenant_",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newTenantEcho(t *testing.T, m *tenantdb.Manager) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/t", func(c echo.Context) error {
		if TenantDB(c) == nil {
			t.Error("tenant db missing from context")
		}
		return OK(c, http.StatusOK, map[string]string{"tenant": TenantID(c)})
	}, TenantContext(m))
	return e
}

func TestTenantContextRequiresTenant(t *testing.T) {
	e := newTenantEcho(t, newTestManager(t))

	// No header and no authenticated user: a client error, not a server one.
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenant_required")
}

func TestTenantContextUsesHeader(t *testing.T) {
	e := newTenantEcho(t, newTestManager(t))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(TenantHeader, "org-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "org-1")
}

func TestTenantContextFallsBackToUserOrganization(t *testing.T) {
	m := newTestManager(t)
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler

	user := &domain.User{ID: "user-1", OrganizationID: "org-9"}
	setUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxUserKey, user)
			return next(c)
		}
	}
	e.GET("/t", func(c echo.Context) error {
		return OK(c, http.StatusOK, map[string]string{"tenant": TenantID(c)})
	}, setUser, TenantContext(m))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "org-9")
}

func TestTenantContextRejectsForeignTenant(t *testing.T) {
	m := newTestManager(t)
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler

	user := &domain.User{ID: "user-1", OrganizationID: "org-9"}
	setUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxUserKey, user)
			return next(c)
		}
	}
	e.GET("/t", func(c echo.Context) error {
		return OK(c, http.StatusOK, nil)
	}, setUser, TenantContext(m))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(TenantHeader, "someone-else")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTenantContextInvalidIDIsClientError(t *testing.T) {
	e := newTenantEcho(t, newTestManager(t))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(TenantHeader, "../escape")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
