package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/service"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

const (
	// TenantHeader carries an explicit tenant selection. Absent the header,
	// the authenticated user's organization is used.
	TenantHeader = "X-Tenant-ID"

	ctxUserKey     = "current_user"
	ctxTenantIDKey = "tenant_id"
	ctxTenantDBKey = "tenant_db"
)

// RequestLogger logs each request with latency and status.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			slog.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}

// JWTAuth validates the bearer token and loads the current user from the
// master database. The loaded user is stored on the request context.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return domain.ErrUnauthorized
			}

			userID, err := auth.ValidateToken(token)
			if err != nil {
				return err
			}

			user, err := auth.CurrentUser(c.Request().Context(), userID)
			if err != nil {
				return err
			}

			c.Set(ctxUserKey, user)
			return next(c)
		}
	}
}

// TenantContext resolves the tenant for the request and attaches a live
// database handle. Resolution order: X-Tenant-ID header, then the user's
// organization. A request with neither fails with 400; a tenant whose
// database cannot be opened fails with 503. Identity rows are mirrored into
// the tenant database on a best-effort basis.
func TenantContext(tenants *tenantdb.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := c.Request().Header.Get(TenantHeader)

			user := CurrentUser(c)
			if tenantID == "" && user != nil {
				tenantID = user.OrganizationID
			}
			if tenantID == "" {
				return domain.ErrTenantRequired
			}
			if user != nil && user.OrganizationID != tenantID {
				return domain.ErrForbidden
			}

			ctx := c.Request().Context()
			db, err := tenants.Tenant(ctx, tenantID)
			if err != nil {
				return err
			}

			if user != nil {
				tenants.EnsureIdentity(ctx, tenantID, user.ID)
			}

			c.Set(ctxTenantIDKey, tenantID)
			c.Set(ctxTenantDBKey, db)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil outside JWTAuth.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

// TenantID returns the resolved tenant id for the request.
func TenantID(c echo.Context) string {
	id, _ := c.Get(ctxTenantIDKey).(string)
	return id
}

// TenantDB returns the tenant database handle attached by TenantContext.
func TenantDB(c echo.Context) *sqlx.DB {
	db, _ := c.Get(ctxTenantDBKey).(*sqlx.DB)
	return db
}
