package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/service"
)

// AnalyticsHandler serves per-tenant aggregates.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Register wires analytics routes onto a tenant-scoped group.
func (h *AnalyticsHandler) Register(g *echo.Group) {
	g.GET("/analytics/summary", h.Summary)
}

// Summary returns the tenant's activity summary.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	summary, err := h.analytics.Summary(c.Request().Context(), TenantDB(c))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, summary)
}
