package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/api/metrics"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

// StatsCache abstracts the dashboard stats cache (Redis). A Get error is
// treated as a miss; caching is best-effort and never fails the request.
type StatsCache interface {
	Get(ctx context.Context) (*ports.DashboardStats, error)
	Set(ctx context.Context, stats *ports.DashboardStats) error
}

// DashboardHandler serves the admin dashboard aggregates.
type DashboardHandler struct {
	service ports.RecordService
	cache   StatsCache
}

// NewDashboardHandler creates a DashboardHandler. cache may be nil, in which
// case every request recomputes the aggregates.
func NewDashboardHandler(service ports.RecordService, cache StatsCache) *DashboardHandler {
	return &DashboardHandler{service: service, cache: cache}
}

// Stats handles GET /v1/dashboard/stats.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cache != nil {
		if stats, err := h.cache.Get(ctx); err == nil {
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return c.JSON(http.StatusOK, stats)
		}
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	stats, err := h.service.DashboardStats(ctx)
	if err != nil {
		return err
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, stats)
	}

	return c.JSON(http.StatusOK, stats)
}
