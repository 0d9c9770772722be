package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type DashboardHandler struct {
	store *store.Facade
}

func NewDashboardHandler(f *store.Facade) *DashboardHandler {
	return &DashboardHandler{store: f}
}

// GetStats returns today/week/month hour sums and the active project count.
// An explicit startDate/endDate pair overrides the default week window.
// GET /api/dashboard/stats?startDate=&endDate=
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.store.GetDashboardStats(c.Request.Context(), middleware.GetUserID(c),
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// GetBreakdown returns per-project hours and percentages over a date range.
// GET /api/dashboard/breakdown?startDate=&endDate=
func (h *DashboardHandler) GetBreakdown(c *gin.Context) {
	rows, err := h.store.GetProjectTimeBreakdown(c.Request.Context(), middleware.GetUserID(c),
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// GetDepartmentSummary returns per-department hour totals.
// GET /api/dashboard/departments?startDate=&endDate=
func (h *DashboardHandler) GetDepartmentSummary(c *gin.Context) {
	rows, err := h.store.GetDepartmentHoursSummary(c.Request.Context(), middleware.GetUserID(c),
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// GetRecentActivity returns the caller's latest entries.
// GET /api/dashboard/recent?limit=&startDate=&endDate=
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.store.GetRecentActivity(c.Request.Context(), middleware.GetUserID(c), limit,
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}
