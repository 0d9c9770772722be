package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/store"
)

type HealthHandler struct {
	store *store.Facade
}

func NewHealthHandler(f *store.Facade) *HealthHandler {
	return &HealthHandler{store: f}
}

// CheckHealth reports service and backend connectivity status.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	dbStatus := "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	status := 200
	if overall != "healthy" {
		status = 503
	}
	c.JSON(status, gin.H{
		"status":   overall,
		"service":  "timetracker",
		"database": dbStatus,
	})
}
