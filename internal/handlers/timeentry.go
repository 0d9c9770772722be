package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type TimeEntryHandler struct {
	store *store.Facade
}

func NewTimeEntryHandler(f *store.Facade) *TimeEntryHandler {
	return &TimeEntryHandler{store: f}
}

type timeEntryRequest struct {
	UserID      string  `json:"userId"`
	ProjectID   string  `json:"projectId" binding:"required"`
	TaskID      *string `json:"taskId"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required"`
	StartTime   string  `json:"startTime" binding:"required"`
	EndTime     string  `json:"endTime" binding:"required"`
	Duration    float64 `json:"duration"`
}

type timeEntryPatchRequest struct {
	ProjectID   *string  `json:"projectId"`
	TaskID      *string  `json:"taskId"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	StartTime   *string  `json:"startTime"`
	EndTime     *string  `json:"endTime"`
	Duration    *float64 `json:"duration"`
}

// List returns time entries inside the caller's visibility, newest first.
// GET /api/time-entries?projectId=&taskId=&startDate=&endDate=&limit=&offset=
func (h *TimeEntryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	entries, err := h.store.GetTimeEntries(c.Request.Context(), middleware.GetUserID(c), store.TimeEntryFilters{
		ProjectID: c.Query("projectId"),
		TaskID:    c.Query("taskId"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// GetByID returns one entry if the caller may see it.
// GET /api/time-entries/:id
func (h *TimeEntryHandler) GetByID(c *gin.Context) {
	entry, err := h.store.GetTimeEntry(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

// Create logs a block of work.
// POST /api/time-entries
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req timeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.store.CreateTimeEntry(c.Request.Context(), middleware.GetUserID(c), store.CreateTimeEntryInput{
		UserID:      req.UserID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update applies a partial update within the caller's visibility.
// PUT /api/time-entries/:id
func (h *TimeEntryHandler) Update(c *gin.Context) {
	var req timeEntryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.store.UpdateTimeEntry(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.TimeEntryPatch{
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

// Delete removes an entry within the caller's visibility.
// DELETE /api/time-entries/:id
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteTimeEntry(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "time entry deleted successfully"})
}
