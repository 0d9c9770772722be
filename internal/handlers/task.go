package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type TaskHandler struct {
	store *store.Facade
}

func NewTaskHandler(f *store.Facade) *TaskHandler {
	return &TaskHandler{store: f}
}

type taskRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type taskPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// List returns tasks, optionally filtered by project.
// GET /api/tasks?projectId=...
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.store.GetTasks(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// GetByID returns a task.
// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// Create creates a task on a project.
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.store.CreateTask(c.Request.Context(), middleware.GetUserID(c), store.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update applies a partial update.
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.store.UpdateTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.TaskPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// Delete removes a task. Entries referencing it keep their hours but lose
// the task link.
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "task deleted successfully"})
}

type cloneTaskRequest struct {
	ProjectID string `json:"projectId"`
}

// Clone copies a task into the given project (or its own project when none
// is given). The copy starts in active status.
// POST /api/tasks/:id/clone
func (h *TaskHandler) Clone(c *gin.Context) {
	var req cloneTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.store.CloneTask(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}
