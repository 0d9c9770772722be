package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type ProjectHandler struct {
	store *store.Facade
}

func NewProjectHandler(f *store.Facade) *ProjectHandler {
	return &ProjectHandler{store: f}
}

type projectRequest struct {
	Name             string     `json:"name"`
	ProjectNumber    string     `json:"projectNumber"`
	Description      string     `json:"description"`
	Color            string     `json:"color"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	IsEnterpriseWide *bool      `json:"isEnterpriseWide"`
}

type projectPatchRequest struct {
	Name             *string    `json:"name"`
	ProjectNumber    *string    `json:"projectNumber"`
	Description      *string    `json:"description"`
	Color            *string    `json:"color"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	IsEnterpriseWide *bool      `json:"isEnterpriseWide"`
}

// List returns projects inside the caller's visibility.
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.store.GetProjects(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}

// GetByID returns one visible project.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.store.GetProject(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Create creates a project owned by the caller.
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.store.CreateProject(c.Request.Context(), middleware.GetUserID(c), store.CreateProjectInput{
		Name:             req.Name,
		ProjectNumber:    req.ProjectNumber,
		Description:      req.Description,
		Color:            req.Color,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IsEnterpriseWide: req.IsEnterpriseWide,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// Update applies a partial update.
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.store.UpdateProject(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.ProjectPatch{
		Name:             req.Name,
		ProjectNumber:    req.ProjectNumber,
		Description:      req.Description,
		Color:            req.Color,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IsEnterpriseWide: req.IsEnterpriseWide,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

// Delete removes a project and, via cascade, its tasks and entries.
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteProject(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "project deleted successfully"})
}

// TimeEntries lists all entries logged against the project, with the
// logging users attached.
// GET /api/projects/:id/time-entries
func (h *ProjectHandler) TimeEntries(c *gin.Context) {
	rows, err := h.store.GetTimeEntriesForProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
