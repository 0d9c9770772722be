package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

// OrganizationHandler covers organizations and their departments.
type OrganizationHandler struct {
	store *store.Facade
}

func NewOrganizationHandler(f *store.Facade) *OrganizationHandler {
	return &OrganizationHandler{store: f}
}

type organizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type organizationPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.store.GetOrganizations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orgs)
}

// GET /api/organizations/:id
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	org, err := h.store.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, org)
}

// POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org, err := h.store.CreateOrganization(c.Request.Context(), middleware.GetUserID(c), store.CreateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, org)
}

// PUT /api/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req organizationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org, err := h.store.UpdateOrganization(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.OrganizationPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, org)
}

// DELETE /api/organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteOrganization(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "organization deleted successfully"})
}

type departmentRequest struct {
	Name           string  `json:"name" binding:"required"`
	OrganizationID string  `json:"organizationId" binding:"required"`
	Description    string  `json:"description"`
	ManagerID      *string `json:"managerId"`
}

type departmentPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ManagerID   *string `json:"managerId"`
}

// GET /api/departments?organizationId=...
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	departments, err := h.store.GetDepartments(c.Request.Context(), c.Query("organizationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, departments)
}

// GET /api/departments/:id
func (h *OrganizationHandler) GetDepartment(c *gin.Context) {
	department, err := h.store.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, department)
}

// POST /api/departments
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	department, err := h.store.CreateDepartment(c.Request.Context(), middleware.GetUserID(c), store.CreateDepartmentInput{
		Name:           req.Name,
		OrganizationID: req.OrganizationID,
		Description:    req.Description,
		ManagerID:      req.ManagerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// PUT /api/departments/:id
func (h *OrganizationHandler) UpdateDepartment(c *gin.Context) {
	var req departmentPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	department, err := h.store.UpdateDepartment(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.DepartmentPatch{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, department)
}

// DELETE /api/departments/:id
func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	if err := h.store.DeleteDepartment(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "department deleted successfully"})
}

type assignManagerRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

// AssignManager sets the department's manager.
// PUT /api/departments/:id/manager
func (h *OrganizationHandler) AssignManager(c *gin.Context) {
	var req assignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	department, err := h.store.AssignManagerToDepartment(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, department)
}
