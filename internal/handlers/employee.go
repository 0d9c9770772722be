package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type EmployeeHandler struct {
	store *store.Facade
}

func NewEmployeeHandler(f *store.Facade) *EmployeeHandler {
	return &EmployeeHandler{store: f}
}

type employeeRequest struct {
	EmployeeID string  `json:"employeeId" binding:"required"`
	FirstName  string  `json:"firstName" binding:"required"`
	LastName   string  `json:"lastName" binding:"required"`
	Department string  `json:"department"`
	UserID     *string `json:"userId"`
}

type employeePatchRequest struct {
	EmployeeID *string `json:"employeeId"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Department *string `json:"department"`
}

// List returns every employee profile.
// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.store.GetEmployees(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employees)
}

// GetByID returns one employee.
// GET /api/employees/:id
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employee, err := h.store.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

// Create adds an employee profile.
// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	employee, err := h.store.CreateEmployee(c.Request.Context(), middleware.GetUserID(c), store.CreateEmployeeInput{
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		UserID:     req.UserID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update applies a partial update.
// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req employeePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	employee, err := h.store.UpdateEmployee(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), store.EmployeePatch{
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

// Delete removes an employee profile.
// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteEmployee(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "employee deleted successfully"})
}

type linkUserRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// LinkUser attaches a user account to the employee.
// POST /api/employees/:id/link
func (h *EmployeeHandler) LinkUser(c *gin.Context) {
	var req linkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	employee, err := h.store.LinkUserToEmployee(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employee)
}

type assignEmployeesRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}

// AssignToProject replaces the project's full assignment set. An empty list
// clears all assignments.
// POST /api/projects/:id/employees
func (h *EmployeeHandler) AssignToProject(c *gin.Context) {
	var req assignEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.store.AssignEmployeesToProject(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.EmployeeIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "assignments updated"})
}

// ListForProject returns the employees assigned to a project.
// GET /api/projects/:id/employees
func (h *EmployeeHandler) ListForProject(c *gin.Context) {
	employees, err := h.store.GetProjectEmployees(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employees)
}

// RemoveFromProject removes one assignment.
// DELETE /api/projects/:id/employees/:employeeId
func (h *EmployeeHandler) RemoveFromProject(c *gin.Context) {
	err := h.store.RemoveEmployeeFromProject(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "assignment removed"})
}
