package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

// UserHandler covers admin user management.
type UserHandler struct {
	store *store.Facade
}

func NewUserHandler(f *store.Facade) *UserHandler {
	return &UserHandler{store: f}
}

// List returns every user account.
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.GetAllUsers(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// ListUnlinked returns user accounts without an employee profile.
// GET /api/admin/users/unlinked
func (h *UserHandler) ListUnlinked(c *gin.Context) {
	users, err := h.store.GetUsersWithoutEmployeeProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole changes a user's role.
// PUT /api/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.store.UpdateUserRole(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
