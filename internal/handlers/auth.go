package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nvallee/timetracker/backend/internal/config"
	"github.com/nvallee/timetracker/backend/internal/middleware"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/internal/utils"
	"github.com/nvallee/timetracker/backend/pkg/response"
)

type AuthHandler struct {
	store *store.Facade
	cfg   *config.Config
}

func NewAuthHandler(f *store.Facade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: f, cfg: cfg}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a local account. New accounts always start as employee;
// an admin promotes them afterwards.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.store.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	} else if !store.IsNotFound(err) {
		response.Error(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.ServerError(c, "failed to hash password")
		return
	}

	user, err := h.store.UpsertUser(c.Request.Context(), store.UpsertUserInput{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login verifies credentials and issues a token. A successful login also
// refreshes the user's profile row and login timestamp.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		response.Error(c, err)
		return
	}
	if !user.IsActive || !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	user, err = h.store.UpsertUser(c.Request.Context(), store.UpsertUserInput{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireHour)
	if err != nil {
		response.ServerError(c, "failed to issue token")
		return
	}

	response.Success(c, gin.H{"token": token, "user": user})
}

// GetCurrentUser returns the authenticated user's own record.
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Logout is a no-op for stateless tokens; the client discards its copy.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out"})
}
