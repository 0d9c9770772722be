package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/store"
)

// Response is the unified API response format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error maps a data-layer error onto an HTTP status: validation 400,
// permission 403, not-found 404, transient backend trouble 503 and
// everything else 500. Raw backend detail never reaches the client.
func Error(c *gin.Context, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case store.KindValidation:
			c.JSON(http.StatusBadRequest, Response{Code: 400, Message: se.Message})
		case store.KindPermission:
			c.JSON(http.StatusForbidden, Response{Code: 403, Message: se.Message})
		case store.KindNotFound:
			c.JSON(http.StatusNotFound, Response{Code: 404, Message: se.Message})
		case store.KindTransient:
			c.JSON(http.StatusServiceUnavailable, Response{Code: 503, Message: "service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: "internal server error"})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 401, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: msg})
}
