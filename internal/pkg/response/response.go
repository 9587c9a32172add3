package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/pkg/apperror"
)

// APIResponse is the envelope every endpoint returns
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// ValidationResponse carries field-level validation detail
type ValidationResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors"`
}

func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// OK sends a 200 response
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

func BadRequest(c *gin.Context, message string) {
	JSON(c, http.StatusBadRequest, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	JSON(c, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	JSON(c, http.StatusForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	JSON(c, http.StatusNotFound, message, nil)
}

func Conflict(c *gin.Context, message string) {
	JSON(c, http.StatusConflict, message, nil)
}

func TooManyRequests(c *gin.Context, message string) {
	JSON(c, http.StatusTooManyRequests, message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	JSON(c, http.StatusInternalServerError, message, nil)
}

// ValidationFailed sends a 400 with per-field messages
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Errors:     fields,
	})
}

// FromError maps an application error to its HTTP status. Unexpected errors
// are logged in full and surfaced as a generic 500.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		Unauthorized(c, apperror.Message(err))
	case errors.Is(err, apperror.ErrForbidden):
		Forbidden(c, apperror.Message(err))
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(c, apperror.Message(err))
	case errors.Is(err, apperror.ErrConflict):
		Conflict(c, apperror.Message(err))
	case errors.Is(err, apperror.ErrValidation):
		BadRequest(c, apperror.Message(err))
	case errors.Is(err, apperror.ErrInvariant):
		BadRequest(c, apperror.Message(err))
	default:
		log.Printf("unexpected error at %s: %v", c.Request.URL.Path, err)
		InternalServerError(c, "An unexpected error occurred")
	}
}
