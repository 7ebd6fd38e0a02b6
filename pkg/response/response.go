package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope. Error carries a stable
// machine-readable kind (e.g. "coupon_expired"); Message is human-readable.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// Fail sends an error response with the given HTTP status, error kind and message.
func Fail(c *gin.Context, status int, kind, message string) {
	c.JSON(status, Body{Success: false, Error: kind, Message: message})
}

// BadRequest sends 400 with error kind and message.
func BadRequest(c *gin.Context, kind, message string) {
	Fail(c, http.StatusBadRequest, kind, message)
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, kind, message string) {
	Fail(c, http.StatusUnauthorized, kind, message)
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, kind, message string) {
	Fail(c, http.StatusForbidden, kind, message)
}

// NotFound sends 404.
func NotFound(c *gin.Context, kind, message string) {
	Fail(c, http.StatusNotFound, kind, message)
}

// Conflict sends 409.
func Conflict(c *gin.Context, kind, message string) {
	Fail(c, http.StatusConflict, kind, message)
}

// Gone sends 410.
func Gone(c *gin.Context, kind, message string) {
	Fail(c, http.StatusGone, kind, message)
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, kind, message string) {
	Fail(c, http.StatusServiceUnavailable, kind, message)
}

// Internal sends 500 with a generic message; callers must not pass raw error text.
func Internal(c *gin.Context, kind, message string) {
	Fail(c, http.StatusInternalServerError, kind, message)
}
