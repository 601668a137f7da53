// Package api defines the JSON envelope shared by every HTTP endpoint.
//
// All responses carry a boolean success flag; payloads go under data, human
// readable text under message, and internal error detail under error (only
// exposed while gin runs in debug mode).
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse struct {
	Success    bool  `json:"success"`
	Count      int   `json:"count"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Data       any   `json:"data"`
}

// ErrorResponse builds a failure envelope.
func ErrorResponse(message string) Response {
	return Response{Success: false, Message: message}
}

// OK writes a success envelope with the given status.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse(message))
}

// ServerError logs err and writes a 500 envelope. The underlying error text is
// only included while gin is in debug mode.
func ServerError(c *gin.Context, message string, err error) {
	slog.Error(message, "error", err, "method", c.Request.Method, "path", c.FullPath(), "remote_addr", c.ClientIP())

	resp := ErrorResponse(message)
	if err != nil && gin.Mode() == gin.DebugMode {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
