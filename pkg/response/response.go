package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusBody is returned by write operations: {"status": "..."}.
type StatusBody struct {
	Status string `json:"status"`
}

// MessageBody is returned for client and server errors.
type MessageBody struct {
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorBody is the shape of routing and authentication failures.
type ErrorBody struct {
	Error string `json:"error"`
}

func Status(ctx *gin.Context, status int, text string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, StatusBody{Status: text})
}

func Data[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

func Message(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, MessageBody{
		Message:   message,
		Details:   details,
		RequestID: ctx.GetString("request_id"),
	})
}

// NotFound answers unknown routes with JSON instead of Gin's plain text.
func NotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, ErrorBody{Error: "Not found"})
}

// Unauthorized aborts the chain with a Basic auth challenge.
func Unauthorized(ctx *gin.Context) {
	ctx.Header("WWW-Authenticate", `Basic realm="Authentication Required"`)
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized access"})
}
