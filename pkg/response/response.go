package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every error response.
// Timestamp is epoch milliseconds.
type ErrorBody struct {
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// CountBody wraps the user count endpoint payload.
type CountBody struct {
	Count int64 `json:"count"`
}

// HealthBody is the health probe payload.
type HealthBody struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Error writes an error body with the given status and aborts the request.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:     message,
		Timestamp: time.Now().UnixMilli(),
	})
}
