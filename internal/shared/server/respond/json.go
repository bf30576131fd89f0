package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes the success envelope with the given status.
func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	JSON(c, http.StatusOK, "", data)
}
