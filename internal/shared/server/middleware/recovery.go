package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"insights-backend/internal/shared/server/respond"
	"insights-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and answers with the internal error envelope.
// Stacks are only logged outside production.
func Recovery(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				fields := map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				}
				if !production {
					fields["stack"] = string(debug.Stack())
				}
				telemetry.Error("panic", fields)
				respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", nil)
			}
		}()
		c.Next()
	}
}
