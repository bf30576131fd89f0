package server

import (
	"github.com/gin-gonic/gin"

	"insights-backend/internal/shared/server/middleware"
	"insights-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint behind authn.
func registerMeRoutes(rg *gin.RouterGroup, authn gin.HandlerFunc) {
	rg.GET("/me", authn, meHandler)
}

func meHandler(c *gin.Context) {
	response := gin.H{
		"userId": middleware.UserIDFromContext(c),
		"role":   middleware.RoleFromContext(c),
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	respond.OK(c, response)
}
