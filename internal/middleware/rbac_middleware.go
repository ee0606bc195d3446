package middleware

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/rbac"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRank passes users at or above minPosition in the C < S < M ladder.
// Admins clear every rank gate.
func RequireRank(enforcer *rbac.Enforcer, minPosition string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString("position")
		if c.GetString("role") == "admin" {
			subject = "admin"
		}

		allowed, err := enforcer.AllowRank(subject, minPosition)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole passes only the exact role (user or admin).
func RequireRole(enforcer *rbac.Enforcer, required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := enforcer.AllowRole(c.GetString("role"), required)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
