package loginhistory

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer) {
	admin := r.Group("/admin")
	admin.Use(session.Require(), middleware.RequireRole(enforcer, "admin"))
	{
		admin.GET("/login-history", handler.List)
		admin.GET("/login-history/stats", handler.Stats)
	}
}
