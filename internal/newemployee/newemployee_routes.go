package newemployee

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer) {
	user := r.Group("/user/new-employees")
	user.Use(session.Require(), middleware.RequireRank(enforcer, "S"))
	{
		user.POST("", handler.Submit)
		user.GET("", handler.List)

		manager := user.Group("")
		manager.Use(middleware.RequireRank(enforcer, "M"))
		{
			manager.GET("/pending", handler.Pending)
			manager.POST("/:id/review", handler.Review)
		}
	}

	admin := r.Group("/admin/new-employees")
	admin.Use(session.Require(), middleware.RequireRole(enforcer, "admin"))
	{
		admin.GET("/approved", handler.ApprovedList)
	}
}
