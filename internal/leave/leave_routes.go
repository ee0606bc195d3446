package leave

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer) {
	user := r.Group("/user/leave")
	user.Use(session.Require())
	{
		user.POST("", handler.Apply)
		user.GET("", handler.List)
		user.GET("/remaining", handler.Remaining)
		user.POST("/calculate-duration", handler.CalculateDuration)
		user.DELETE("/:id", handler.Cancel)

		supervisor := user.Group("")
		supervisor.Use(middleware.RequireRank(enforcer, "S"))
		{
			supervisor.GET("/pending", handler.PendingApprovals)
			supervisor.GET("/department-history", handler.DepartmentHistory)
			supervisor.GET("/stats", handler.Stats)
			supervisor.GET("/distribution", handler.Distribution)
			supervisor.POST("/:id/review", handler.Review)
		}
	}
}
