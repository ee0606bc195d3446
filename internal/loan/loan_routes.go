package loan

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer) {
	user := r.Group("/user/loan")
	user.Use(session.Require())
	{
		user.POST("", handler.Apply)
		user.GET("", handler.List)

		reviewer := user.Group("")
		reviewer.Use(middleware.RequireRank(enforcer, "S"))
		{
			reviewer.GET("/pending", handler.Pending)
			reviewer.GET("/review-history", handler.ReviewHistory)
			reviewer.GET("/stats", handler.Stats)
			reviewer.GET("/trend", handler.Trend)
			reviewer.POST("/:id/review", handler.Review)
			reviewer.POST("/:id/notes", handler.AddNote)
			reviewer.POST("/:id/assign", handler.Assign)
		}
	}
}
