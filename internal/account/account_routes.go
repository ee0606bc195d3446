package account

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer, rdb *redis.Client) {
	admin := r.Group("/admin/accounts")
	admin.Use(session.Require(), middleware.RequireRole(enforcer, "admin"))
	{
		// Provisioning is not retry safe at the HTTP layer, so both POSTs
		// honor the Idempotency-Key header.
		admin.POST("/provision", middleware.Idempotency(rdb), handler.Provision)
		admin.POST("/provision-batch", middleware.Idempotency(rdb), handler.BatchProvision)
	}
}
