package auth

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session) {
	// 5 req/s with a small burst keeps brute force off the lock counter's back
	limited := r.Group("/", middleware.RateLimitByIP(rate.Limit(5), 10))
	{
		limited.POST("/user/login", handler.UserLogin)
		limited.POST("/admin/login", handler.AdminLogin)
		limited.POST("/user/verify-unlock", handler.VerifyUnlock)
	}

	r.POST("/logout", session.Require(), handler.Logout)
}
