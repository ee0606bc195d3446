package user

import (
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, session *middleware.Session, enforcer *rbac.Enforcer) {
	users := r.Group("/user")
	users.Use(session.Require())
	{
		users.GET("/profile", handler.GetProfile)
		users.PUT("/profile", handler.UpdateProfile)
		users.POST("/avatar", handler.UploadAvatar)
		users.POST("/change-password", handler.ChangePassword)
		users.GET("/status", handler.Status)
		users.GET("/department-employees", middleware.RequireRank(enforcer, "S"), handler.DepartmentEmployees)
	}

	admin := r.Group("/admin")
	admin.Use(session.Require(), middleware.RequireRole(enforcer, "admin"))
	{
		admin.GET("/employees", handler.ListEmployees)
		admin.GET("/employees/:employeeId", handler.EmployeeDetails)
		admin.POST("/reset-password", handler.ResetPassword)
		admin.DELETE("/employees/:employeeId", handler.Delete)
	}
}
