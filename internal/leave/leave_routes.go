package leave

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	leave := r.Group("/leave")
	leave.Use(middleware.AuthMiddleware())
	{
		leave.POST("/requests",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.IdempotencyMiddleware(redisClient),
			handler.Create,
		)
		leave.GET("/requests", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leave.GET("/my-requests", handler.GetMine)
		leave.PUT("/requests/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leave.PUT("/requests/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leave.PUT("/requests/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)

		leave.GET("/balance/:employeeId", handler.GetBalance)
		leave.GET("/calendar", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetCalendar)
		leave.GET("/stats", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetStats)

		leave.GET("/policy", middleware.RBACAuthorize(rbacService, "leave_policy", "read"), handler.GetPolicy)
		leave.PUT("/policy", middleware.RBACAuthorize(rbacService, "leave_policy", "update"), handler.UpdatePolicy)
	}
}
