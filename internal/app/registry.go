package app

import (
	"go-ems/internal/employee"
	"go-ems/internal/leave"
	"go-ems/internal/leavepolicy"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	counterRepo := counter.NewRepository(db)
	policyRepo := leavepolicy.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, policyRepo, counterRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, policyRepo, leave.NewOutboxNotifier(outboxRepo))

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes ---
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")

	employee.RegisterRoutes(api, employeeHandler, rbacService)
	leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)

	return nil
}
