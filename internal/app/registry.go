package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/account"
	"github.com/yhnjiuy4321/BankSystem/internal/auth"
	"github.com/yhnjiuy4321/BankSystem/internal/leave"
	"github.com/yhnjiuy4321/BankSystem/internal/loan"
	"github.com/yhnjiuy4321/BankSystem/internal/loginattempt"
	"github.com/yhnjiuy4321/BankSystem/internal/loginhistory"
	"github.com/yhnjiuy4321/BankSystem/internal/messaging/kafka"
	"github.com/yhnjiuy4321/BankSystem/internal/middleware"
	"github.com/yhnjiuy4321/BankSystem/internal/newemployee"
	"github.com/yhnjiuy4321/BankSystem/internal/notification"
	"github.com/yhnjiuy4321/BankSystem/internal/rbac"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/sequence"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// activityStore adapts the user storage to the slice the session middleware
// needs for the inactivity window.
type activityStore struct {
	users   user.Repository
	service user.Service
}

func (a *activityStore) LastActivity(ctx context.Context, account, role string) (*time.Time, error) {
	u, err := a.users.FindByAccount(ctx, account, role)
	if err != nil {
		return nil, err
	}
	return u.LastActivityTime, nil
}

func (a *activityStore) Touch(ctx context.Context, account string) {
	a.service.TouchActivity(ctx, account)
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	attemptRepo := loginattempt.NewRepository(gormDB)
	historyRepo := loginhistory.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	newEmployeeRepo := newemployee.NewRepository(gormDB)
	seqRepo := sequence.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Shared infrastructure ---
	mailer := notification.NewSMTPMailer(notification.SMTPConfigFromEnv())
	tokens := auth.NewTokenIssuer()

	// --- Services ---
	guardService := loginattempt.NewService(attemptRepo, userRepo, outboxRepo)
	historyService := loginhistory.NewService(historyRepo)
	authService := auth.NewService(userRepo, guardService, historyService, tokens)
	userService := user.NewService(userRepo, mailer, tokens)
	leaveService := leave.NewService(leaveRepo, rdb)
	loanService := loan.NewService(db, loanRepo, seqRepo, userRepo)
	newEmployeeService := newemployee.NewService(newEmployeeRepo)
	accountService := account.NewService(db, userRepo, newEmployeeRepo, seqRepo, mailer)

	session := middleware.NewSession(&activityStore{users: userRepo, service: userService})

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	guardHandler := loginattempt.NewHandler(guardService)
	historyHandler := loginhistory.NewHandler(historyService)
	leaveHandler := leave.NewHandler(leaveService)
	loanHandler := loan.NewHandler(loanService)
	newEmployeeHandler := newemployee.NewHandler(newEmployeeService)
	accountHandler := account.NewHandler(accountService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	{
		auth.RegisterRoutes(api, authHandler, session)
		user.RegisterRoutes(api, userHandler, session, enforcer)
		loginattempt.RegisterRoutes(api, guardHandler, session, enforcer)
		loginhistory.RegisterRoutes(api, historyHandler, session, enforcer)
		leave.RegisterRoutes(api, leaveHandler, session, enforcer)
		loan.RegisterRoutes(api, loanHandler, session, enforcer)
		newemployee.RegisterRoutes(api, newEmployeeHandler, session, enforcer)
		account.RegisterRoutes(api, accountHandler, session, enforcer, rdb)
	}

	return nil
}
