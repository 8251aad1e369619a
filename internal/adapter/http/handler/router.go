package handler

import (
	"worldpath-wallet/internal/adapter/http/middleware"
	redisStore "worldpath-wallet/internal/adapter/storage/redis"
	"worldpath-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	InquirySvc     ports.InquiryService
	AdminSvc       ports.AdminService
	AuthSvc        ports.AdminAuthService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Client routes (no auth; the wallet id is the identity) ---
	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallet := v1.Group("/wallet")
	{
		wallet.POST("/sync", rl("wallet_sync"), walletHandler.Sync)
		wallet.GET("/status/:walletId", rl("wallet_status"), walletHandler.Status)
	}

	inquiryHandler := NewInquiryHandler(deps.InquirySvc)
	v1.POST("/inquiries", rl("inquiries"), inquiryHandler.Submit)
	v1.GET("/public/recent-inquiries", rl("public_feed"), inquiryHandler.RecentPublic)

	// --- Operator routes (JWT-authenticated) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/admin/login", rl("admin_login"), authHandler.Login)

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth)
	{
		admin.GET("/users", rl("admin"), adminHandler.ListUsers)
		admin.POST("/users", rl("admin"), adminHandler.CreateUser)
		admin.PUT("/users/:walletId", rl("admin"), adminHandler.UpdateUser)
		admin.DELETE("/users/:walletId", rl("admin"), adminHandler.DeleteUser)
		admin.GET("/users/:walletId/ledger", rl("admin"), adminHandler.UserLedger)
		admin.POST("/authorize", rl("admin"), adminHandler.Authorize)
		admin.POST("/update-balance", rl("admin"), adminHandler.UpdateBalance)
		admin.GET("/inquiries", rl("admin"), adminHandler.ListInquiries)
		admin.PUT("/inquiries/:id/status", rl("admin"), adminHandler.SetInquiryStatus)
	}

	return r
}
