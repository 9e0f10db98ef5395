package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restauranthub/timetracker/internal/api/handler"
	"github.com/restauranthub/timetracker/internal/api/middleware"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/core/service"
	"github.com/restauranthub/timetracker/internal/core/session"
	"github.com/restauranthub/timetracker/internal/crypto"
	"github.com/restauranthub/timetracker/internal/infrastructure/config"
	mongostore "github.com/restauranthub/timetracker/internal/infrastructure/db/mongo"
	redisstore "github.com/restauranthub/timetracker/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("timetracker"))

	// --- Dependencies ---
	users := mongostore.NewUserRepository(db)
	tenants := mongostore.NewTenantRepository(db)
	entries := mongostore.NewTimeEntryRepository(db)
	audits := mongostore.NewAuditRepository(db)

	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	passgen := crypto.NewRandGenerator()
	issuer := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)

	var throttle service.Throttle
	if rdb != nil {
		throttle = redisstore.NewLoginThrottle(rdb)
	}

	auditService := service.NewAuditService(audits, log)
	authService := service.NewAuthService(users, hasher, issuer, auditService, throttle, cfg.SuperAdminEmail, log)
	adminService := service.NewAdminService(users, entries, hasher, passgen, auditService, mailer, log)
	tenantService := service.NewTenantService(tenants, users, hasher, passgen, auditService, mailer, log)
	entryService := service.NewTimeEntryService(entries, log)

	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL)
	adminHandler := handler.NewAdminHandler(adminService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	entryHandler := handler.NewTimeEntryHandler(entryService)

	authed := middleware.Auth(issuer)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/tenants/options", tenantHandler.Options)

	// --- Authenticated (any role) ---
	e.POST("/password/change", authHandler.ChangePassword, authed)

	entriesGroup := e.Group("/entries", authed)
	entriesGroup.GET("", entryHandler.List)
	entriesGroup.POST("", entryHandler.Create)
	entriesGroup.DELETE("/:id", entryHandler.Delete)
	entriesGroup.GET("/summary", entryHandler.Summary)

	// --- Tenant admin only ---
	adminGroup := e.Group("/admin", authed, middleware.RequireAdmin)
	adminGroup.GET("/users", adminHandler.ListUsers)
	adminGroup.POST("/users", adminHandler.CreateUser)
	adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
	adminGroup.GET("/users/:id/audit", adminHandler.UserAudit)
	adminGroup.GET("/export", adminHandler.ExportHours)

	// --- Super admin only ---
	tenantGroup := e.Group("/tenants", authed, middleware.RequireSuperAdmin)
	tenantGroup.GET("", tenantHandler.List)
	tenantGroup.POST("", tenantHandler.Create)
	tenantGroup.PUT("/:id", tenantHandler.Rename)
	tenantGroup.DELETE("/:id", tenantHandler.Delete)
	tenantGroup.POST("/:id/admin", tenantHandler.CreateAdmin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
