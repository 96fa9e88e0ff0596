package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/swasthya/child-health-system/docs"
	"github.com/swasthya/child-health-system/internal/api/handler"
	"github.com/swasthya/child-health-system/internal/api/middleware"
	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/service"
	mongodb "github.com/swasthya/child-health-system/internal/infrastructure/db/mongo"
	redisdb "github.com/swasthya/child-health-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("child_health"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	recordRepo := mongodb.NewRecordRepository(db)
	statsCache := redisdb.NewStatsCache(rdb)

	authService := service.NewAuthService(userRepo, service.BcryptVerifier{}, jwtSecret, tokenTTL)
	recordService := service.NewRecordService(recordRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	recordHandler := handler.NewRecordHandler(recordService)
	dashboardHandler := handler.NewDashboardHandler(recordService, statsCache)

	authMW := middleware.Auth(authService)
	authLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())

	// --- Auth routes (rate limited, no token required) ---
	auth := e.Group("/auth", authLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.Profile, authMW)

	// --- Record routes ---
	v1 := e.Group("/v1", authMW)
	v1.POST("/records", recordHandler.Submit, middleware.RBAC(domain.RoleWorker))
	v1.GET("/records", recordHandler.List, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/records/mine", recordHandler.ListMine, middleware.RBAC(domain.RoleWorker))
	v1.GET("/records/export", recordHandler.Export, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/records/:id", recordHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleWorker))
	v1.GET("/dashboard/stats", dashboardHandler.Stats, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
