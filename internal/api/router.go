package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/quizplatform/quiz-api/docs"
	"github.com/quizplatform/quiz-api/internal/api/handler"
	"github.com/quizplatform/quiz-api/internal/api/middleware"
	"github.com/quizplatform/quiz-api/internal/core/domain"
	"github.com/quizplatform/quiz-api/internal/core/ports"
	"github.com/quizplatform/quiz-api/internal/core/service"
	"github.com/quizplatform/quiz-api/internal/infrastructure/config"
	mongodb "github.com/quizplatform/quiz-api/internal/infrastructure/db/mongo"
	redisdb "github.com/quizplatform/quiz-api/internal/infrastructure/db/redis"
	"github.com/quizplatform/quiz-api/internal/infrastructure/http/handlers"
)

// NewRouter builds the Echo instance with all routes registered. It fails
// when either signing secret is missing: running without them would make
// every issued token unverifiable.
func NewRouter(db *mongo.Database, rdb *redis.Client, events ports.AuthEventRecorder, eventRepo ports.AuthEventRepository, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("quiz_api"))

	// --- Dependencies ---
	issuer, err := service.NewTokenIssuer(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		return nil, err
	}

	codes := redisdb.NewResetCodeStore(rdb)
	authService := service.NewAuthService(userRepo, issuer, codes, events)
	authHandler := handler.NewAuthHandler(authService)
	auditHandler := handler.NewAuditHandler(eventRepo)

	requireAuth := middleware.Auth(issuer)
	optionalAuth := middleware.OptionalAuth(issuer)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	limiter := redisdb.NewRateLimiter(rdb, cfg.RateLimit.Window, cfg.RateLimit.MaxAttempts)
	limited := func(route string) echo.MiddlewareFunc {
		return middleware.RateLimit(limiter, route, log)
	}

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, limited("register"))
	auth.POST("/login", authHandler.Login, limited("login"))
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword, limited("forgot_password"))
	auth.POST("/reset-password", authHandler.ResetPassword, limited("reset_password"))
	auth.GET("/session", authHandler.Session, optionalAuth)

	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)
	auth.POST("/change-password", authHandler.ChangePassword, requireAuth)
	auth.POST("/enable-2fa", authHandler.EnableTwoFactor, requireAuth)
	auth.POST("/disable-2fa", authHandler.DisableTwoFactor, requireAuth)

	auth.GET("/events", auditHandler.List, requireAuth, adminOnly)

	// --- Operational endpoints ---
	health := handlers.NewHealth(db, rdb)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
