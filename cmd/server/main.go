package main

import (
	"fmt"
	"log"
	"time"

	"github.com/architect/natural-teacher/internal/ai"
	catalogHandlers "github.com/architect/natural-teacher/internal/catalog/handlers"
	"github.com/architect/natural-teacher/internal/common/cache"
	"github.com/architect/natural-teacher/internal/common/database"
	commonHandlers "github.com/architect/natural-teacher/internal/common/handlers"
	"github.com/architect/natural-teacher/internal/common/health"
	"github.com/architect/natural-teacher/internal/common/middleware"
	gamificationHandlers "github.com/architect/natural-teacher/internal/gamification/handlers"
	gamificationServices "github.com/architect/natural-teacher/internal/gamification/services"
	homeworkHandlers "github.com/architect/natural-teacher/internal/homework/handlers"
	identityHandlers "github.com/architect/natural-teacher/internal/identity/handlers"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	identityServices "github.com/architect/natural-teacher/internal/identity/services"
	monitoringHandlers "github.com/architect/natural-teacher/internal/monitoring/handlers"
	"github.com/architect/natural-teacher/internal/settings"
	"github.com/architect/natural-teacher/pkg/auth"
	"github.com/architect/natural-teacher/pkg/config"
	"github.com/architect/natural-teacher/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional: leaderboard caching and token blacklisting
	// degrade gracefully when it is unreachable.
	cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cache.Close()

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.Issuer)
	middleware.InitAuth(tokenManager)
	identityServices.Init(tokenManager)

	// The tutoring service URL can be overridden from system settings.
	aiBaseURL := settings.Default.GetString("ai_service_url", cfg.AI.BaseURL)
	aiTimeout := time.Duration(settings.Default.GetInt("ai_timeout_seconds", int(cfg.AI.Timeout.Seconds()))) * time.Second
	ai.Init(aiBaseURL, aiTimeout)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health check endpoints
	healthChecker := health.NewChecker(database.GetDB(), "1.0.0")
	healthHandler := commonHandlers.NewHealthHandler(healthChecker)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/register", identityHandlers.Register)
		v1.POST("/login", identityHandlers.Login)

		authed := v1.Group("")
		authed.Use(middleware.AuthRequired())
		{
			authed.POST("/logout", identityHandlers.Logout)
			authed.GET("/user", identityHandlers.CurrentUser)

			authed.GET("/subjects", catalogHandlers.GetSubjects)
			authed.GET("/subjects/:id", catalogHandlers.GetSubject)
			authed.GET("/subjects/:id/topics", catalogHandlers.GetSubjectTopics)
			authed.GET("/topics", catalogHandlers.GetTopics)
			authed.GET("/topics/:id", catalogHandlers.GetTopic)
		}

		student := v1.Group("")
		student.Use(middleware.AuthRequired(), middleware.RequireRoles(string(identityModels.RoleStudent)))
		{
			student.POST("/homework/submit", homeworkHandlers.Submit)
			student.POST("/homework/feedback", homeworkHandlers.Feedback)
			student.GET("/homework/history", homeworkHandlers.History)
			student.GET("/homework/session/:id", homeworkHandlers.SessionDetail)
			student.POST("/homework/real-time-conversation", homeworkHandlers.RealTimeConversation)
			student.GET("/homework/conversation/ws", homeworkHandlers.ConversationSocket)

			student.GET("/gamification/user-data", gamificationHandlers.GetUserData)
			student.POST("/gamification/check-achievements", gamificationHandlers.CheckAchievements)
			student.POST("/gamification/redeem-reward/:id", gamificationHandlers.RedeemReward)
			student.GET("/gamification/leaderboard", gamificationHandlers.GetLeaderboard)
			student.POST("/gamification/challenges/:id/progress", gamificationHandlers.UpdateChallengeProgress)
		}

		monitor := v1.Group("/monitoring")
		monitor.Use(middleware.AuthRequired(), middleware.RequireRoles(
			string(identityModels.RoleParent), string(identityModels.RoleTeacher)))
		{
			monitor.GET("/students", monitoringHandlers.GetStudents)
			monitor.POST("/students", monitoringHandlers.AddStudent)
			monitor.GET("/student/:id/progress", monitoringHandlers.GetStudentProgress)
			monitor.GET("/student/:id/sessions", monitoringHandlers.GetStudentSessions)
			monitor.GET("/student/:id/session/:session_id", monitoringHandlers.GetStudentSession)
			monitor.GET("/student/:id/reports", monitoringHandlers.GetReports)
			monitor.POST("/student/:id/report", monitoringHandlers.GenerateReport)
			monitor.PUT("/student/:id", monitoringHandlers.UpdateStudent)
			monitor.DELETE("/student/:id", monitoringHandlers.RemoveStudent)
		}
	}

	startStreakDecay(cfg.Streaks.DecayInterval)

	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server", zap.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// startStreakDecay runs the daily streak decay sweep on a ticker. A zero
// interval disables the sweep.
func startStreakDecay(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for now := range ticker.C {
			if _, err := gamificationServices.DecayStreaks(now); err != nil {
				logger.Error("streak decay sweep failed", zap.Error(err))
			}
		}
	}()
}
