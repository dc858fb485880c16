package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive/internal/api/handler"
	"github.com/taskhive/taskhive/internal/api/middleware"
	"github.com/taskhive/taskhive/internal/core/ports"
	"github.com/taskhive/taskhive/internal/core/service"
	"github.com/taskhive/taskhive/internal/infrastructure/config"
	mongodb "github.com/taskhive/taskhive/internal/infrastructure/db/mongo"
	"github.com/taskhive/taskhive/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, blobs ports.BlobStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskhive"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	noteRepo := mongodb.NewNoteRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, log)
	projectService := service.NewProjectService(projectRepo, userRepo, taskRepo, noteRepo, log)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, blobs, log)
	noteService := service.NewNoteService(noteRepo, projectRepo, log)

	limiter := redis.NewRateLimiter(rdb, cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow)

	authHandler := handler.NewAuthHandler(authService, limiter, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	noteHandler := handler.NewNoteHandler(noteService, log)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.POST("/change-password", authHandler.ChangePassword, authRequired)
	auth.GET("/current-user", authHandler.CurrentUser, authRequired)
	auth.POST("/resend-email-verification", authHandler.ResendVerification, authRequired)

	// --- Project routes ---
	projects := e.Group("/api/v1/projects", authRequired)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:projectId", projectHandler.Get)
	projects.PUT("/:projectId", projectHandler.Update)
	projects.DELETE("/:projectId", projectHandler.Delete)
	projects.GET("/:projectId/members", projectHandler.Members)
	projects.POST("/:projectId/members", projectHandler.AddMember)
	projects.PUT("/:projectId/members/:userId", projectHandler.UpdateMemberRole)
	projects.DELETE("/:projectId/members/:userId", projectHandler.RemoveMember)

	// --- Task routes ---
	tasks := e.Group("/api/v1/tasks", authRequired)
	tasks.POST("/:projectId", taskHandler.Create)
	tasks.GET("/:projectId", taskHandler.List)
	tasks.GET("/:projectId/t/:taskId", taskHandler.Get)
	tasks.PUT("/:projectId/t/:taskId", taskHandler.Update)
	tasks.DELETE("/:projectId/t/:taskId", taskHandler.Delete)
	tasks.POST("/:projectId/t/:taskId/subtasks", taskHandler.CreateSubtask)
	tasks.PUT("/:projectId/st/:subTaskId", taskHandler.UpdateSubtask)
	tasks.DELETE("/:projectId/st/:subTaskId", taskHandler.DeleteSubtask)
	tasks.POST("/:projectId/t/:taskId/attachments", taskHandler.UploadAttachment)
	tasks.DELETE("/:projectId/t/:taskId/attachments/:attachmentId", taskHandler.DeleteAttachment)

	// --- Note routes ---
	notes := e.Group("/api/v1/notes", authRequired)
	notes.POST("/:projectId", noteHandler.Create)
	notes.GET("/:projectId", noteHandler.List)
	notes.GET("/:projectId/n/:noteId", noteHandler.Get)
	notes.PUT("/:projectId/n/:noteId", noteHandler.Update)
	notes.DELETE("/:projectId/n/:noteId", noteHandler.Delete)

	// --- Health probes and operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
