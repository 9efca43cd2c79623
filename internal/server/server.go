package server

import (
	"context"
	"embed"
	"log/slog"
	"net/http"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed web
var webFS embed.FS

// Pipeline is the part of the orchestrator the HTTP surface drives.
type Pipeline interface {
	Submit(ctx context.Context, payload capture.Payload) (string, error)
	Snapshot() pipeline.Snapshot
	Subscribe() (<-chan pipeline.Event, func())
}

// Recorder is a host microphone the API can start and stop.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (capture.Payload, error)
	IsRecording() bool
	Seconds() int64
}

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	router   *gin.Engine
	pipeline Pipeline
	recorder Recorder
}

// Option customizes a Server.
type Option func(*Server)

// WithRecorder enables the host recording endpoints.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, p Pipeline, opts ...Option) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}
	// Development: no reverse proxy, uses direct client IP

	server := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		pipeline: p,
	}
	for _, opt := range opts {
		opt(server)
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.POST("/captures", s.limitUploads(s.config.MaxUploadBytes), s.handleCreateCapture)
		api.GET("/notes", s.handleNotes)
		api.GET("/events", s.handleEvents)

		api.GET("/recording", s.handleRecordingStatus)
		api.POST("/recording/start", s.handleRecordingStart)
		api.POST("/recording/stop", s.handleRecordingStop)
	}

	s.router.GET("/export", s.handleExportHTML)
	s.router.GET("/export.md", s.handleExportMarkdown)
	s.router.GET("/export.docx", s.handleExportDocx)

	// Embedded single-page UI; explicit routes above take precedence
	s.router.Use(static.Serve("/", static.EmbedFolder(webFS, "web")))
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "noteforge",
	})
}
