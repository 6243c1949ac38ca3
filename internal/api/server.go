package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aryanv175/finance-dashboard-saksham/internal/analysis"
	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
	"github.com/aryanv175/finance-dashboard-saksham/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	logger   *logrus.Logger
	config   *domain.Config
	analyses *analysis.Service
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(logger *logrus.Logger, cfg *domain.Config, analyses *analysis.Service) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())

	router.MaxMultipartMemory = cfg.Uploads.MaxSizeMB << 20

	server := &Server{
		logger:   logger,
		config:   cfg,
		analyses: analyses,
		router:   router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	limited := middleware.RateLimit(s.config.RateLimit.RPS, s.config.RateLimit.Burst)

	s.router.GET("/health", s.handleHealth)

	s.router.POST("/upload", limited, s.handleUpload)
	s.router.GET("/files", s.handleListFiles)
	s.router.GET("/file/:id/criteria/:sheet", s.handleFileCriteria)
	s.router.GET("/file/:id/cases/:sheet", s.handleFileCases)
	s.router.DELETE("/file/:id", limited, s.handleDeleteFile)

	s.router.POST("/analyze", limited, s.handleAnalyze)
	s.router.GET("/analysis/:id", s.handleGetAnalysis)
	s.router.GET("/dashboard/:id", s.handleDashboard)
	s.router.GET("/chart/comparison/:id", s.handleComparisonChart)
	s.router.GET("/chart/correlation/:id", s.handleCorrelationChart)
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
