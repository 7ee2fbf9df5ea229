// Package webui hosts the HTTP surface of the focusd service: the analyze,
// question and contextualize endpoints consumed by the browser extension.
package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"focusd/internal/analyzer"
	"focusd/internal/cache"
	"focusd/internal/logging"
	"focusd/internal/webui/handlers"
	"focusd/internal/webui/middleware"
)

// Version is reported by the health endpoint.
const Version = "0.2.0"

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host          string
	Port          string
	EnableCORS    bool
	Debug         bool
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	SweepInterval time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:          "",
		Port:          "5000",
		EnableCORS:    true,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		SweepInterval: time.Minute,
	}
}

// Server wires the analyzer and result cache behind a gin engine.
type Server struct {
	analyzer   *analyzer.Analyzer
	results    *cache.ResultCache[analyzer.Result]
	engine     *gin.Engine
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *handlers.Metrics

	startTime time.Time
	logger    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	sweepInterval time.Duration
}

// NewServer creates the HTTP server for the analysis API.
func NewServer(a *analyzer.Analyzer, results *cache.ResultCache[analyzer.Result], cfg ServerConfig) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{"http://localhost:5000", "http://127.0.0.1:5000"}
		corsConfig.AllowOriginFunc = func(origin string) bool {
			// The extension calls from chrome-extension:// origins whose ids
			// are not known ahead of time.
			return origin == "http://localhost:5000" ||
				origin == "http://127.0.0.1:5000" ||
				len(origin) > 19 && origin[:19] == "chrome-extension://"
		}
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept"}
		corsConfig.AllowCredentials = true
		corsConfig.MaxAge = time.Hour
		engine.Use(cors.New(corsConfig))
	}

	ctx, cancel := context.WithCancel(context.Background())

	registry := prometheus.NewRegistry()

	server := &Server{
		analyzer:      a,
		results:       results,
		engine:        engine,
		registry:      registry,
		metrics:       handlers.NewMetrics(registry),
		startTime:     time.Now(),
		logger:        logging.NewComponentLogger("server"),
		ctx:           ctx,
		cancel:        cancel,
		sweepInterval: cfg.SweepInterval,
	}

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	analyzeHandler := handlers.NewAnalyzeHandler(s.analyzer, s.metrics)
	questionHandler := handlers.NewQuestionHandler(s.analyzer, s.metrics)
	contextualizeHandler := handlers.NewContextualizeHandler(s.analyzer.Sessions(), s.metrics)

	api := s.engine.Group("/api")
	api.Use(middleware.JSONMiddleware())
	api.Use(middleware.ErrorHandlingMiddleware())

	api.GET("/health", s.handleHealth)
	api.POST("/analyze", analyzeHandler.Analyze)
	api.POST("/question", questionHandler.NextQuestion)
	api.POST("/contextualize", contextualizeHandler.Contextualize)

	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   Version,
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startTime).String(),
	})
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the cache sweeper and serves HTTP until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting focusd server on %s", s.httpServer.Addr)

	s.results.StartSweeper(s.ctx, s.sweepInterval)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.logger.Info("stopping focusd server...")
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("error shutting down HTTP server: %v", err)
		return err
	}

	s.logger.Info("focusd server stopped")
	return nil
}
