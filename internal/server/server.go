// Package server - HTTP API поверх исследовательского пайплайна.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/metrics"
	"github.com/kitbuilder587/deepresearch-bot/internal/ratelimit"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
)

type Config struct {
	Addr         string
	DefaultDepth int
	CacheTTL     time.Duration
}

type Deps struct {
	Pipeline *research.Pipeline
	Limiter  *ratelimit.Limiter
	Cache    *memory.Cache
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

type Server struct {
	cfg      Config
	pipeline *research.Pipeline
	limiter  *ratelimit.Limiter
	cache    *memory.Cache
	metrics  *metrics.Metrics
	logger   *zap.Logger
	engine   *gin.Engine
}

func New(cfg Config, deps Deps) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DefaultDepth == 0 {
		cfg.DefaultDepth = domain.DefaultDepth
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		pipeline: deps.Pipeline,
		limiter:  deps.Limiter,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	engine.POST("/api/research", s.handleResearch)

	s.engine = engine
	return s
}

// Handler отдает http.Handler - удобно для httptest
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
	return s.engine.Run(s.cfg.Addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
