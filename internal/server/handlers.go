package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
)

type researchRequest struct {
	Query string `json:"query"`
	Depth int    `json:"depth"`
}

type researchResponse struct {
	Success       bool                 `json:"success"`
	Analysis      string               `json:"analysis,omitempty"`
	SearchHistory []domain.RoundRecord `json:"search_history,omitempty"`
	Progress      []string             `json:"progress,omitempty"`
	Timestamp     string               `json:"timestamp"`
	Error         string               `json:"error,omitempty"`
}

func (s *Server) handleResearch(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, researchResponse{
			Success:   false,
			Error:     "invalid request format",
			Timestamp: domain.Now(),
		})
		return
	}

	rr := domain.ResearchRequest{Query: req.Query, Depth: req.Depth}
	if err := rr.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, researchResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: domain.Now(),
		})
		return
	}
	if rr.Depth == 0 {
		rr.Depth = s.cfg.DefaultDepth
	}
	rr.Sanitize()

	clientIP := c.ClientIP()
	if s.limiter != nil && !s.limiter.Allow(clientIP) {
		if s.metrics != nil {
			s.metrics.RecordRateLimitHit(clientIP)
		}
		c.JSON(http.StatusTooManyRequests, researchResponse{
			Success:   false,
			Error:     domain.ErrRateLimited.Error(),
			Timestamp: domain.Now(),
		})
		return
	}

	cacheKey := memory.Key(rr.Query, rr.Depth)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			c.JSON(http.StatusOK, researchResponse{
				Success:       true,
				Analysis:      cached.Analysis,
				SearchHistory: cached.SearchHistory,
				Progress:      []string{"served from cache"},
				Timestamp:     domain.Now(),
			})
			return
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	s.logger.Info("research request accepted",
		zap.String("client_ip", clientIP),
		zap.Int("depth", rr.Depth),
		zap.Int("query_length", len(rr.Query)),
	)

	// progress собираем в том порядке, в котором его эмитит пайплайн
	var mu sync.Mutex
	var progress []string
	onProgress := func(ev research.ProgressEvent) {
		mu.Lock()
		progress = append(progress, ev.Message)
		mu.Unlock()
	}

	report := s.pipeline.Run(c.Request.Context(), rr.Query, rr.Query, rr.Depth, onProgress)
	if report.Failed() {
		c.JSON(http.StatusBadGateway, researchResponse{
			Success:       false,
			Error:         report.Error,
			SearchHistory: report.SearchHistory,
			Progress:      progress,
			Timestamp:     domain.Now(),
		})
		return
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, report, s.cfg.CacheTTL)
	}

	c.JSON(http.StatusOK, researchResponse{
		Success:       true,
		Analysis:      report.Analysis,
		SearchHistory: report.SearchHistory,
		Progress:      progress,
		Timestamp:     domain.Now(),
	})
}
