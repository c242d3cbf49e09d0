package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/llm"
)

const maxAttempts = 3

// Request - входные данные одного раунда анализа
type Request struct {
	SearchResult     *domain.SearchResult
	Question         string
	PreviousAnalysis string
	Round            int
	TotalRounds      int
	History          []domain.RoundRecord
}

// Analyzer - клиент анализа поверх LLM. Как и поисковый клиент,
// никогда не возвращает error через границу: сбой кодируется
// в поле Error результата.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) *domain.AnalysisResult
}

type Config struct {
	BaseDelay time.Duration // линейный backoff между попытками
}

type Executor struct {
	llm       llm.Client
	baseDelay time.Duration
	logger    *zap.Logger
}

func NewExecutor(client llm.Client, cfg Config, logger *zap.Logger) *Executor {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		llm:       client,
		baseDelay: cfg.BaseDelay,
		logger:    logger,
	}
}

func (e *Executor) Analyze(ctx context.Context, req Request) *domain.AnalysisResult {
	result := &domain.AnalysisResult{Timestamp: domain.Now()}

	prompt := BuildPrompt(req)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result
			case <-time.After(e.baseDelay * time.Duration(attempt-1)):
			}
		}

		text, err := e.llm.CompleteWithSystem(ctx, systemPrompt, prompt)
		if err != nil {
			// пустой ответ тоже ретраим: может быть разовый мусор от провайдера
			lastErr = err
			e.logger.Warn("analysis attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("round", req.Round),
				zap.Error(err),
			)
			continue
		}

		result.Text = text
		return result
	}

	result.Error = fmt.Sprintf("%v: %v", domain.ErrAnalysisFailed, lastErr)
	return result
}
