package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/analysis"
	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/metrics"
	"github.com/kitbuilder587/deepresearch-bot/internal/search"
)

// ProgressEvent - синхронное уведомление о ходе исследования.
// Порядок событий фиксирован, обработка ошибок callback'а - забота вызывающего.
type ProgressEvent struct {
	Stage   string
	Round   int
	Message string
}

type ProgressFunc func(ProgressEvent)

const (
	StageSearching = "searching"
	StageSearched  = "searched"
	StageDone      = "done"
	StageFailed    = "failed"
)

// Pipeline гоняет цикл раундов: поиск -> анализ -> извлечение следующего
// запроса. Состояние живет только внутри Run, поэтому независимые
// исследования можно запускать параллельно на одном Pipeline.
type Pipeline struct {
	search   search.Client
	analyzer analysis.Analyzer
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type Deps struct {
	Search   search.Client
	Analyzer analysis.Analyzer
	Logger   *zap.Logger
	Metrics  *metrics.Metrics // опционально
}

func NewPipeline(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		search:   deps.Search,
		analyzer: deps.Analyzer,
		logger:   logger,
		metrics:  deps.Metrics,
	}
}

// Run выполняет исследование на depth раундов. Ошибка любого раунда
// фатальна для всего запуска: никакого частичного продолжения,
// история поисков сохраняется в отчете для диагностики.
func (p *Pipeline) Run(ctx context.Context, initialQuery, question string, depth int, onProgress ProgressFunc) *domain.ResearchReport {
	start := time.Now()
	depth = domain.ClampDepth(depth)

	if onProgress == nil {
		onProgress = func(ProgressEvent) {}
	}

	if p.metrics != nil {
		p.metrics.IncResearchInFlight()
		defer p.metrics.DecResearchInFlight()
	}

	history := []domain.RoundRecord{{Round: 1, Query: initialQuery}}
	var analyses []domain.RoundAnalysis

	currentQuery := initialQuery
	previousAnalysis := ""

	for round := 1; round <= depth; round++ {
		onProgress(ProgressEvent{
			Stage:   StageSearching,
			Round:   round,
			Message: fmt.Sprintf("searching round %d: %s", round, currentQuery),
		})

		searchStart := time.Now()
		result := p.search.Search(ctx, currentQuery, domain.ModeDeep)
		if result.Failed() {
			p.logger.Error("search failed, aborting research",
				zap.Int("round", round),
				zap.String("query", currentQuery),
				zap.String("error", result.Error),
			)
			return p.fail(result.Error, history, start, searchStart, "search", onProgress, round)
		}
		if p.metrics != nil {
			p.metrics.RecordSearch("success", time.Since(searchStart))
		}

		onProgress(ProgressEvent{
			Stage:   StageSearched,
			Round:   round,
			Message: fmt.Sprintf("round %d: found %d results", round, len(result.Items)),
		})

		analysisStart := time.Now()
		analysisResult := p.analyzer.Analyze(ctx, analysis.Request{
			SearchResult:     result,
			Question:         question,
			PreviousAnalysis: previousAnalysis,
			Round:            round,
			TotalRounds:      depth,
			History:          history,
		})
		if analysisResult.Failed() {
			p.logger.Error("analysis failed, aborting research",
				zap.Int("round", round),
				zap.String("query", currentQuery),
				zap.String("error", analysisResult.Error),
			)
			return p.fail(analysisResult.Error, history, start, analysisStart, "analysis", onProgress, round)
		}
		if p.metrics != nil {
			p.metrics.RecordAnalysis("success", time.Since(analysisStart))
		}

		analyses = append(analyses, domain.RoundAnalysis{
			Round:     round,
			Text:      analysisResult.Text,
			Timestamp: analysisResult.Timestamp,
		})
		previousAnalysis = analysisResult.Text

		if round < depth {
			// fallback именно на initialQuery, см. ExtractNextQuery
			currentQuery = ExtractNextQuery(analysisResult.Text, initialQuery)
			history = append(history, domain.RoundRecord{Round: round + 1, Query: currentQuery})

			p.logger.Debug("next query selected",
				zap.Int("round", round+1),
				zap.String("query", currentQuery),
			)
		}
	}

	report := &domain.ResearchReport{
		Analysis:      joinAnalyses(analyses),
		SearchHistory: history,
	}

	if p.metrics != nil {
		p.metrics.RecordResearch("success", depth, time.Since(start))
	}

	p.logger.Info("research completed",
		zap.Int("depth", depth),
		zap.Duration("duration", time.Since(start)),
	)

	onProgress(ProgressEvent{
		Stage:   StageDone,
		Round:   depth,
		Message: fmt.Sprintf("research completed: %d rounds", depth),
	})

	return report
}

func (p *Pipeline) fail(errMsg string, history []domain.RoundRecord, runStart, callStart time.Time, kind string, onProgress ProgressFunc, round int) *domain.ResearchReport {
	if p.metrics != nil {
		switch kind {
		case "search":
			p.metrics.RecordSearch("error", time.Since(callStart))
		case "analysis":
			p.metrics.RecordAnalysis("error", time.Since(callStart))
		}
		p.metrics.RecordResearch("error", round, time.Since(runStart))
	}

	onProgress(ProgressEvent{
		Stage:   StageFailed,
		Round:   round,
		Message: fmt.Sprintf("round %d %s failed: %s", round, kind, errMsg),
	})

	return &domain.ResearchReport{
		SearchHistory: history,
		Error:         errMsg,
	}
}

// joinAnalyses склеивает анализы раундов в итоговый отчет
func joinAnalyses(analyses []domain.RoundAnalysis) string {
	sections := make([]string, len(analyses))
	for i, a := range analyses {
		sections[i] = fmt.Sprintf("## Round %d\n\n%s", a.Round, a.Text)
	}
	return strings.Join(sections, "\n\n")
}
