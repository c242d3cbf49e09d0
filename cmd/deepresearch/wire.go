package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/analysis"
	"github.com/kitbuilder587/deepresearch-bot/internal/config"
	"github.com/kitbuilder587/deepresearch-bot/internal/llm"
	"github.com/kitbuilder587/deepresearch-bot/internal/llm/chat"
	llmmock "github.com/kitbuilder587/deepresearch-bot/internal/llm/mock"
	"github.com/kitbuilder587/deepresearch-bot/internal/metrics"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
	"github.com/kitbuilder587/deepresearch-bot/internal/search"
	"github.com/kitbuilder587/deepresearch-bot/internal/search/exa"
	searchmock "github.com/kitbuilder587/deepresearch-bot/internal/search/mock"
)

// buildPipeline собирает пайплайн из конфигурации: провайдеры поиска
// и анализа подключаются по именам из конфига
func buildPipeline(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*research.Pipeline, error) {
	searchClient, err := buildSearchClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLMClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.NewExecutor(llmClient, analysis.Config{
		BaseDelay: cfg.LLM.RetryDelay,
	}, logger)

	return research.NewPipeline(research.Deps{
		Search:   searchClient,
		Analyzer: analyzer,
		Logger:   logger,
		Metrics:  m,
	}), nil
}

func buildSearchClient(cfg *config.Config, logger *zap.Logger) (search.Client, error) {
	switch cfg.Search.Provider {
	case "exa":
		return exa.New(exa.Config{
			APIKey:    cfg.Search.APIKey,
			BaseURL:   cfg.Search.BaseURL,
			Timeout:   cfg.Search.Timeout,
			BaseDelay: cfg.Search.RetryDelay,
			Standard: search.ModeParams{
				NumResults:    cfg.Search.NumResults,
				MaxCharacters: cfg.Search.MaxChars,
				MaxItems:      cfg.Search.NumResults,
			},
			Deep: search.ModeParams{
				NumResults:    cfg.Search.DeepResults,
				MaxCharacters: cfg.Search.DeepMaxChars,
				MaxItems:      cfg.Search.DeepResults,
			},
		}, logger), nil
	case "mock":
		return searchmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}

func buildLLMClient(cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "openrouter", "deepseek", "azure":
		return chat.New(chat.Config{
			Provider:    chat.Provider(cfg.LLM.Provider),
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger), nil
	case "mock":
		return llmmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
