package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/llm"
)

// Provider определяет формат авторизации чат-клиента.
// Bearer-стиль (openrouter, deepseek) против сырого ключа в заголовке (azure).
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderAzure      Provider = "azure"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenRouter, ProviderDeepSeek, ProviderAzure:
		return true
	}
	return false
}

// authHeader - единственное место, где различается формат авторизации
func (p Provider) authHeader(apiKey string) (name, value string) {
	if p == ProviderAzure {
		return "api-key", apiKey
	}
	return "Authorization", "Bearer " + apiKey
}

func (p Provider) defaultBaseURL() string {
	switch p {
	case ProviderDeepSeek:
		return "https://api.deepseek.com/v1"
	default:
		return "https://openrouter.ai/api/v1"
	}
}

type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// Client - чат-клиент для любого OpenAI-совместимого провайдера
type Client struct {
	provider    Provider
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenRouter
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = cfg.Provider.defaultBaseURL()
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-chat"
	}
	if cfg.Temperature == 0 {
		// низкая температура: анализ должен быть воспроизводимым
		cfg.Temperature = 0.3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		provider:    cfg.Provider,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type chatResponse struct {
	llm.ChatResponse
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	req := llm.NewChatRequest(c.model, system, prompt, c.temperature)

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	name, value := c.provider.authHeader(c.apiKey)
	httpReq.Header.Set(name, value)

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		return "", err
	}

	if statusCode != http.StatusOK {
		return "", llm.HandleHTTPError(statusCode, respBody, c.logger, string(c.provider))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", llm.ErrRequestFailed, chatResp.Error.Message)
	}

	return llm.ExtractContent(&chatResp.ChatResponse)
}
