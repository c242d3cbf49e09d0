package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
	"github.com/kitbuilder587/deepresearch-bot/internal/search"
)

const (
	defaultBaseURL = "https://api.exa.ai"

	maxAttempts = 3
)

// заглушки на случай, если провайдер вернул запись без каких-то полей
const (
	fallbackTitle   = "untitled"
	fallbackURL     = ""
	fallbackContent = "no content"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	BaseDelay time.Duration // линейный backoff: BaseDelay * номер попытки

	Standard search.ModeParams
	Deep     search.ModeParams
}

type Client struct {
	apiKey    string
	baseURL   string
	baseDelay time.Duration
	standard  search.ModeParams
	deep      search.ModeParams
	client    *http.Client
	logger    *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Standard == (search.ModeParams{}) {
		cfg.Standard = search.DefaultModeParams(domain.ModeStandard)
	}
	if cfg.Deep == (search.ModeParams{}) {
		cfg.Deep = search.DefaultModeParams(domain.ModeDeep)
	}

	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		baseDelay: cfg.BaseDelay,
		standard:  cfg.Standard,
		deep:      cfg.Deep,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

type exaRequest struct {
	Query      string      `json:"query"`
	Type       string      `json:"type"`
	Contents   exaContents `json:"contents"`
	NumResults int         `json:"num_results"`
}

type exaContents struct {
	Text      exaText `json:"text"`
	Livecrawl string  `json:"livecrawl"`
}

type exaText struct {
	MaxCharacters   int  `json:"maxCharacters"`
	IncludeHTMLTags bool `json:"includeHtmlTags"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
}

// Search выполняет один поисковый вызов с ретраями. Ошибки кодируются
// в поле Error результата и не возвращаются как error.
func (c *Client) Search(ctx context.Context, query string, mode domain.SearchMode) *domain.SearchResult {
	result := &domain.SearchResult{
		Query:     query,
		Timestamp: domain.Now(),
		Mode:      mode,
	}

	if strings.TrimSpace(query) == "" {
		result.Error = domain.ErrEmptyQuery.Error()
		return result
	}

	params := c.standard
	if mode == domain.ModeDeep {
		params = c.deep
	}

	body, err := json.Marshal(exaRequest{
		Query: query,
		Type:  "auto",
		Contents: exaContents{
			Text: exaText{
				MaxCharacters:   params.MaxCharacters,
				IncludeHTMLTags: true,
			},
			Livecrawl: "always",
		},
		NumResults: params.NumResults,
	})
	if err != nil {
		result.Error = fmt.Sprintf("marshal request: %v", err)
		return result
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			// линейный backoff: delay = baseDelay * номер предыдущей попытки
			select {
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result
			case <-time.After(c.baseDelay * time.Duration(attempt-1)):
			}
		}

		resp, err := c.doAttempt(ctx, body)
		if err != nil {
			lastErr = err
			c.logger.Warn("search attempt failed",
				zap.Int("attempt", attempt),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		result.Items = c.normalize(resp.Results, params.MaxItems)
		return result
	}

	result.Error = fmt.Sprintf("%v: %v", domain.ErrSearchFailed, lastErr)
	return result
}

func (c *Client) doAttempt(ctx context.Context, body []byte) (*exaResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// любой статус кроме 200 считаем временным сбоем и ретраим
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var exaResp exaResponse
	if err := json.Unmarshal(respBody, &exaResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadFormat, err)
	}
	if exaResp.Results == nil {
		return nil, fmt.Errorf("%w: missing results field", domain.ErrBadFormat)
	}

	return &exaResp, nil
}

// normalize мапит записи провайдера в доменную модель, терпимо
// к дрейфу схемы: отсутствующие поля заменяются заглушками
func (c *Client) normalize(results []exaResult, maxItems int) []domain.SearchItem {
	if len(results) > maxItems {
		results = results[:maxItems]
	}

	items := make([]domain.SearchItem, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = fallbackTitle
		}

		url := r.URL
		if url == "" {
			url = fallbackURL
		}

		content := r.Summary
		if content == "" {
			content = r.Text
		}
		if content == "" {
			content = r.Snippet
		}
		if content == "" {
			content = fallbackContent
		}

		items[i] = domain.SearchItem{Title: title, URL: url, Content: content}
	}
	return items
}
