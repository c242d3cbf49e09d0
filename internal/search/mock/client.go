package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

// Client - поисковый клиент для тестов и запуска без API-ключей
type Client struct {
	Items []domain.SearchItem
	Err   string
	Delay time.Duration

	CallCount  int
	LastQuery  string
	LastMode   domain.SearchMode
	AllQueries []string

	mu sync.Mutex
}

func New() *Client {
	return &Client{
		Items: []domain.SearchItem{
			{Title: "Mock result", URL: "https://example.com", Content: "mock search content"},
		},
	}
}

func (c *Client) WithItems(items []domain.SearchItem) *Client {
	c.Items = items
	return c
}

func (c *Client) WithError(msg string) *Client {
	c.Err = msg
	return c
}

func (c *Client) Search(ctx context.Context, query string, mode domain.SearchMode) *domain.SearchResult {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = query
	c.LastMode = mode
	c.AllQueries = append(c.AllQueries, query)
	delay := c.Delay
	errMsg := c.Err
	items := c.Items
	c.mu.Unlock()

	result := &domain.SearchResult{
		Query:     query,
		Timestamp: domain.Now(),
		Mode:      mode,
	}

	if query == "" {
		result.Error = domain.ErrEmptyQuery.Error()
		return result
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			result.Error = ctx.Err().Error()
			return result
		case <-time.After(delay):
		}
	}

	if errMsg != "" {
		result.Error = fmt.Sprintf("%v: %s", domain.ErrSearchFailed, errMsg)
		return result
	}

	result.Items = items
	return result
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastQuery = ""
	c.AllQueries = nil
}
