package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/deepresearch-bot/internal/llm"
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	// Responses, если задан, выдается по одному ответу на вызов
	Responses []string

	CallCount  int
	LastSystem string
	LastPrompt string
	AllCalls   []Call

	mu sync.Mutex
}

type Call struct {
	System string
	Prompt string
}

func New() *Client {
	return &Client{
		Response: "Mock analysis of the search results.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithResponses(responses ...string) *Client {
	c.Responses = responses
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastSystem = system
	c.LastPrompt = prompt
	c.AllCalls = append(c.AllCalls, Call{System: system, Prompt: prompt})
	call := c.CallCount
	delay := c.Delay
	err := c.Error
	response := c.Response
	if len(c.Responses) > 0 {
		idx := call - 1
		if idx >= len(c.Responses) {
			idx = len(c.Responses) - 1
		}
		response = c.Responses[idx]
	}
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}

	return response, nil
}
