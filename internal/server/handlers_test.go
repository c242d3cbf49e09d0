package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/deepresearch-bot/internal/analysis"
	"github.com/kitbuilder587/deepresearch-bot/internal/cache/memory"
	llmmock "github.com/kitbuilder587/deepresearch-bot/internal/llm/mock"
	"github.com/kitbuilder587/deepresearch-bot/internal/ratelimit"
	"github.com/kitbuilder587/deepresearch-bot/internal/research"
	searchmock "github.com/kitbuilder587/deepresearch-bot/internal/search/mock"
)

type serverOptions struct {
	searchErr string
	limiter   *ratelimit.Limiter
	cache     *memory.Cache
}

func newTestServer(t *testing.T, opts serverOptions) *Server {
	t.Helper()

	sc := searchmock.New()
	if opts.searchErr != "" {
		sc.WithError(opts.searchErr)
	}

	analyzer := analysis.NewExecutor(llmmock.New(), analysis.Config{
		BaseDelay: time.Millisecond,
	}, zap.NewNop())

	pipeline := research.NewPipeline(research.Deps{
		Search:   sc,
		Analyzer: analyzer,
		Logger:   zap.NewNop(),
	})

	return New(Config{
		DefaultDepth: 2,
		CacheTTL:     time.Minute,
	}, Deps{
		Pipeline: pipeline,
		Limiter:  opts.limiter,
		Cache:    opts.cache,
		Logger:   zap.NewNop(),
	})
}

func doResearch(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, researchResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/research", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp researchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return w, resp
}

func TestHandleResearch_Success(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w, resp := doResearch(t, s, `{"query": "quantum computing advances", "depth": 2}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !resp.Success {
		t.Fatalf("success = false, error = %s", resp.Error)
	}
	if resp.Analysis == "" {
		t.Error("analysis should not be empty")
	}
	if len(resp.SearchHistory) != 2 {
		t.Errorf("search history = %d entries, want 2", len(resp.SearchHistory))
	}
	if len(resp.Progress) == 0 {
		t.Error("progress should not be empty")
	}
	if resp.Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestHandleResearch_BadRequests(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"empty query", `{"query": ""}`},
		{"whitespace query", `{"query": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doResearch(t, s, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if resp.Success {
				t.Error("success should be false")
			}
			if resp.Error == "" {
				t.Error("error should be set")
			}
		})
	}
}

func TestHandleResearch_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, serverOptions{searchErr: "status 500"})

	w, resp := doResearch(t, s, `{"query": "some question"}`)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if resp.Error == "" {
		t.Error("error should be set")
	}
	// история сохраняется даже при ошибке
	if len(resp.SearchHistory) != 1 {
		t.Errorf("search history = %d entries, want 1", len(resp.SearchHistory))
	}
}

func TestHandleResearch_RateLimited(t *testing.T) {
	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 1})
	s := newTestServer(t, serverOptions{limiter: limiter})

	if w, _ := doResearch(t, s, `{"query": "first"}`); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w, resp := doResearch(t, s, `{"query": "second"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if resp.Error == "" {
		t.Error("error should be set")
	}
}

func TestHandleResearch_CacheHit(t *testing.T) {
	reportCache := memory.New()
	defer reportCache.Stop()
	s := newTestServer(t, serverOptions{cache: reportCache})

	if _, resp := doResearch(t, s, `{"query": "cached question"}`); !resp.Success {
		t.Fatalf("first run failed: %s", resp.Error)
	}

	_, resp := doResearch(t, s, `{"query": "cached question"}`)
	if !resp.Success {
		t.Fatalf("cached run failed: %s", resp.Error)
	}
	if len(resp.Progress) != 1 || resp.Progress[0] != "served from cache" {
		t.Errorf("progress = %v, want cache marker", resp.Progress)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
