package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"SEARCH_PROVIDER", "EXA_API_KEY", "EXA_BASE_URL",
	"LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "LLM_TEMPERATURE",
	"RESEARCH_DEFAULT_DEPTH", "SERVER_ADDR", "RATE_LIMIT_PER_MINUTE",
	"TELEGRAM_BOT_TOKEN", "REPORT_DIR", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name: "mock providers need no keys",
			envVars: map[string]string{
				"SEARCH_PROVIDER": "mock",
				"LLM_PROVIDER":    "mock",
			},
			wantErr: nil,
		},
		{
			name: "exa requires api key",
			envVars: map[string]string{
				"SEARCH_PROVIDER": "exa",
				"LLM_PROVIDER":    "mock",
			},
			wantErr: ErrMissingSearchKey,
		},
		{
			name: "openrouter requires api key",
			envVars: map[string]string{
				"SEARCH_PROVIDER": "mock",
				"LLM_PROVIDER":    "openrouter",
			},
			wantErr: ErrMissingLLMKey,
		},
		{
			name: "unknown llm provider",
			envVars: map[string]string{
				"SEARCH_PROVIDER": "mock",
				"LLM_PROVIDER":    "quantum",
			},
			wantErr: ErrUnknownProvider,
		},
		{
			name: "depth out of range",
			envVars: map[string]string{
				"SEARCH_PROVIDER":        "mock",
				"LLM_PROVIDER":           "mock",
				"RESEARCH_DEFAULT_DEPTH": "50",
			},
			wantErr: ErrInvalidDepth,
		},
		{
			name: "full exa config",
			envVars: map[string]string{
				"EXA_API_KEY":  "exa-key",
				"LLM_PROVIDER": "deepseek",
				"LLM_API_KEY":  "llm-key",
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load("")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}
			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_PROVIDER", "mock")
	t.Setenv("LLM_PROVIDER", "mock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Research.DefaultDepth != 3 {
		t.Errorf("default depth = %d, want 3", cfg.Research.DefaultDepth)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Search.Timeout != 30*time.Second {
		t.Errorf("search timeout = %v, want 30s", cfg.Search.Timeout)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("llm timeout = %v, want 60s", cfg.LLM.Timeout)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", cfg.LLM.Temperature)
	}
	if cfg.Search.NumResults != 5 || cfg.Search.DeepResults != 10 {
		t.Errorf("result counts = %d/%d, want 5/10", cfg.Search.NumResults, cfg.Search.DeepResults)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_FileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_PROVIDER", "mock")
	t.Setenv("LLM_PROVIDER", "mock")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
research:
  default_depth: 5
server:
  addr: ":9090"
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Research.DefaultDepth != 5 {
		t.Errorf("depth = %d, want 5 from file", cfg.Research.DefaultDepth)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090 from file", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q, want debug from file", cfg.Log.Level)
	}
	// не упомянутые в файле значения остаются из окружения/дефолтов
	if cfg.Search.Provider != "mock" {
		t.Errorf("search provider = %q, want mock", cfg.Search.Provider)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_PROVIDER", "mock")
	t.Setenv("LLM_PROVIDER", "mock")

	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for missing config file")
	}
}
