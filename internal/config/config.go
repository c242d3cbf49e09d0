package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

var (
	ErrMissingSearchKey = errors.New("EXA_API_KEY is required for the exa provider")
	ErrMissingLLMKey    = errors.New("LLM_API_KEY is required for non-mock providers")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrInvalidDepth     = errors.New("default depth out of range")
)

type Config struct {
	Search   SearchConfig   `yaml:"search"`
	LLM      LLMConfig      `yaml:"llm"`
	Research ResearchConfig `yaml:"research"`
	Server   ServerConfig   `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

type SearchConfig struct {
	Provider     string        `yaml:"provider"` // exa | mock
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	NumResults   int           `yaml:"num_results"`      // standard-режим
	DeepResults  int           `yaml:"deep_num_results"` // deep-режим
	MaxChars     int           `yaml:"max_characters"`
	DeepMaxChars int           `yaml:"deep_max_characters"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openrouter | deepseek | azure | mock
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

type ResearchConfig struct {
	DefaultDepth int `yaml:"default_depth"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	Debug bool   `yaml:"debug"`
}

type ReportConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load читает конфигурацию из окружения; непустой path накладывает
// поверх значения из yaml-файла
func Load(path string) (*Config, error) {
	cfg := &Config{
		Search: SearchConfig{
			Provider:     getEnvOrDefault("SEARCH_PROVIDER", "exa"),
			APIKey:       os.Getenv("EXA_API_KEY"),
			BaseURL:      getEnvOrDefault("EXA_BASE_URL", "https://api.exa.ai"),
			Timeout:      time.Duration(getEnvIntOrDefault("SEARCH_TIMEOUT_SEC", 30)) * time.Second,
			RetryDelay:   time.Duration(getEnvIntOrDefault("SEARCH_RETRY_DELAY_MS", 1000)) * time.Millisecond,
			NumResults:   getEnvIntOrDefault("SEARCH_NUM_RESULTS", 5),
			DeepResults:  getEnvIntOrDefault("SEARCH_DEEP_NUM_RESULTS", 10),
			MaxChars:     getEnvIntOrDefault("SEARCH_MAX_CHARACTERS", 1000),
			DeepMaxChars: getEnvIntOrDefault("SEARCH_DEEP_MAX_CHARACTERS", 3000),
		},
		LLM: LLMConfig{
			Provider:    getEnvOrDefault("LLM_PROVIDER", "mock"),
			APIKey:      os.Getenv("LLM_API_KEY"),
			Model:       getEnvOrDefault("LLM_MODEL", "deepseek/deepseek-chat"),
			BaseURL:     os.Getenv("LLM_BASE_URL"),
			Temperature: getEnvFloatOrDefault("LLM_TEMPERATURE", 0.3),
			Timeout:     time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 60)) * time.Second,
			RetryDelay:  time.Duration(getEnvIntOrDefault("LLM_RETRY_DELAY_MS", 1000)) * time.Millisecond,
		},
		Research: ResearchConfig{
			DefaultDepth: getEnvIntOrDefault("RESEARCH_DEFAULT_DEPTH", domain.DefaultDepth),
		},
		Server: ServerConfig{
			Addr:              getEnvOrDefault("SERVER_ADDR", ":8080"),
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
			CacheTTL:          time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: getEnvOrDefault("TELEGRAM_DEBUG", "") == "true",
		},
		Report: ReportConfig{
			Dir: getEnvOrDefault("REPORT_DIR", "reports"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "exa":
		if c.Search.APIKey == "" {
			return ErrMissingSearchKey
		}
	case "mock":
	default:
		return fmt.Errorf("%w: search provider %q", ErrUnknownProvider, c.Search.Provider)
	}

	switch c.LLM.Provider {
	case "openrouter", "deepseek", "azure":
		if c.LLM.APIKey == "" {
			return ErrMissingLLMKey
		}
	case "mock":
	default:
		return fmt.Errorf("%w: llm provider %q", ErrUnknownProvider, c.LLM.Provider)
	}

	if c.Research.DefaultDepth < domain.MinDepth || c.Research.DefaultDepth > domain.MaxDepth {
		return ErrInvalidDepth
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
