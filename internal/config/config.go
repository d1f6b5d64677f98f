package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// Server
	Port            string        `env:"PORT" envDefault:"5000"`
	Env             string        `env:"ENV" envDefault:"development"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Completion resilience
	CompletionTimeout      time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
	CompletionMaxRetries   int           `env:"COMPLETION_MAX_RETRIES" envDefault:"2"`
	CompletionRetryInitial time.Duration `env:"COMPLETION_RETRY_INITIAL" envDefault:"500ms"`

	// Personas
	PersonaDir         string `env:"PERSONA_DIR" envDefault:"personas"`
	PersonaCatalogPath string `env:"PERSONA_CATALOG_PATH" envDefault:"personas/personas.yaml"`

	// Storage
	HistoryDir string `env:"HISTORY_DIR" envDefault:"data"`

	// Daily usage report, empty disables it
	ReportCron string `env:"REPORT_CRON" envDefault:"0 21 * * *"`
}

// New parses the process environment. A .env file, if any, must already be
// loaded by the caller.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderYandex:
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	if c.CompletionTimeout <= 0 {
		return fmt.Errorf("COMPLETION_TIMEOUT must be positive, got %s", c.CompletionTimeout)
	}
	if c.CompletionMaxRetries < 0 {
		return fmt.Errorf("COMPLETION_MAX_RETRIES must not be negative, got %d", c.CompletionMaxRetries)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
