package llm

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"persona-chatter/internal/config"
)

const (
	ProviderOpenAI = string(config.ProviderOpenAI)
	ProviderYandex = string(config.ProviderYandex)
)

// Factory creates LLM clients with consistent logic. Every client it returns
// is wrapped in Retrying.
type Factory struct {
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
	Retry              RetryPolicy

	logger *zap.Logger

	mu     sync.Mutex
	yandex *YandexClient
}

func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
		Retry: RetryPolicy{
			Timeout:         cfg.CompletionTimeout,
			MaxRetries:      cfg.CompletionMaxRetries,
			InitialInterval: cfg.CompletionRetryInitial,
		},
		logger: logger,
	}
}

func (f *Factory) CreateClient(provider string, opts Options) (Client, error) {
	var raw Client
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		if f.OpenaiAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %s", provider)
		}
		raw = NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenRouterReferrer, f.OpenRouterTitle, opts)
	case ProviderYandex:
		yc, err := f.yandexClient()
		if err != nil {
			return nil, err
		}
		raw = yc
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
	logger := f.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewRetrying(raw, f.Retry, logger.With(zap.String("provider", provider), zap.String("model", opts.Model))), nil
}

// yandexClient shares one IAM token between personas.
func (f *Factory) yandexClient() (*YandexClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.yandex != nil {
		return f.yandex, nil
	}
	yc, err := NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	if err != nil {
		return nil, err
	}
	f.yandex = yc
	return yc, nil
}
