package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"persona-chatter/internal/analytics"
	"persona-chatter/internal/llm"
	"persona-chatter/internal/persona"
	"persona-chatter/internal/prompt"
	"persona-chatter/internal/storage"
)

type PersonaLoader interface {
	Load(name string) (string, error)
}

// Reply is what a successful chat produced. Persisted is false when the
// exchange could not be written to the history log; the reply is still valid.
type Reply struct {
	Text      string
	Model     string
	Persisted bool
}

type Service struct {
	catalog  *persona.Catalog
	personas PersonaLoader
	history  storage.HistoryLog
	clients  map[string]llm.Client
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the chat flow. clients is keyed by persona name and must
// hold an entry for every persona in catalog.
func NewService(catalog *persona.Catalog, personas PersonaLoader, history storage.HistoryLog, clients map[string]llm.Client, logger *zap.Logger) *Service {
	return &Service{
		catalog:  catalog,
		personas: personas,
		history:  history,
		clients:  clients,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewClients builds one completion client per persona with the persona's
// model and sampling options.
func NewClients(catalog *persona.Catalog, factory *llm.Factory) (map[string]llm.Client, error) {
	clients := make(map[string]llm.Client)
	for _, name := range catalog.Names() {
		def, _ := catalog.Lookup(name)
		c, err := factory.CreateClient(def.Provider, llm.Options{
			Model:       def.Model,
			Temperature: def.Temperature,
			MaxTokens:   def.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("persona %s: %w", name, err)
		}
		clients[name] = c
	}
	return clients, nil
}

// Chat runs one request: validate, load persona and history, assemble the
// prompt, complete, format, persist, respond. Steps run strictly in order.
func (s *Service) Chat(ctx context.Context, personaName, message string) (Reply, error) {
	def, client, err := s.resolve(personaName)
	if err != nil {
		return Reply{}, err
	}
	if strings.TrimSpace(message) == "" {
		return Reply{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	log := s.logger.With(zap.String("persona", personaName))

	personaText, err := s.personas.Load(personaName)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	history, err := s.history.Load(personaName)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}

	messages := prompt.BuildMessages(personaText, def.StyleDirective, history, message)

	start := time.Now()
	resp, err := client.Generate(ctx, messages)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	log.Info("completion received",
		zap.String("model", resp.Model),
		zap.Int("history_len", len(history)),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("completion_tokens", resp.CompletionTokens),
		zap.Int("total_tokens", resp.TotalTokens),
		zap.Duration("took", time.Since(start)))

	text := prompt.NormalizeLineEndings(resp.Content)
	if def.FormatReply {
		text = prompt.FormatReply(text)
	}

	reply := Reply{Text: text, Model: resp.Model, Persisted: true}
	ex := storage.Exchange{Timestamp: s.now(), User: message, Bot: text}
	if err := s.history.Append(personaName, ex); err != nil {
		// the reply still goes out; Persisted reports the lost entry
		log.Error("failed to persist exchange", zap.Error(fmt.Errorf("%w: %w", ErrPersistenceFailed, err)))
		reply.Persisted = false
	}
	return reply, nil
}

// History returns the persona's recorded exchanges, oldest first.
func (s *Service) History(_ context.Context, personaName string) ([]storage.Exchange, error) {
	if _, ok := s.catalog.Lookup(personaName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPersona, personaName)
	}
	history, err := s.history.Load(personaName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	return history, nil
}

// Stats summarizes the persona's exchanges on day.
func (s *Service) Stats(ctx context.Context, personaName string, day time.Time) (*analytics.DailyStats, error) {
	history, err := s.History(ctx, personaName)
	if err != nil {
		return nil, err
	}
	return analytics.AnalyzeDay(personaName, history, day), nil
}

// Report logs the current UTC day's stats for every persona. The scheduler
// runs it once a day.
func (s *Service) Report(ctx context.Context) error {
	day := s.now()
	var errs []error
	for _, name := range s.catalog.Names() {
		stats, err := s.Stats(ctx, name, day)
		if err != nil {
			s.logger.Error("usage report skipped persona", zap.String("persona", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		s.logger.Info(stats.Summary(),
			zap.String("persona", name),
			zap.Int("exchanges", stats.Exchanges))
	}
	return errors.Join(errs...)
}

func (s *Service) resolve(personaName string) (persona.Definition, llm.Client, error) {
	def, ok := s.catalog.Lookup(personaName)
	if !ok {
		return persona.Definition{}, nil, fmt.Errorf("%w: %s", ErrUnknownPersona, personaName)
	}
	client, ok := s.clients[personaName]
	if !ok {
		return persona.Definition{}, nil, fmt.Errorf("%w: no completion client for %s", ErrContextUnavailable, personaName)
	}
	return def, client, nil
}
