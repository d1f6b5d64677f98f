package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"persona-chatter/internal/chat"
	"persona-chatter/internal/config"
	"persona-chatter/internal/handlers"
	"persona-chatter/internal/llm"
	"persona-chatter/internal/persona"
	"persona-chatter/internal/router"
	"persona-chatter/internal/scheduler"
	"persona-chatter/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	history, err := storage.NewFileLog(cfg.HistoryDir)
	if err != nil {
		logger.Fatal("failed to init history log", zap.Error(err))
	}

	catalog, err := persona.LoadCatalog(cfg.PersonaCatalogPath, persona.Defaults{
		Provider: string(cfg.LLMProvider),
		Model:    cfg.OpenAIModel,
	})
	if err != nil {
		logger.Fatal("failed to load persona catalog", zap.Error(err))
	}
	personas := persona.NewStore(cfg.PersonaDir, catalog)
	if err := personas.Warm(); err != nil {
		logger.Warn("some persona prompts are unavailable", zap.Error(err))
	}

	clients, err := chat.NewClients(catalog, llm.NewFactory(cfg, logger))
	if err != nil {
		logger.Fatal("failed to create llm clients", zap.Error(err))
	}
	svc := chat.NewService(catalog, personas, history, clients, logger)

	sched := scheduler.New(cfg.ReportCron, logger)
	sched.SetReportFunction(svc.Report)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start report scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := router.New(handlers.NewChatHandler(svc, logger), logger, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Strings("personas", catalog.Names()),
			zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// writeTimeout must outlast every completion attempt plus backoff.
func writeTimeout(cfg *config.Config) time.Duration {
	attempts := time.Duration(cfg.CompletionMaxRetries + 1)
	d := attempts*cfg.CompletionTimeout + 30*time.Second
	if d < 90*time.Second {
		d = 90 * time.Second
	}
	return d
}
