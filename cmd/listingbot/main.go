package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amlakhub/listingbot/internal/api"
	"github.com/amlakhub/listingbot/internal/avalai"
	"github.com/amlakhub/listingbot/internal/config"
	"github.com/amlakhub/listingbot/internal/engine"
	"github.com/amlakhub/listingbot/internal/extractor"
	"github.com/amlakhub/listingbot/internal/gateway"
	"github.com/amlakhub/listingbot/internal/state"
	"github.com/amlakhub/listingbot/internal/store"
	"github.com/amlakhub/listingbot/internal/telegram"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("listingbot starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// AvalAI client, shared by extraction and voice transcription
	if cfg.AvalAIAPIKey == "" {
		slog.Error("AVALAI_API_KEY is required")
		os.Exit(1)
	}
	llm := avalai.NewClient(cfg.AvalAIAPIKey, cfg.AvalAIModel, cfg.AvalAIBaseURL)
	slog.Info("avalai client ready", "model", cfg.AvalAIModel)

	ext := extractor.New(llm, cfg.ExtractTimeout, slog.Default())

	// Telegram sender
	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}
	tg := telegram.NewClient(cfg.TelegramToken, slog.Default())

	// NATS gateway link
	gw, err := gateway.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer gw.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Conversation state with expiry events
	convs := state.New(
		state.WithTTL(cfg.ConversationTTL),
		state.WithExpiryHook(func(userID int64) {
			if err := gw.Publish(gateway.SubjectConversationExpired, map[string]any{
				"user_id": userID,
			}); err != nil {
				slog.Warn("failed to publish expiry event", "error", err)
			}
		}),
	)

	// Turn engine — the main pipeline
	eng := engine.New(convs, ext, llm, tg, tg, db, db, gw, slog.Default())

	if err := gw.Subscribe(gateway.SubjectInboundMessage, eng.HandleInbound); err != nil {
		slog.Error("failed to subscribe to inbound messages", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, convs, db)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := gw.Publish(gateway.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("listingbot ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("listingbot stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
