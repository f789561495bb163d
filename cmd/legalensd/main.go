package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"legalens/internal/common"
	"legalens/internal/export"
	"legalens/internal/llm/groq"
	"legalens/internal/server"
	"legalens/internal/session"
	"legalens/internal/simplifier"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("startup.config_invalid", "error", err)
		os.Exit(1)
	}

	client := groq.NewClient(groq.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	svc := simplifier.NewService(client, logger)
	exp := export.NewService(cfg.Server.OutputDir, logger)
	sessions := session.NewManager()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(cfg, svc, exp, sessions, logger).Router(),
		// model round trips can take a while; keep the write timeout generous
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("startup.listening", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("startup.serve_failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown.begin")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown.error", "error", err)
	}
	logger.Info("shutdown.done")
}
