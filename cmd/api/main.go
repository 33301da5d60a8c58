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

	"github.com/linqiu/chronicle/backend/internal/config"
	"github.com/linqiu/chronicle/backend/internal/handler"
	"github.com/linqiu/chronicle/backend/internal/inference"
	"github.com/linqiu/chronicle/backend/internal/service/chat"
	"github.com/linqiu/chronicle/backend/internal/service/session"
	"github.com/linqiu/chronicle/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	_, _, telemetryCleanup, err := telemetry.Init(ctx)
	if err != nil {
		log.Printf("warning: failed to initialize telemetry: %v", err)
	} else {
		defer telemetryCleanup()
	}

	// Backend initialization is fallible. On failure the server still
	// starts; chat calls report the degraded state instead of crashing.
	backend := initBackend(ctx, cfg)

	store := session.NewStore()
	chatSvc := chat.NewService(store, backend, cfg.Chat.MaxHistoryPairs)

	router := handler.NewRouter(chatSvc, cfg.Server.CORSOrigin)

	startServer(ctx, cfg.Server, router)
}

func initBackend(ctx context.Context, cfg *config.Config) inference.Backend {
	if cfg.Ollama.Enabled {
		backend := inference.NewOllamaBackend(cfg.Ollama)
		if err := backend.Ping(ctx); err != nil {
			log.Printf("warning: ollama backend unreachable: %v", err)
			log.Println("chat endpoint will report the model as unavailable")
			return nil
		}
		log.Printf("ollama backend initialized, model=%s", cfg.Ollama.Model)
		return backend
	}

	backend, err := inference.NewArkBackend(ctx, cfg.Model)
	if err != nil {
		log.Printf("warning: failed to initialize ark backend: %v", err)
		log.Println("chat endpoint will report the model as unavailable")
		return nil
	}
	log.Printf("ark backend initialized, model=%s", cfg.Model.Name)
	return backend
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Chronicle backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
