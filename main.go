package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/starcadet/relay/api"
	"github.com/starcadet/relay/config"
	"github.com/starcadet/relay/history"
	"github.com/starcadet/relay/llm"
	"github.com/starcadet/relay/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting relay...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Model: %s", cfg.Model)
	log.Printf("Streaming replies: %v", cfg.StreamReplies)

	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARN: OPENAI_API_KEY not set, chat requests will be rejected with 503")
	}

	// Initialize history store (falls back to in-memory when the durable
	// backend is unavailable)
	store := history.Open(cfg.DatabaseURL)
	defer store.Close()

	// Initialize completion client
	client := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)

	// Initialize safety policy engine
	ctx := context.Background()
	policyContent := policy.DefaultPolicy
	if cfg.SafetyPolicyPath != "" {
		data, err := os.ReadFile(cfg.SafetyPolicyPath)
		if err != nil {
			log.Fatalf("Failed to read safety policy %s: %v", cfg.SafetyPolicyPath, err)
		}
		policyContent = string(data)
	}
	engine, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize handler
	h := api.NewHandler(cfg, store, client, engine)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Relay started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down relay...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Relay stopped")
}
