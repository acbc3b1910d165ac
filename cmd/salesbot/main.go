package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wafam/salesbot/internal/api"
	"github.com/wafam/salesbot/internal/config"
	"github.com/wafam/salesbot/internal/llm"
	"github.com/wafam/salesbot/internal/rag"
	"github.com/wafam/salesbot/internal/repository"
	"github.com/wafam/salesbot/internal/service"
	"github.com/wafam/salesbot/internal/session"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize lead database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	leadRepo := repository.NewLeadRepository(db)

	// In-memory conversation state with idle expiry
	sessions := session.NewStore(cfg.SessionTTL(), cfg.SessionSweep())
	defer sessions.Close()

	// Retrieval and completion collaborators
	embedder := rag.NewEmbedderClient(rag.EmbedderConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.Knowledge.EmbeddingModel,
		Timeout: cfg.KnowledgeTimeout(),
	})
	store := rag.NewQdrantStore(rag.QdrantConfig{
		URL:        cfg.Knowledge.QdrantURL,
		APIKey:     cfg.Knowledge.QdrantAPIKey,
		Collection: cfg.Knowledge.Collection,
		Timeout:    cfg.KnowledgeTimeout(),
	})

	// The knowledge base is required; do not serve traffic without it.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.KnowledgeTimeout())
	if err := store.Ping(pingCtx); err != nil {
		cancelPing()
		logger.Fatal("Knowledge base unavailable", zap.Error(err))
	}
	cancelPing()

	retriever := rag.NewKnowledgeBase(embedder, store)
	completer := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})

	chatService := service.NewChatService(cfg, logger, sessions, leadRepo, retriever, completer)

	// Setup router
	router := api.SetupRouter(chatService, leadRepo, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting salesbot server",
			zap.String("address", cfg.Address()),
			zap.String("collection", cfg.Knowledge.Collection),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
