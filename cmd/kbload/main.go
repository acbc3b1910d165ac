// Command kbload chunks knowledge-base files, embeds them, and upserts
// them into the vector store the chatbot retrieves from.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wafam/salesbot/internal/config"
	"github.com/wafam/salesbot/internal/kb"
	"github.com/wafam/salesbot/internal/rag"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dir        = flag.String("dir", "./knowledge_base", "Directory with .txt/.md knowledge files")
	sentences  = flag.Int("sentences", 5, "Sentences per chunk")
	overlap    = flag.Int("overlap", 1, "Overlapping sentences between chunks")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	docs, err := kb.LoadDir(*dir)
	if err != nil {
		logger.Fatal("Failed to load knowledge files", zap.Error(err))
	}
	if len(docs) == 0 {
		logger.Fatal("No knowledge files found", zap.String("dir", *dir))
	}

	chunker := kb.NewChunker(*sentences, *overlap)
	var chunks []kb.Chunk
	for _, doc := range docs {
		chunks = append(chunks, chunker.Chunk(doc.Title, doc.Content)...)
	}
	if len(chunks) == 0 {
		logger.Fatal("Knowledge files contain no text", zap.String("dir", *dir))
	}
	logger.Info("Chunked knowledge base",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
	)

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

	ctx := context.Background()

	points := make([]rag.Point, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := embedder.Embed(ctx, chunk.Text)
		if err != nil {
			logger.Fatal("Failed to embed chunk",
				zap.String("title", chunk.Title),
				zap.Int("index", chunk.Index),
				zap.Error(err),
			)
		}
		// Deterministic ids keep re-ingestion idempotent.
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s:%d", chunk.Title, chunk.Index)))
		points = append(points, rag.Point{
			ID:     id.String(),
			Vector: vector,
			Payload: map[string]any{
				rag.PayloadText:  chunk.Text,
				rag.PayloadTitle: chunk.Title,
			},
		})
	}

	if err := store.EnsureCollection(ctx, len(points[0].Vector)); err != nil {
		logger.Fatal("Failed to create collection", zap.Error(err))
	}
	if err := store.Upsert(ctx, points); err != nil {
		logger.Fatal("Failed to upsert points", zap.Error(err))
	}

	logger.Info("Knowledge base loaded",
		zap.String("collection", cfg.Knowledge.Collection),
		zap.Int("points", len(points)),
	)
}
