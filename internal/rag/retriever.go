package rag

import (
	"context"
	"fmt"

	"github.com/wafam/salesbot/internal/domain"
)

// Payload keys stored alongside each vector.
const (
	PayloadText  = "text"
	PayloadTitle = "title"
)

// Retriever returns knowledge-base passages relevant to a query. Hit
// scores are distances: lower means more similar.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error)
}

// KnowledgeBase is a Retriever backed by an embeddings client and a
// Qdrant collection.
type KnowledgeBase struct {
	embedder *EmbedderClient
	store    *QdrantStore
}

// NewKnowledgeBase creates a retriever over the given clients.
func NewKnowledgeBase(embedder *EmbedderClient, store *QdrantStore) *KnowledgeBase {
	return &KnowledgeBase{embedder: embedder, store: store}
}

// Search embeds the query and runs a similarity search. Qdrant reports
// cosine similarity, so the score is converted to a distance to keep
// the lower-is-more-similar contract.
func (kb *KnowledgeBase) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	vector, err := kb.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := kb.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(results))
	for _, r := range results {
		hit := domain.SearchHit{Score: 1 - r.Score}
		if v, ok := r.Payload[PayloadText].(string); ok {
			hit.Content = v
		}
		if v, ok := r.Payload[PayloadTitle].(string); ok {
			hit.Title = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
