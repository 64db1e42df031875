package domain

import "context"

// EmbeddingResult is a vector plus the token usage reported by the provider.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can verify provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// KeyPrefix namespaces all lotsearch keys in the store.
const KeyPrefix = "lotsearch:"
