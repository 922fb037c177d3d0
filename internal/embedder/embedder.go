package embedder

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is
var (
	// ErrProviderFailed wraps any failure reported by the model or its transport
	ErrProviderFailed = errors.New("embedding provider failed")
	// ErrUnsupportedModel is returned for an unknown provider name
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrMissingAPIKey is returned by hosted providers configured without a key
	ErrMissingAPIKey = errors.New("missing api key")
	// ErrEmptyText rejects empty names; every indexed file has a non-empty one
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrBatchTooLarge rejects batches above MaxBatchSize
	ErrBatchTooLarge = errors.New("batch size exceeds limit")
	// ErrDimensionMismatch means a vector's length differs from the model's dimension
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedding is the vector computed for one file name
type Embedding struct {
	Text      string
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
}

// EmbeddingRequest asks for the vector of a single text
type EmbeddingRequest struct {
	Text string
	// Model overrides the provider's model when set
	Model string
}

// BatchEmbeddingRequest asks for the vectors of several texts at once
type BatchEmbeddingRequest struct {
	Texts []string
	// Model overrides the provider's model when set
	Model string
}

// BatchEmbeddingResponse holds one embedding per input text, in input order
type BatchEmbeddingResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder turns short texts (file names) into fixed-length vectors.
// For a given model the output is a pure function of the input text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error)

	// GenerateBatch embeds every text with one model call where the
	// provider allows it. Embeddings come back in input order.
	GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error)

	// Dimension is the vector length, or 0 while a hosted model's
	// dimension is still unknown
	Dimension() int

	Provider() string
	Model() string
	Close() error
}

// ValidateText checks a single text
func ValidateText(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateBatch checks a batch of texts against the size limit
func ValidateBatch(texts []string) error {
	switch {
	case len(texts) == 0:
		return fmt.Errorf("%w: batch is empty", ErrEmptyText)
	case len(texts) > MaxBatchSize:
		return fmt.Errorf("%w: %d texts, max %d", ErrBatchTooLarge, len(texts), MaxBatchSize)
	}
	for i, text := range texts {
		if err := ValidateText(text); err != nil {
			return fmt.Errorf("text %d: %w", i, err)
		}
	}
	return nil
}

// modelFor returns override, or fallback when override is empty
func modelFor(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
