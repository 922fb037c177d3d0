package embedder

import (
	"context"
	"fmt"
	"strings"
)

// probeText is embedded once at startup to prove the model is usable
const probeText = "__init__.py"

// Config holds embedder configuration
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	CacheSize int
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderLocal:
		return NewLocalProvider(cache)
	case ProviderOllama:
		return NewOllamaProvider(cfg.Model, cfg.BaseURL, cache)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, cache)
	case ProviderJina:
		return NewJinaProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
}

// Open creates the embedder and probes it. The process should refuse to
// start when Open fails rather than discover a dead model mid-scan.
func Open(ctx context.Context, cfg Config) (Embedder, error) {
	emb, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := Probe(ctx, emb, DefaultRetryConfig()); err != nil {
		_ = emb.Close()
		return nil, err
	}
	return emb, nil
}

// Probe embeds a fixed text, retrying with backoff, and checks the vector
// length against the provider's dimension.
func Probe(ctx context.Context, emb Embedder, cfg RetryConfig) error {
	result, err := retry(ctx, cfg, func(ctx context.Context) (*Embedding, error) {
		return emb.GenerateEmbedding(ctx, EmbeddingRequest{Text: probeText})
	})
	if err != nil {
		return fmt.Errorf("embedding model %s/%s unavailable: %w", emb.Provider(), emb.Model(), err)
	}

	if dim := emb.Dimension(); len(result.Vector) != dim || dim == 0 {
		return fmt.Errorf("%w: probe returned %d values, provider reports %d",
			ErrDimensionMismatch, len(result.Vector), dim)
	}
	return nil
}
