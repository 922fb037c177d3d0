package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// Feature weights for the local model
const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// LocalProvider is an offline embedding model for file names. It splits a
// name into words (separators, camelCase and digit boundaries), hashes each
// word and each padded character trigram into LocalDimension signed buckets,
// and L2-normalises the result. Names sharing words or spelling land close
// together; no network or model files are needed.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates the offline embedder
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{
		model: DefaultLocalModel,
		cache: cache,
	}, nil
}

func (l *LocalProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}

	vector, ok := l.cache.Lookup(l.model, req.Text)
	if !ok {
		vector = embedName(req.Text)
		l.cache.Store(l.model, req.Text, vector)
	}

	return &Embedding{
		Text:      req.Text,
		Vector:    vector,
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     l.model,
	}, nil
}

func (l *LocalProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatch(req.Texts); err != nil {
		return nil, err
	}

	embeddings := make([]*Embedding, len(req.Texts))
	for i, text := range req.Texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := l.GenerateEmbedding(ctx, EmbeddingRequest{Text: text})
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = emb
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderLocal,
		Model:      l.model,
	}, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}

// embedName computes the local model's vector for text
func embedName(text string) []float32 {
	vector := make([]float32, LocalDimension)

	for _, word := range splitWords(text) {
		addFeature(vector, "w:"+word, wordWeight)

		padded := "<" + word + ">"
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			addFeature(vector, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}

	return NormalizeVector(vector)
}

// addFeature hashes feature into a bucket; one hash bit picks the sign
func addFeature(vector []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(len(vector)))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vector[bucket] += weight
}

// splitWords lowercases text and breaks it on non-alphanumerics,
// lower-to-upper case changes and letter/digit changes.
func splitWords(text string) []string {
	var (
		words   []string
		current strings.Builder
		prev    rune
	)

	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if prev != 0 {
			camel := unicode.IsLower(prev) && unicode.IsUpper(r)
			digitEdge := unicode.IsDigit(prev) != unicode.IsDigit(r)
			if camel || digitEdge {
				flush()
			}
		}
		current.WriteRune(r)
		prev = r
	}
	flush()

	return words
}
