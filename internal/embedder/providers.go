package embedder

import (
	"math"
	"time"
)

// Provider configuration
const (
	ProviderLocal  = "local"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderJina   = "jina"

	// Default models
	DefaultLocalModel  = "filename-ngram-v1"
	DefaultOllamaModel = "nomic-embed-text"
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultJinaModel   = "jina-embeddings-v3"

	// Default endpoints
	DefaultOllamaURL = "http://127.0.0.1:11434"
	DefaultOpenAIURL = "https://api.openai.com/v1/embeddings"
	DefaultJinaURL   = "https://api.jina.ai/v1/embeddings"

	// Dimensions of the default models
	LocalDimension  = 384
	OllamaDimension = 768
	OpenAIDimension = 1536
	JinaDimension   = 1024

	// MaxBatchSize is the largest batch accepted by GenerateBatch
	MaxBatchSize = 100

	// Startup probe schedule
	ProbeAttempts     = 3
	ProbeInitialDelay = 100 * time.Millisecond
	ProbeMaxDelay     = 5 * time.Second
)

// NormalizeVector normalizes a vector to unit length
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}

	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}

	return result
}
