package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// requestTimeout bounds one HTTP embedding call
const requestTimeout = 30 * time.Second

// remote holds what every HTTP-backed provider shares: the client, the
// cache, and the dimension, which is learned from the first response when
// the model is not one of the known defaults.
type remote struct {
	name       string
	model      string
	endpoint   string
	httpClient *http.Client
	cache      *Cache

	mu        sync.Mutex
	dimension int
}

func newRemote(name, model, endpoint string, dimension int, cache *Cache) *remote {
	return &remote{
		name:       name,
		model:      model,
		endpoint:   endpoint,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}
}

func (r *remote) Dimension() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dimension
}

func (r *remote) Provider() string {
	return r.name
}

func (r *remote) Model() string {
	return r.model
}

func (r *remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

// checkDimension records the dimension on first use and rejects vectors of any other length
func (r *remote) checkDimension(vectors [][]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range vectors {
		if r.dimension == 0 {
			r.dimension = len(v)
		}
		if len(v) != r.dimension {
			return fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(v), r.dimension)
		}
	}
	return nil
}

// batch serves texts from the cache where possible and sends the rest through call
func (r *remote) batch(ctx context.Context, req BatchEmbeddingRequest,
	call func(ctx context.Context, texts []string, model string) ([][]float32, error)) (*BatchEmbeddingResponse, error) {

	if err := ValidateBatch(req.Texts); err != nil {
		return nil, err
	}
	model := modelFor(req.Model, r.model)

	embeddings := make([]*Embedding, len(req.Texts))
	var (
		missTexts []string
		missIdx   []int
	)
	for i, text := range req.Texts {
		if v, ok := r.cache.Lookup(model, text); ok {
			embeddings[i] = r.embedding(text, v, model)
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) > 0 {
		vectors, err := call(ctx, missTexts, model)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
		}
		if len(vectors) != len(missTexts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrProviderFailed, len(vectors), len(missTexts))
		}
		if err := r.checkDimension(vectors); err != nil {
			return nil, err
		}

		for j, v := range vectors {
			r.cache.Store(model, missTexts[j], v)
			embeddings[missIdx[j]] = r.embedding(missTexts[j], v, model)
		}
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   r.name,
		Model:      model,
	}, nil
}

func (r *remote) embedding(text string, vector []float32, model string) *Embedding {
	return &Embedding{
		Text:      text,
		Vector:    vector,
		Dimension: len(vector),
		Provider:  r.name,
		Model:     model,
	}
}

func (r *remote) single(ctx context.Context, req EmbeddingRequest,
	batch func(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error)) (*Embedding, error) {

	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}

	resp, err := batch(ctx, BatchEmbeddingRequest{
		Texts: []string{req.Text},
		Model: req.Model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", ErrProviderFailed)
	}
	return resp.Embeddings[0], nil
}

// postJSON sends body to endpoint and decodes the JSON reply into out
func (r *remote) postJSON(ctx context.Context, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIProvider implements Embedder against an OpenAI-compatible
// /v1/embeddings endpoint. Both OpenAI and Jina AI speak this format.
type APIProvider struct {
	*remote
	apiKey string
}

// NewOpenAIProvider creates an OpenAI embedder. Empty model and endpoint use the defaults.
func NewOpenAIProvider(apiKey, model, endpoint string, cache *Cache) (*APIProvider, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}
	dim := 0
	if model == DefaultOpenAIModel {
		dim = OpenAIDimension
	}
	return newAPIProvider(ProviderOpenAI, apiKey, model, endpoint, DefaultOpenAIURL, dim, cache)
}

// NewJinaProvider creates a Jina AI embedder. Empty model and endpoint use the defaults.
func NewJinaProvider(apiKey, model, endpoint string, cache *Cache) (*APIProvider, error) {
	if model == "" {
		model = DefaultJinaModel
	}
	dim := 0
	if model == DefaultJinaModel {
		dim = JinaDimension
	}
	return newAPIProvider(ProviderJina, apiKey, model, endpoint, DefaultJinaURL, dim, cache)
}

func newAPIProvider(name, apiKey, model, endpoint, defaultEndpoint string, dim int, cache *Cache) (*APIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s requires an api_key", ErrMissingAPIKey, name)
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &APIProvider{
		remote: newRemote(name, model, endpoint, dim, cache),
		apiKey: apiKey,
	}, nil
}

func (p *APIProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return p.single(ctx, req, p.GenerateBatch)
}

func (p *APIProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	return p.batch(ctx, req, p.callAPI)
}

func (p *APIProvider) callAPI(ctx context.Context, texts []string, model string) ([][]float32, error) {
	reqBody := map[string]interface{}{
		"input": texts,
		"model": model,
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := p.postJSON(ctx, reqBody, headers, &apiResp); err != nil {
		return nil, err
	}

	// Results may come back out of order; Index refers to the input position.
	vectors := make([][]float32, len(apiResp.Data))
	for i, data := range apiResp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = data.Embedding
	}
	return vectors, nil
}

// OllamaProvider implements Embedder using a local Ollama server's /api/embed.
type OllamaProvider struct {
	*remote
}

// NewOllamaProvider creates an Ollama embedder. Empty model and baseURL use the defaults.
func NewOllamaProvider(model, baseURL string, cache *Cache) (*OllamaProvider, error) {
	if model == "" {
		model = DefaultOllamaModel
	}
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	dim := 0
	if model == DefaultOllamaModel {
		dim = OllamaDimension
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/api/embed"
	return &OllamaProvider{remote: newRemote(ProviderOllama, model, endpoint, dim, cache)}, nil
}

func (o *OllamaProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return o.single(ctx, req, o.GenerateBatch)
}

func (o *OllamaProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	return o.batch(ctx, req, o.callAPI)
}

func (o *OllamaProvider) callAPI(ctx context.Context, texts []string, model string) ([][]float32, error) {
	reqBody := map[string]interface{}{
		"model": model,
		"input": texts,
	}

	var apiResp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := o.postJSON(ctx, reqBody, nil, &apiResp); err != nil {
		return nil, err
	}
	return apiResp.Embeddings, nil
}
