package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewLocalProvider(t *testing.T) *LocalProvider {
	t.Helper()
	p, err := NewLocalProvider(NewCache(100))
	require.NoError(t, err)
	return p
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i] * b[i])
		na += float64(a[i] * a[i])
		nb += float64(b[i] * b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestLocalProvider_Metadata(t *testing.T) {
	p := mustNewLocalProvider(t)
	defer p.Close()

	assert.Equal(t, ProviderLocal, p.Provider())
	assert.Equal(t, DefaultLocalModel, p.Model())
	assert.Equal(t, LocalDimension, p.Dimension())
}

func TestLocalProvider_DeterministicAndNormalized(t *testing.T) {
	ctx := context.Background()
	a := mustNewLocalProvider(t)
	b := mustNewLocalProvider(t)

	e1, err := a.GenerateEmbedding(ctx, EmbeddingRequest{Text: "user_service.py"})
	require.NoError(t, err)
	e2, err := b.GenerateEmbedding(ctx, EmbeddingRequest{Text: "user_service.py"})
	require.NoError(t, err)

	assert.Equal(t, e1.Vector, e2.Vector)
	assert.Len(t, e1.Vector, LocalDimension)

	var sum float64
	for _, v := range e1.Vector {
		sum += float64(v * v)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestLocalProvider_SimilarNamesAreCloser(t *testing.T) {
	ctx := context.Background()
	p := mustNewLocalProvider(t)

	embed := func(text string) []float32 {
		e, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: text})
		require.NoError(t, err)
		return e.Vector
	}

	user := embed("user_service.py")
	userCamel := embed("UserService.py")
	readme := embed("CHANGELOG.md")

	assert.Greater(t, cosine(user, userCamel), cosine(user, readme))
}

func TestLocalProvider_Batch(t *testing.T) {
	ctx := context.Background()
	p := mustNewLocalProvider(t)

	resp, err := p.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{"a.py", "b.md", "a.py"}})
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 3)
	assert.Equal(t, ProviderLocal, resp.Provider)
	assert.Equal(t, resp.Embeddings[0].Vector, resp.Embeddings[2].Vector)
	assert.NotEqual(t, resp.Embeddings[0].Vector, resp.Embeddings[1].Vector)

	_, err = p.GenerateBatch(ctx, BatchEmbeddingRequest{})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := mustNewLocalProvider(t)
	_, err := p.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{"a.py"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "user_service.py", want: []string{"user", "service", "py"}},
		{in: "UserService.py", want: []string{"user", "service", "py"}},
		{in: "v2Parser.md", want: []string{"v", "2", "parser", "md"}},
		{in: "__init__.py", want: []string{"init", "py"}},
		{in: "---", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.in))
		})
	}
}
