package embed

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHash_DeterministicUnitVectors(t *testing.T) {
	h := NewHash(64)
	ctx := context.Background()

	a, err := h.Embed(ctx, "Photosynthesis in plants")
	require.NoError(t, err)
	b, err := h.Embed(ctx, "photosynthesis IN plants!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b, "case and punctuation must not change the vector")

	var norm float64
	for _, x := range a {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestHash_RelatedTextsScoreHigher(t *testing.T) {
	h := NewHash(0)
	ctx := context.Background()

	vecs, err := h.EmbedBatch(ctx, []string{
		"fractions and decimals for beginners",
		"introduction to fractions",
		"the french revolution timeline",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Len(t, vecs[0], DefaultHashDims)

	assert.Greater(t, cosine(vecs[0], vecs[1]), cosine(vecs[0], vecs[2]))
}

func TestHash_EmptyTextIsZeroVector(t *testing.T) {
	v, err := NewHash(8).Embed(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestStatic(t *testing.T) {
	s := &Static{
		Vectors: map[string][]float32{"a": {1, 0}},
		Default: []float32{0, 1},
	}
	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)

	s.Err = errors.New("down")
	_, err = s.Embed(context.Background(), "a")
	assert.Error(t, err)
	assert.Equal(t, 2, s.Calls())
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("model missing")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, Unavailable(err), "already wrapped errors are returned as is")
	assert.NoError(t, Unavailable(nil))
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("cache down")
	}
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestCached_ServesHitsAndEmbedsMisses(t *testing.T) {
	inner := &Static{Vectors: map[string][]float32{
		"a": {1, 2},
		"b": {3, 4},
	}}
	cache := &memCache{data: map[string][]byte{}}
	c := WithCache(inner, cache, nil)
	ctx := context.Background()

	v, err := c.Embed(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, v)
	assert.Equal(t, 1, inner.Calls())

	vecs, err := c.EmbedBatch(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, vecs)
	assert.Equal(t, 2, inner.Calls(), "only the miss should reach the inner embedder")

	_, err = c.EmbedBatch(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Calls())
}

func TestCached_ReadFailureFallsThrough(t *testing.T) {
	inner := &Static{Default: []float32{1}}
	c := WithCache(inner, &memCache{data: map[string][]byte{}, failGet: true}, nil)

	v, err := c.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, v)
}

func TestFloat32Bytes(t *testing.T) {
	in := []float32{0, -1.5, 3.25, float32(math.Pi)}
	assert.Equal(t, in, bytesToFloat32(float32ToBytes(in)))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Provider: "hash"}.Validate())
	assert.Error(t, Config{Provider: "openai"}.Validate())
	assert.Error(t, Config{Provider: "gemini"}.Validate())
	assert.Error(t, Config{Provider: "hugot"}.Validate())
	assert.Error(t, Config{Provider: "word2vec"}.Validate())
}

func TestNew_Hash(t *testing.T) {
	e, closer, err := New(context.Background(), Config{Provider: "hash", HashDims: 16}, nil)
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, "hash", e.ModelID())

	v, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, v, 16)
}
