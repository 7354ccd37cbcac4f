package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// DefaultHashDims is the vector size used by Hash when none is given.
const DefaultHashDims = 384

// Hash is an offline embedder based on feature hashing of case-folded word
// unigrams and bigrams. It needs no model files or network and is
// deterministic, which makes it the fallback when nothing else is
// configured and the default in tests.
type Hash struct {
	dims int
}

// NewHash returns a Hash embedder producing dims-sized unit vectors.
func NewHash(dims int) *Hash {
	if dims <= 0 {
		dims = DefaultHashDims
	}
	return &Hash{dims: dims}
}

func (h *Hash) Embed(_ context.Context, text string) ([]float32, error) {
	return h.vector(text), nil
}

func (h *Hash) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hash) ModelID() string { return "hash" }

func (h *Hash) vector(text string) []float32 {
	// cases.Caser is stateful, so each call folds with its own copy.
	fold := cases.Fold()
	words := strings.FieldsFunc(fold.String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	v := make([]float32, h.dims)
	for i, w := range words {
		h.add(v, w, 1)
		if i > 0 {
			h.add(v, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= inv
	}
	return v
}

func (h *Hash) add(v []float32, feature string, weight float32) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dims))
	// The top bit picks the sign so unrelated features cancel out on average.
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}
