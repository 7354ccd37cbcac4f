package embed

import (
	"context"
	"sync"
)

// Static is a test embedder that serves fixed vectors. Texts without an
// entry map to Default. Err, when set, fails every call.
type Static struct {
	Vectors map[string][]float32
	Default []float32
	Err     error

	mu    sync.Mutex
	calls int
}

func (s *Static) Embed(ctx context.Context, text string) ([]float32, error) {
	return first(ctx, s, text)
}

func (s *Static) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.Vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = s.Default
		}
	}
	return out, nil
}

func (s *Static) ModelID() string { return "static" }

// Calls returns how many times the embedder was invoked.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
