package recommender

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abhisek/edumate/internal/embed"
)

// KnowledgeStore holds learning resources and a parallel slice of their
// embeddings. len(resources) == len(vectors) after every successful Add.
type KnowledgeStore struct {
	embedder embed.Embedder

	mu        sync.RWMutex
	resources []LearningResource
	vectors   [][]float32
}

// NewKnowledgeStore creates an empty store that embeds with e.
func NewKnowledgeStore(e embed.Embedder) *KnowledgeStore {
	return &KnowledgeStore{embedder: e}
}

// Add appends resources and re-embeds the whole corpus. On failure nothing
// is committed and the error wraps embed.ErrUnavailable. Duplicates are
// kept.
func (s *KnowledgeStore) Add(ctx context.Context, resources []LearningResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]LearningResource, 0, len(s.resources)+len(resources))
	next = append(next, s.resources...)
	next = append(next, resources...)

	texts := make([]string, len(next))
	for i, r := range next {
		texts[i] = r.embeddingText()
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return embed.Unavailable(fmt.Errorf("embed knowledge base: %w", err))
	}
	if len(vecs) != len(next) {
		return embed.Unavailable(fmt.Errorf("embedder returned %d vectors for %d resources", len(vecs), len(next)))
	}

	s.resources = next
	s.vectors = vecs
	return nil
}

// Len returns the number of stored resources.
func (s *KnowledgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// Resources returns a copy of the stored resources in insertion order.
func (s *KnowledgeStore) Resources() []LearningResource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.resources)
}

// Rank embeds query and returns the topK most similar resources, best
// first. Equal scores keep insertion order.
func (s *KnowledgeStore) Rank(ctx context.Context, query string, topK int) ([]RankedResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be at least 1, got %d", topK)
	}
	if s.Len() == 0 {
		return []RankedResult{}, nil
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, embed.Unavailable(fmt.Errorf("embed query: %w", err))
	}

	s.mu.RLock()
	results := make([]RankedResult, len(s.resources))
	for i, r := range s.resources {
		results[i] = RankedResult{LearningResource: r, Score: Cosine(qv, s.vectors[i])}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(results, func(a, b RankedResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return results[:min(topK, len(results))], nil
}
