// Package recommender is the retrieval-augmented core of edumate: an
// in-memory knowledge base ranked by embedding similarity, and the
// recommendation, question answering and worksheet features built on it.
package recommender

import (
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/llm"
)

// Service composes retrieval with generation.
type Service struct {
	store    *KnowledgeStore
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a recommender over store. provider may be nil, in
// which case every generated field carries an error message.
func NewService(store *KnowledgeStore, provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, provider: provider, cfg: cfg, logger: logger}
}

// Store returns the underlying knowledge store.
func (s *Service) Store() *KnowledgeStore {
	return s.store
}
