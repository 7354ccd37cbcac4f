package recommender

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/llm"
)

// Answer retrieves the resources closest to the question and asks the model
// to answer from them. Sources and confidence come from retrieval alone and
// survive a generation failure.
func (s *Service) Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	n := req.RetrieveN
	if n <= 0 {
		n = s.cfg.DefaultRetrieveN
	}

	query := req.Question
	if req.ContextTopic != "" {
		query = req.ContextTopic + " " + req.Question
	}

	ranked, err := s.store.Rank(ctx, query, n)
	if err != nil {
		return nil, err
	}

	res := &AnswerResult{
		Sources:    make([]string, len(ranked)),
		Confidence: ConfidenceNone,
	}
	for i, r := range ranked {
		res.Sources[i] = r.Topic
	}
	if len(ranked) > 0 {
		res.Confidence = ConfidenceHigh
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAnswer)
	text, err := llm.Complete(ctx, s.provider, teacherSystemPrompt, buildAnswerPrompt(req.Question, ranked),
		s.cfg.Answer.Temperature, s.cfg.Answer.MaxTokens)
	if err != nil {
		s.logger.Warn("answer generation failed", zap.Error(err))
		res.Answer = fmt.Sprintf("Error answering question: %v", err)
		return res, nil
	}
	res.Answer = text
	return res, nil
}
