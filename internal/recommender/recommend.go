package recommender

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/abhisek/edumate/internal/llm"
)

// NoMatchesExplanation is returned when no resource survives filtering.
const NoMatchesExplanation = "No matching resources were found for this topic and teaching method."

// Recommend ranks resources for a topic and level, keeps those whose
// teaching method contains req.Method, and asks the model to explain the
// picks.
//
// Filtering runs over the ranked window only. When few resources in the
// window match the method, fewer than Count come back; lower-ranked
// matches are not pulled in.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	if req.Count <= 0 {
		req.Count = s.cfg.DefaultCount
	}
	if req.Level == "" {
		req.Level = s.cfg.DefaultLevel
	}

	query := req.Topic + " " + req.Level
	if req.Method != "" {
		query += " " + req.Method
	}

	ranked, err := s.store.Rank(ctx, query, s.cfg.fetchSize(req.Count))
	if err != nil {
		return nil, err
	}

	candidates := filterByMethod(ranked, req.Method)
	if len(candidates) > req.Count {
		candidates = candidates[:req.Count]
	}

	rec := &Recommendation{Candidates: candidates}
	if len(candidates) == 0 {
		rec.Explanation = NoMatchesExplanation
		return rec, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeRecommend)
	prompt := buildRecommendPrompt(req.Topic, req.Level, candidates, s.cfg.ContentPreview)
	text, err := llm.Complete(ctx, s.provider, curatorSystemPrompt, prompt,
		s.cfg.Recommend.Temperature, s.cfg.Recommend.MaxTokens)
	if err != nil {
		s.logger.Warn("recommendation explanation failed", zap.Error(err))
		rec.Explanation = fmt.Sprintf("Error getting recommendations: %v", err)
		return rec, nil
	}
	rec.Explanation = text
	return rec, nil
}

// filterByMethod keeps results whose teaching method contains method,
// comparing case-folded strings. An empty method keeps everything.
func filterByMethod(ranked []RankedResult, method string) []RankedResult {
	if method == "" {
		return ranked
	}
	fold := cases.Fold()
	want := fold.String(method)

	out := make([]RankedResult, 0, len(ranked))
	for _, r := range ranked {
		if strings.Contains(fold.String(r.TeachingMethod), want) {
			out = append(out, r)
		}
	}
	return out
}
