// Package wellbeing monitors teacher well-being from written reflections.
package wellbeing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/extract"
	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/store"
)

// Service analyses reflections and reports on their history.
type Service struct {
	provider llm.Provider
	repo     store.ReflectionRepo
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a well-being service backed by repo.
func NewService(provider llm.Provider, repo store.ReflectionRepo, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// Analyze reads the emotional tone of a reflection. Analyses produced from
// model output, including the fallback for unparseable output, are saved to
// the reflection history. A generation failure returns an "unknown"
// analysis that is not saved.
func (s *Service) Analyze(ctx context.Context, reflection string) Analysis {
	ctx = llm.WithPurpose(ctx, llm.PurposeSentiment)
	text, err := llm.Complete(ctx, s.provider, analystSystemPrompt, buildSentimentPrompt(reflection),
		s.cfg.SentimentTemperature, s.cfg.SentimentMaxTokens)
	if err != nil {
		s.logger.Warn("sentiment analysis failed", zap.Error(err))
		return Analysis{
			StressLevel:       StressUnknown,
			Emotions:          []string{},
			Concerns:          []string{fmt.Sprintf("Error: %v", err)},
			PositiveAspects:   []string{},
			OverallAssessment: fmt.Sprintf("Error analyzing reflection: %v", err),
		}
	}

	a, _ := extract.JSON(text, func(raw string) Analysis {
		return Analysis{StressLevel: StressMedium, OverallAssessment: raw}
	})
	a = normalizeAnalysis(a)

	if err := s.save(ctx, reflection, a); err != nil {
		s.logger.Warn("failed to save reflection", zap.Error(err))
	}
	return a
}

func (s *Service) save(ctx context.Context, reflection string, a Analysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return s.repo.SaveReflection(ctx, store.ReflectionRecord{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Text:      reflection,
		Analysis:  raw,
	})
}

// Interventions suggests quick activities for the state an analysis
// describes.
func (s *Service) Interventions(ctx context.Context, a Analysis) InterventionPlan {
	ctx = llm.WithPurpose(ctx, llm.PurposeIntervention)
	text, err := llm.Complete(ctx, s.provider, coachSystemPrompt, buildInterventionPrompt(a),
		s.cfg.InterventionTemperature, s.cfg.InterventionMaxTokens)
	if err != nil {
		s.logger.Warn("intervention generation failed", zap.Error(err))
		return InterventionPlan{
			Priority:      StressMedium,
			Interventions: []Intervention{{Title: "Error", Description: err.Error(), Duration: "N/A", Benefit: "N/A"}},
		}
	}

	plan, _ := extract.JSON(text, func(raw string) InterventionPlan {
		return InterventionPlan{
			Priority:      StressMedium,
			Interventions: []Intervention{{Title: "Reflection", Description: raw, Duration: "5 min", Benefit: "General wellbeing"}},
		}
	})
	if plan.Priority == "" {
		plan.Priority = StressMedium
	}
	if plan.Interventions == nil {
		plan.Interventions = []Intervention{}
	}
	return plan
}

// PeerSupport suggests colleagues and conversations for a concern.
func (s *Service) PeerSupport(ctx context.Context, concern string) PeerSupport {
	ctx = llm.WithPurpose(ctx, llm.PurposePeerSupport)
	text, err := llm.Complete(ctx, s.provider, colleagueSystemPrompt, buildPeerSupportPrompt(concern),
		s.cfg.PeerTemperature, s.cfg.PeerMaxTokens)
	if err != nil {
		s.logger.Warn("peer support generation failed", zap.Error(err))
		return PeerSupport{ConcernType: concern, Suggestions: fmt.Sprintf("Error generating suggestions: %v", err)}
	}
	return PeerSupport{ConcernType: concern, Suggestions: text}
}

// Report summarises reflections from the last days days. days <= 0 uses
// the configured default.
func (s *Service) Report(ctx context.Context, days int) (Report, error) {
	if days <= 0 {
		days = s.cfg.ReportDays
	}
	period := fmt.Sprintf("Last %d days", days)

	total, err := s.repo.CountReflections(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count reflections: %w", err)
	}
	if total == 0 {
		return Report{
			Period:          period,
			Trend:           TrendNoData,
			CommonConcerns:  []string{},
			Recommendations: []string{"Start logging daily reflections to track wellbeing"},
		}, nil
	}

	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	recs, err := s.repo.ReflectionsSince(ctx, cutoff)
	if err != nil {
		return Report{}, fmt.Errorf("load reflections: %w", err)
	}
	if len(recs) == 0 {
		return Report{Period: period, Trend: TrendNoRecent, CommonConcerns: []string{}, Recommendations: []string{}}, nil
	}

	analyses := make([]Analysis, 0, len(recs))
	for _, r := range recs {
		var a Analysis
		if err := json.Unmarshal(r.Analysis, &a); err != nil {
			s.logger.Warn("skipping unreadable reflection analysis", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		analyses = append(analyses, a)
	}
	return summarize(period, analyses), nil
}

// summarize computes the report body. Called with at least one analysis
// in practice; an empty slice reports no recent data.
func summarize(period string, analyses []Analysis) Report {
	if len(analyses) == 0 {
		return Report{Period: period, Trend: TrendNoRecent, CommonConcerns: []string{}, Recommendations: []string{}}
	}

	var (
		sum        float64
		highStress int
		concerns   []string
		seen       = map[string]bool{}
	)
	for _, a := range analyses {
		sum += a.SentimentScore
		if a.StressLevel == StressHigh {
			highStress++
		}
		for _, c := range a.Concerns {
			if !seen[c] && len(concerns) < 5 {
				seen[c] = true
				concerns = append(concerns, c)
			}
		}
	}
	avg := sum / float64(len(analyses))

	trend := TrendStable
	switch {
	case avg > 0.3:
		trend = TrendPositive
	case avg < -0.3:
		trend = TrendConcerning
	}
	// High stress on most days overrides the sentiment trend.
	if float64(highStress) > float64(len(analyses))/2 {
		trend = TrendHighStress
	}

	if concerns == nil {
		concerns = []string{}
	}
	return Report{
		Period:           period,
		TotalReflections: len(analyses),
		AverageSentiment: math.Round(avg*100) / 100,
		HighStressDays:   highStress,
		Trend:            trend,
		CommonConcerns:   concerns,
		Recommendations:  trendRecommendations(trend),
	}
}

func normalizeAnalysis(a Analysis) Analysis {
	a.SentimentScore = math.Max(-1, math.Min(1, a.SentimentScore))
	switch a.StressLevel {
	case StressLow, StressMedium, StressHigh:
	default:
		a.StressLevel = StressMedium
	}
	if a.Emotions == nil {
		a.Emotions = []string{}
	}
	if a.Concerns == nil {
		a.Concerns = []string{}
	}
	if a.PositiveAspects == nil {
		a.PositiveAspects = []string{}
	}
	return a
}
