// Package grading grades homework with an LLM, including answers read off
// photos through a vision model.
package grading

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/extract"
	"github.com/abhisek/edumate/internal/llm"
)

// Service grades answers and produces self-evaluation hints.
type Service struct {
	provider llm.Provider
	vision   llm.VisionReader
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a grading service. vision may be nil; image grading
// then reports that OCR is not configured.
func NewService(provider llm.Provider, vision llm.VisionReader, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, vision: vision, cfg: cfg, logger: logger}
}

// Grade scores a typed answer. It never fails: malformed model output
// yields half marks with the raw text as feedback, and a generation error
// yields zero with the error as feedback.
func (s *Service) Grade(ctx context.Context, req GradeRequest) GradeResult {
	if req.MaxScore <= 0 {
		req.MaxScore = s.cfg.DefaultMaxScore
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)
	text, err := llm.Complete(ctx, s.provider, graderSystemPrompt, buildGradePrompt(req),
		s.cfg.GradeTemperature, s.cfg.GradeMaxTokens)
	if err != nil {
		s.logger.Warn("grading failed", zap.String("subject", req.Subject), zap.Error(err))
		return errorResult(fmt.Sprintf("Error grading: %v", err))
	}

	half := req.MaxScore / 2
	res, ok := extract.Validated(text, gradeSchema, func(raw string) GradeResult {
		return GradeResult{Score: float64(half), Percentage: 50, Feedback: raw}
	})
	if ok {
		res = normalize(res, req.MaxScore)
	}
	return withEmptyLists(res)
}

// GradeImage reads the answer off an image and grades it.
func (s *Service) GradeImage(ctx context.Context, req ImageGradeRequest) GradeResult {
	text, err := s.ReadImage(ctx, req.Image, req.MIMEType)
	if err != nil {
		return errorResult(fmt.Sprintf("Error extracting text: %v", err))
	}

	res := s.Grade(ctx, GradeRequest{
		StudentAnswer: text,
		CorrectAnswer: req.CorrectAnswer,
		Subject:       req.Subject,
		MaxScore:      req.MaxScore,
	})
	res.ExtractedText = text
	return res
}

// ReadImage transcribes an image through the vision model.
func (s *Service) ReadImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if s.vision == nil {
		return "", llm.ErrVisionUnavailable
	}
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported file type %q", mimeType)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeOCR)
	text, err := s.vision.ReadImage(ctx, ocrPrompt, image, mimeType)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text found in image")
	}
	return text, nil
}

// Hints suggests what to double-check without giving the answer away.
func (s *Service) Hints(ctx context.Context, answer, subject string) Hints {
	ctx = llm.WithPurpose(ctx, llm.PurposeHints)
	text, err := llm.Complete(ctx, s.provider, hintSystemPrompt, buildHintPrompt(answer, subject),
		s.cfg.HintTemperature, s.cfg.HintMaxTokens)
	if err != nil {
		s.logger.Warn("hint generation failed", zap.Error(err))
		return Hints{
			EstimatedScoreRange: "N/A",
			Hints:               []string{fmt.Sprintf("Error: %v", err)},
			ReviewTopics:        []string{},
			ReflectionQuestions: []string{},
		}
	}

	h, _ := extract.JSON(text, func(raw string) Hints {
		return Hints{EstimatedScoreRange: "N/A", Hints: []string{raw}}
	})
	if h.ReviewTopics == nil {
		h.ReviewTopics = []string{}
	}
	if h.ReflectionQuestions == nil {
		h.ReflectionQuestions = []string{}
	}
	if h.Hints == nil {
		h.Hints = []string{}
	}
	return h
}

// normalize clamps the score to [0, max] and fills in a missing percentage.
func normalize(r GradeResult, maxScore int) GradeResult {
	r.Score = math.Max(0, math.Min(float64(maxScore), r.Score))
	if r.Percentage <= 0 && r.Score > 0 {
		r.Percentage = math.Round(r.Score/float64(maxScore)*1000) / 10
	}
	r.Percentage = math.Max(0, math.Min(100, r.Percentage))
	return r
}

func errorResult(feedback string) GradeResult {
	return withEmptyLists(GradeResult{Feedback: feedback})
}

func withEmptyLists(r GradeResult) GradeResult {
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
	if r.Mistakes == nil {
		r.Mistakes = []string{}
	}
	return r
}
