package recommender

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/extract"
	"github.com/abhisek/edumate/internal/llm"
)

// WorksheetErrorTitle titles the worksheet returned when generation fails.
const WorksheetErrorTitle = "Error"

// Worksheet generates practice questions. It never fails: unparseable
// output becomes a single "general" question holding the raw text, and a
// generation error becomes a worksheet titled "Error".
func (s *Service) Worksheet(ctx context.Context, req WorksheetRequest) Worksheet {
	n := req.NumQuestions
	if n <= 0 {
		n = 5
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = s.cfg.DefaultLevel
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeWorksheet)
	text, err := llm.Complete(ctx, s.provider, worksheetSystemPrompt, buildWorksheetPrompt(req.Topic, difficulty, n),
		s.cfg.Worksheet.Temperature, s.cfg.Worksheet.MaxTokens)
	if err != nil {
		s.logger.Warn("worksheet generation failed", zap.Error(err))
		return Worksheet{
			Title:     WorksheetErrorTitle,
			Questions: []WorksheetQuestion{{Question: fmt.Sprintf("Error: %v", err), Type: "error"}},
		}
	}

	fallback := func(raw string) Worksheet {
		return Worksheet{
			Title:     req.Topic + " Practice Worksheet",
			Questions: []WorksheetQuestion{{Question: raw, Type: "general"}},
		}
	}
	ws, ok := extract.JSON(text, fallback)
	if !ok {
		s.logger.Debug("worksheet output was not JSON, using raw text")
	}
	if ws.Title == "" {
		ws.Title = req.Topic + " Practice Worksheet"
	}
	return ws
}
