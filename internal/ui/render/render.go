// Package render prints feature results to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/ui/components"
	"github.com/abhisek/edumate/internal/ui/theme"
)

const meterWidth = 40

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, theme.Title.Render(title))
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Subtitle.Render(title))
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %s\n", theme.Label.Render(label+":"), theme.Value.Render(fmt.Sprint(value)))
}

func bullets(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  (none)"))
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "  • %s\n", it)
	}
}

func prose(w io.Writer, text string) {
	fmt.Fprintln(w, theme.Body.Render(strings.TrimSpace(text)))
}

// Recommendation prints ranked resources followed by the explanation.
func Recommendation(w io.Writer, topic string, rec *recommender.Recommendation) {
	heading(w, "Recommended resources for "+topic)
	for i, c := range rec.Candidates {
		fmt.Fprintf(w, "\n%s %s\n", theme.Highlight.Render(fmt.Sprintf("%d.", i+1)), theme.Value.Render(c.Topic))
		fmt.Fprintf(w, "   %s\n", theme.Label.Render(fmt.Sprintf("%s · %s · %s · similarity %.3f",
			c.ResourceType, c.Difficulty, c.TeachingMethod, c.Score)))
		if c.URL != "" {
			fmt.Fprintf(w, "   %s\n", c.URL)
		}
	}
	section(w, "Why these")
	prose(w, rec.Explanation)
}

// Answer prints a grounded answer.
func Answer(w io.Writer, question string, res *recommender.AnswerResult) {
	fmt.Fprintln(w, theme.Question.Render("Q: "+question))
	fmt.Fprintln(w)
	prose(w, res.Answer)
	fmt.Fprintln(w)
	field(w, "Confidence", res.Confidence)
	field(w, "Sources", strings.Join(res.Sources, ", "))
}

// Worksheet prints the questions, with answers when showAnswers is set.
func Worksheet(w io.Writer, ws recommender.Worksheet, showAnswers bool) {
	heading(w, ws.Title)
	for i, q := range ws.Questions {
		fmt.Fprintf(w, "\n%s %s %s\n", theme.Highlight.Render(fmt.Sprintf("%d.", i+1)), q.Question, theme.Label.Render("["+q.Type+"]"))
		if showAnswers {
			if q.Answer != "" {
				fmt.Fprintf(w, "   %s %s\n", theme.Good.Render("Answer:"), q.Answer)
			}
			if q.Explanation != "" {
				fmt.Fprintf(w, "   %s\n", theme.Hint.Render(q.Explanation))
			}
		}
	}
}

// Grade prints a grading result with a score meter.
func Grade(w io.Writer, res grading.GradeResult, maxScore int) {
	heading(w, "Grading result")
	if res.ExtractedText != "" {
		section(w, "Extracted text")
		prose(w, res.ExtractedText)
		fmt.Fprintln(w)
	}
	field(w, "Score", fmt.Sprintf("%g / %d", res.Score, maxScore))
	fmt.Fprintln(w, components.NewMeter("", res.Percentage/100, true, meterWidth).View())

	section(w, "Feedback")
	prose(w, res.Feedback)
	section(w, "Strengths")
	bullets(w, res.Strengths)
	section(w, "Improvements")
	bullets(w, res.Improvements)
	section(w, "Mistakes")
	bullets(w, res.Mistakes)
}

// Hints prints self-evaluation hints.
func Hints(w io.Writer, h grading.Hints) {
	heading(w, "Self-check")
	field(w, "Estimated score", h.EstimatedScoreRange)
	section(w, "Hints")
	bullets(w, h.Hints)
	section(w, "Topics to review")
	bullets(w, h.ReviewTopics)
	section(w, "Ask yourself")
	bullets(w, h.ReflectionQuestions)
}
