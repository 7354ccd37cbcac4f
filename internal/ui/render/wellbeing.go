package render

import (
	"fmt"
	"io"

	"github.com/abhisek/edumate/internal/ui/components"
	"github.com/abhisek/edumate/internal/ui/theme"
	"github.com/abhisek/edumate/internal/wellbeing"
)

// Analysis prints a reflection analysis.
func Analysis(w io.Writer, a wellbeing.Analysis) {
	heading(w, "Reflection")
	fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Stress:"), theme.Level(a.StressLevel).Render(a.StressLevel))
	// sentiment is in [-1, 1]; the meter shows it shifted onto [0, 1]
	fmt.Fprintln(w, components.NewMeter("Sentiment", (a.SentimentScore+1)/2, false, meterWidth).View())
	section(w, "Emotions")
	bullets(w, a.Emotions)
	section(w, "Concerns")
	bullets(w, a.Concerns)
	section(w, "Going well")
	bullets(w, a.PositiveAspects)
	section(w, "Overall")
	prose(w, a.OverallAssessment)
}

// Interventions prints a self-care plan.
func Interventions(w io.Writer, p wellbeing.InterventionPlan) {
	fmt.Fprintln(w)
	heading(w, "Suggested activities")
	field(w, "Priority", p.Priority)
	for _, iv := range p.Interventions {
		fmt.Fprintf(w, "\n%s %s\n", theme.Highlight.Render(iv.Title), theme.Label.Render("("+iv.Duration+")"))
		fmt.Fprintf(w, "  %s\n", iv.Description)
		if iv.Benefit != "" {
			fmt.Fprintf(w, "  %s\n", theme.Hint.Render(iv.Benefit))
		}
	}
	if p.SeekSupport {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Warn.Render(p.SupportMessage))
	}
}

// Report prints a wellbeing summary.
func Report(w io.Writer, r wellbeing.Report) {
	heading(w, "Wellbeing report: "+r.Period)
	field(w, "Reflections", r.TotalReflections)
	if r.TotalReflections == 0 {
		field(w, "Trend", r.Trend)
		return
	}
	field(w, "Average sentiment", fmt.Sprintf("%.2f", r.AverageSentiment))
	field(w, "High stress days", r.HighStressDays)
	field(w, "Trend", r.Trend)
	section(w, "Common concerns")
	bullets(w, r.CommonConcerns)
	section(w, "Recommendations")
	bullets(w, r.Recommendations)
}

// PeerSupport prints peer-support suggestions.
func PeerSupport(w io.Writer, p wellbeing.PeerSupport) {
	heading(w, "Peer support: "+p.ConcernType)
	fmt.Fprintln(w)
	prose(w, p.Suggestions)
}
