package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/edumate/internal/ui/theme"
)

// Meter displays a horizontal bar for a fraction in [0, 1], such as a
// grading percentage.
type Meter struct {
	Label       string
	Fraction    float64
	ShowPercent bool
	Width       int
}

// NewMeter creates a meter.
func NewMeter(label string, fraction float64, showPercent bool, width int) Meter {
	return Meter{
		Label:       label,
		Fraction:    fraction,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the meter.
func (m Meter) View() string {
	var result string
	if m.Label != "" {
		result += theme.Label.Render(m.Label) + "  "
	}

	percentWidth := 0
	if m.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(m.Width-lipgloss.Width(result)-percentWidth, 4)

	frac := min(max(m.Fraction, 0), 1)
	filled := int(float64(barWidth) * frac)
	result += theme.MeterFilled.Render(strings.Repeat(" ", filled)) +
		theme.MeterEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if m.ShowPercent {
		result += theme.Label.Render(fmt.Sprintf("  %d%%", int(frac*100)))
	}
	return result
}
