package render

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/schedule"
	"github.com/abhisek/edumate/internal/ui/theme"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Subtitle.Padding(0, 1)
			}
			return theme.Body.Padding(0, 1)
		}).
		Headers(headers...)
}

// Classes prints a class list.
func Classes(w io.Writer, title string, classes []schedule.Class) {
	heading(w, title)
	if len(classes) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No classes scheduled."))
		return
	}
	t := newTable("Day", "Time", "Class", "Subject", "Room")
	for _, c := range classes {
		t.Row(c.Day, c.StartTime+"–"+c.EndTime, c.Name, c.Subject, c.Room)
	}
	fmt.Fprintln(w, t.String())
}

// Upcoming prints pending assignments in a window.
func Upcoming(w io.Writer, up schedule.Upcoming) {
	heading(w, fmt.Sprintf("Upcoming: %s (%s to %s)", up.Period, up.StartDate, up.EndDate))
	if len(up.Assignments) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("Nothing due."))
		return
	}
	t := newTable("Due", "In", "Title", "Subject", "Points", "ID")
	for _, a := range up.Assignments {
		t.Row(a.DueDate, dueIn(a.DaysUntilDue), a.Title, a.Subject, strconv.Itoa(a.Points), a.ID)
	}
	fmt.Fprintln(w, t.String())
	field(w, "Pending", up.TotalPending)
}

func dueIn(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// Completion prints what completing an assignment earned.
func Completion(w io.Writer, res schedule.CompletionResult) {
	heading(w, "Assignment completed")
	field(w, "Points earned", res.PointsEarned)
	if res.EarlyBonus {
		fmt.Fprintln(w, theme.Good.Render("Early submission bonus!"))
	}
	field(w, "Total points", res.TotalPoints)
	for _, b := range res.NewBadges {
		fmt.Fprintln(w, theme.Highlight.Render("New badge: "+b))
	}
}

// Conflicts prints detected overlaps and the schedule review.
func Conflicts(w io.Writer, c schedule.ConflictAnalysis) {
	heading(w, "Schedule review")
	field(w, "Classes", c.TotalClasses)
	field(w, "Pending assignments", c.PendingAssignments)
	section(w, "Overlaps")
	if len(c.Overlaps) == 0 {
		fmt.Fprintln(w, theme.Good.Render("  No overlapping classes."))
	}
	for _, o := range c.Overlaps {
		fmt.Fprintf(w, "  %s %s %s–%s and %s %s–%s\n", theme.Bad.Render(o.Day+":"),
			o.First.Name, o.First.StartTime, o.First.EndTime,
			o.Second.Name, o.Second.StartTime, o.Second.EndTime)
	}
	section(w, "Analysis")
	prose(w, c.Analysis)
}

// TimeSuggestion prints a proposed class slot.
func TimeSuggestion(w io.Writer, s schedule.TimeSuggestion) {
	heading(w, fmt.Sprintf("Slot for %s (%d min)", s.Subject, s.Duration))
	fmt.Fprintln(w)
	prose(w, s.Suggestion)
}

// Points prints the outcome of a point award.
func Points(w io.Writer, res rewards.PointsResult) {
	fmt.Fprintf(w, "%s %s\n", theme.Good.Render(fmt.Sprintf("+%d points", res.PointsAdded)),
		theme.Label.Render(fmt.Sprintf("(total %d)", res.TotalPoints)))
	for _, b := range res.NewBadges {
		fmt.Fprintln(w, theme.Highlight.Render(fmt.Sprintf("New badge: %s %s", b.Icon, b.Name)))
	}
}

// Leaderboard prints ranked users.
func Leaderboard(w io.Writer, kind rewards.Kind, entries []rewards.LeaderboardEntry) {
	heading(w, "Leaderboard: "+string(kind)+"s")
	if len(entries) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No points awarded yet."))
		return
	}
	t := newTable("Rank", "User", "Points", "Badges")
	for i, e := range entries {
		t.Row(strconv.Itoa(i+1), e.Name, strconv.Itoa(e.TotalPoints), strconv.Itoa(e.BadgeCount))
	}
	fmt.Fprintln(w, t.String())
}

// Profile prints a user's standing.
func Profile(w io.Writer, p rewards.Profile) {
	if !p.Found {
		fmt.Fprintln(w, theme.Hint.Render("No reward profile for "+p.UserID+" yet."))
		return
	}
	heading(w, p.Name)
	field(w, "Points", p.TotalPoints)
	if p.Rank > 0 {
		field(w, "Rank", p.Rank)
	}
	section(w, fmt.Sprintf("Badges (%d)", p.BadgeCount))
	if len(p.Badges) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  (none)"))
	}
	for _, b := range p.Badges {
		fmt.Fprintf(w, "  %s %s %s\n", b.Icon, theme.Value.Render(b.Name), theme.Label.Render(b.Description))
	}
	section(w, "Recent activity")
	if len(p.RecentActivity) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  (none)"))
	}
	for _, a := range p.RecentActivity {
		fmt.Fprintf(w, "  %s %s %s\n", theme.Label.Render(a.Timestamp.Format("2006-01-02 15:04")),
			theme.Good.Render(fmt.Sprintf("+%d", a.Points)), a.Reason)
	}
}

// RewardSuggestion prints motivation ideas for a user.
func RewardSuggestion(w io.Writer, s rewards.RewardSuggestion) {
	heading(w, "Ideas for "+s.UserID)
	field(w, "Points", s.CurrentPoints)
	field(w, "Badges", s.BadgesCount)
	fmt.Fprintln(w)
	if s.Status == rewards.StatusError {
		fmt.Fprintln(w, theme.Bad.Render(s.Recommendations))
		return
	}
	prose(w, s.Recommendations)
}
