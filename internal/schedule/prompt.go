package schedule

import (
	"fmt"
	"strings"
)

const (
	conflictSystemPrompt = `You are an AI scheduling assistant that helps teachers optimize their schedules. Provide clear, actionable insights.`
	slotSystemPrompt     = `You are an AI scheduling expert for educators. Suggest optimal times based on cognitive science and work-life balance principles.`
)

func buildConflictPrompt(classes []Class, pending []Assignment, overlaps []Overlap, maxAssignments int) string {
	var b strings.Builder
	b.WriteString("Analyze this teacher's schedule for conflicts and workload balance:\n\nCLASSES:\n")
	if len(classes) == 0 {
		b.WriteString("No classes scheduled\n")
	}
	for _, c := range classes {
		fmt.Fprintf(&b, "%s %s-%s: %s (%s)\n", c.Day, c.StartTime, c.EndTime, c.Name, c.Subject)
	}

	b.WriteString("\nPENDING ASSIGNMENTS:\n")
	if len(pending) == 0 {
		b.WriteString("No pending assignments\n")
	}
	for i, a := range pending {
		if i == maxAssignments {
			break
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", a.DueDate, a.Title, a.Subject)
	}

	if len(overlaps) > 0 {
		b.WriteString("\nDETECTED OVERLAPS:\n")
		for _, o := range overlaps {
			fmt.Fprintf(&b, "%s: %s (%s-%s) overlaps %s (%s-%s)\n", o.Day,
				o.First.Name, o.First.StartTime, o.First.EndTime,
				o.Second.Name, o.Second.StartTime, o.Second.EndTime)
		}
	}

	b.WriteString(`
Provide:
1. Any time conflicts or overlapping classes
2. Days with heavy workload
3. Suggestions for better workload distribution
4. Warning about deadline clusters
5. Recommended break times

Format as a numbered list.`)
	return b.String()
}

func buildSlotPrompt(subject string, minutes int, byDay []dayClasses) string {
	summary := "No classes scheduled yet"
	if len(byDay) > 0 {
		lines := make([]string, 0, len(byDay))
		for _, d := range byDay {
			slots := make([]string, 0, len(d.classes))
			for _, c := range d.classes {
				slots = append(slots, fmt.Sprintf("%s-%s: %s", c.StartTime, c.EndTime, c.Name))
			}
			lines = append(lines, fmt.Sprintf("%s: %s", d.day, strings.Join(slots, ", ")))
		}
		summary = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`I need to schedule a new %s class that's %d minutes long.

Current weekly schedule:
%s

Suggest:
1. Best day of the week
2. Optimal time slot (start and end time)
3. Reasoning based on workload distribution and pedagogical best practices
4. Alternative options

Consider: avoiding back-to-back classes, energy levels throughout the day, and balanced weekly distribution.`, subject, minutes, summary)
}
