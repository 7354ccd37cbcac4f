package rewards

import (
	"fmt"
	"strings"
)

const coachSystemPrompt = `You are a motivational AI coach for students and teachers. Provide personalized, encouraging feedback.`

func buildSuggestPrompt(kind Kind, p Profile) string {
	activity := "No recent activity"
	if len(p.RecentActivity) > 0 {
		lines := make([]string, 0, len(p.RecentActivity))
		for _, a := range p.RecentActivity {
			lines = append(lines, fmt.Sprintf("%s: +%d points", a.Reason, a.Points))
		}
		activity = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Analyze this %s's performance and suggest personalized rewards/motivation:

USER: %s
Total Points: %d
Badges Earned: %d

Recent Activity:
%s

Provide:
1. Personalized encouragement based on their progress
2. Next achievable badge or milestone to aim for
3. Specific actions they can take to earn more points
4. Motivational message tailored to their activity pattern

Be encouraging and specific!`, kind, p.UserID, p.TotalPoints, p.BadgeCount, activity)
}
