package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/schedule"
	"github.com/abhisek/edumate/internal/wellbeing"
)

func TestRecommendation(t *testing.T) {
	var buf bytes.Buffer
	Recommendation(&buf, "photosynthesis", &recommender.Recommendation{
		Candidates: []recommender.RankedResult{{
			LearningResource: recommender.LearningResource{Topic: "Photosynthesis", ResourceType: "article", Difficulty: "beginner", TeachingMethod: "visual"},
			Score:            0.91234,
		}},
		Explanation: "Start with the diagram.",
	})
	out := buf.String()
	assert.Contains(t, out, "Photosynthesis")
	assert.Contains(t, out, "similarity 0.912")
	assert.Contains(t, out, "Start with the diagram.")
}

func TestGrade(t *testing.T) {
	var buf bytes.Buffer
	Grade(&buf, grading.GradeResult{Score: 7, Percentage: 70, Feedback: "Nice", ExtractedText: "x = 4"}, 10)
	out := buf.String()
	assert.Contains(t, out, "7 / 10")
	assert.Contains(t, out, "70%")
	assert.Contains(t, out, "x = 4")
	assert.Contains(t, out, "(none)")
}

func TestWorksheetHidesAnswers(t *testing.T) {
	ws := recommender.Worksheet{Title: "Fractions", Questions: []recommender.WorksheetQuestion{
		{Question: "1/2 + 1/4?", Type: "short", Answer: "3/4"},
	}}
	var hidden, shown bytes.Buffer
	Worksheet(&hidden, ws, false)
	Worksheet(&shown, ws, true)
	assert.NotContains(t, hidden.String(), "3/4")
	assert.Contains(t, shown.String(), "3/4")
}

func TestReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, wellbeing.Report{Period: "Last 7 days", Trend: wellbeing.TrendNoData})
	assert.Contains(t, buf.String(), wellbeing.TrendNoData)
	assert.NotContains(t, buf.String(), "Average sentiment")
}

func TestUpcoming(t *testing.T) {
	var buf bytes.Buffer
	Upcoming(&buf, schedule.Upcoming{
		Period: "Next 7 days", StartDate: "2026-03-11", EndDate: "2026-03-18",
		Assignments: []schedule.UpcomingAssignment{{
			Assignment:   schedule.Assignment{ID: "a1", Title: "Essay", Subject: "English", DueDate: "2026-03-12", Points: 10},
			DaysUntilDue: 1,
		}},
		TotalPending: 1,
	})
	out := buf.String()
	assert.Contains(t, out, "Essay")
	assert.Contains(t, out, "1 day")
}

func TestLeaderboardAndProfile(t *testing.T) {
	var buf bytes.Buffer
	Leaderboard(&buf, rewards.KindStudent, []rewards.LeaderboardEntry{{UserID: "s1", Name: "Ada", TotalPoints: 120, BadgeCount: 2}})
	assert.Contains(t, buf.String(), "Ada")
	assert.Contains(t, buf.String(), "120")

	buf.Reset()
	Profile(&buf, rewards.Profile{Found: true, UserID: "s1", Name: "Ada", TotalPoints: 120, Rank: 1,
		RecentActivity: []rewards.Activity{{Timestamp: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), Points: 10, Reason: "quiz"}}})
	assert.Contains(t, buf.String(), "+10")
	assert.Contains(t, buf.String(), "quiz")

	buf.Reset()
	Profile(&buf, rewards.Profile{UserID: "ghost"})
	assert.Contains(t, buf.String(), "No reward profile for ghost")
}
