package schedule

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/store"
	"github.com/abhisek/edumate/internal/validate"
)

// 2026-03-11 is a Wednesday.
var wednesday = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	rewards *rewards.Service
	mock    *llm.MockProvider
}

func newFixture(t *testing.T, responses ...llm.MockResponse) fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "schedule.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(responses...)
	rw := rewards.NewService(st.RewardRepo(), mock, rewards.DefaultConfig(), nil)
	svc := NewService(st.ScheduleRepo(), rw, mock, DefaultConfig(), nil)
	svc.now = func() time.Time { return wednesday }
	return fixture{svc: svc, rewards: rw, mock: mock}
}

func scored(n int) *int { return &n }

func mustAddClass(t *testing.T, svc *Service, in ClassInput) string {
	t.Helper()
	id, err := svc.AddClass(context.Background(), in)
	require.NoError(t, err)
	return id
}

func mustAddAssignment(t *testing.T, svc *Service, in AssignmentInput) string {
	t.Helper()
	id, err := svc.AddAssignment(context.Background(), in)
	require.NoError(t, err)
	return id
}

func TestAddClass_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.AddClass(ctx, ClassInput{Name: "Mathematics 101", Day: "monday", StartTime: "09:00", EndTime: "10:30", Subject: "Mathematics", Room: "101"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	classes, err := f.svc.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Monday", classes[0].Day, "day names are stored canonically")

	tests := []struct {
		name  string
		in    ClassInput
		field string
	}{
		{"bad day", ClassInput{Name: "x", Day: "Someday", StartTime: "09:00", EndTime: "10:00", Subject: "s"}, "Day"},
		{"bad time", ClassInput{Name: "x", Day: "Monday", StartTime: "9am", EndTime: "10:00", Subject: "s"}, "StartTime"},
		{"end before start", ClassInput{Name: "x", Day: "Monday", StartTime: "10:00", EndTime: "09:00", Subject: "s"}, "EndTime"},
		{"zero length", ClassInput{Name: "x", Day: "Monday", StartTime: "10:00", EndTime: "10:00", Subject: "s"}, "EndTime"},
		{"missing subject", ClassInput{Name: "x", Day: "Monday", StartTime: "10:00", EndTime: "11:00"}, "Subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddClass(ctx, tt.in)
			require.Error(t, err)
			assert.Contains(t, validate.Fields(err), tt.field)
		})
	}
}

func TestAddAssignment_DefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustAddAssignment(t, f.svc, AssignmentInput{Title: "Essay", Subject: "English", DueDate: "2026-03-20"})
	all, err := f.svc.Assignments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 10, all[0].Points)
	assert.Equal(t, StatusPending, all[0].Status)

	_, err = f.svc.AddAssignment(ctx, AssignmentInput{Title: "x", Subject: "y", DueDate: "20/03/2026"})
	assert.True(t, validate.IsError(err))
	_, err = f.svc.AddAssignment(ctx, AssignmentInput{Title: "x", Subject: "y", DueDate: "2026-03-20", Points: -1})
	assert.True(t, validate.IsError(err))
}

func TestUpcoming_WindowAndOrder(t *testing.T) {
	f := newFixture(t)
	mustAddAssignment(t, f.svc, AssignmentInput{Title: "later", Subject: "s", DueDate: "2026-03-18"})
	mustAddAssignment(t, f.svc, AssignmentInput{Title: "today", Subject: "s", DueDate: "2026-03-11"})
	mustAddAssignment(t, f.svc, AssignmentInput{Title: "past", Subject: "s", DueDate: "2026-03-10"})
	mustAddAssignment(t, f.svc, AssignmentInput{Title: "too far", Subject: "s", DueDate: "2026-03-19"})
	mustAddAssignment(t, f.svc, AssignmentInput{Title: "soon", Subject: "s", DueDate: "2026-03-14"})

	up, err := f.svc.Upcoming(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Next 7 days", up.Period)
	assert.Equal(t, "2026-03-11", up.StartDate)
	assert.Equal(t, "2026-03-18", up.EndDate)
	require.Equal(t, 3, up.TotalPending)

	var titles []string
	var days []int
	for _, a := range up.Assignments {
		titles = append(titles, a.Title)
		days = append(days, a.DaysUntilDue)
	}
	assert.Equal(t, []string{"today", "soon", "later"}, titles)
	assert.Equal(t, []int{0, 3, 7}, days)
}

func TestUpcoming_SkipsCompleted(t *testing.T) {
	f := newFixture(t)
	id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "done", Subject: "s", DueDate: "2026-03-12"})
	_, err := f.svc.Complete(context.Background(), id, "s1", rewards.KindStudent, scored(80))
	require.NoError(t, err)

	up, err := f.svc.Upcoming(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, up.Assignments)
	assert.NotNil(t, up.Assignments)
}

func TestToday_FiltersByWeekdayAndSorts(t *testing.T) {
	f := newFixture(t)
	mustAddClass(t, f.svc, ClassInput{Name: "Late", Day: "Wednesday", StartTime: "14:00", EndTime: "15:00", Subject: "s"})
	mustAddClass(t, f.svc, ClassInput{Name: "Other day", Day: "Monday", StartTime: "08:00", EndTime: "09:00", Subject: "s"})
	mustAddClass(t, f.svc, ClassInput{Name: "Early", Day: "WEDNESDAY", StartTime: "08:30", EndTime: "09:30", Subject: "s"})

	today, err := f.svc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "Early", today[0].Name)
	assert.Equal(t, "Late", today[1].Name)
}

func TestComplete_AwardsPointsAndEarlyBonus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "Algebra Homework", Subject: "Math", DueDate: "2026-03-14", Points: 20})

	res, err := f.svc.Complete(ctx, id, "student_1", rewards.KindStudent, scored(95))
	require.NoError(t, err)
	assert.True(t, res.EarlyBonus)
	assert.Equal(t, 25, res.PointsEarned)
	assert.Equal(t, 25, res.TotalPoints)

	all, err := f.svc.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, all[0].Status)
	assert.Equal(t, "student_1", all[0].CompletedBy)
	assert.False(t, all[0].CompletedAt.IsZero())

	p, err := f.rewards.Profile(ctx, "student_1", rewards.KindStudent)
	require.NoError(t, err)
	require.Len(t, p.RecentActivity, 2)
	assert.Equal(t, "Completed Algebra Homework", p.RecentActivity[0].Reason)
	assert.Equal(t, "Early submission bonus", p.RecentActivity[1].Reason)

	_, err = f.svc.Complete(ctx, id, "student_1", rewards.KindStudent, scored(95))
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestComplete_OnDueDateHasNoBonus(t *testing.T) {
	f := newFixture(t)
	id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "Due today", Subject: "s", DueDate: "2026-03-11"})

	res, err := f.svc.Complete(context.Background(), id, "s1", rewards.KindStudent, scored(50))
	require.NoError(t, err)
	assert.False(t, res.EarlyBonus)
	assert.Equal(t, 10, res.PointsEarned)
}

func TestComplete_EarlyBirdAfterFiveEarlySubmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var last CompletionResult
	for i := 0; i < 5; i++ {
		id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "hw", Subject: "s", DueDate: "2026-03-20"})
		var err error
		last, err = f.svc.Complete(ctx, id, "s1", rewards.KindStudent, scored(70))
		require.NoError(t, err)
	}
	assert.Contains(t, last.NewBadges, "early_bird")
}

func TestComplete_UnknownID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Complete(context.Background(), "nope", "s1", rewards.KindStudent, scored(100))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplete_HighScoreNeedsAScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var last CompletionResult
	for i := 0; i < 5; i++ {
		id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "hw", Subject: "s", DueDate: "2026-03-01"})
		var err error
		last, err = f.svc.Complete(ctx, id, "s1", rewards.KindStudent, nil)
		require.NoError(t, err)
	}
	assert.NotContains(t, last.NewBadges, "excellence")

	p, err := f.rewards.Profile(ctx, "s1", rewards.KindStudent)
	require.NoError(t, err)
	for _, b := range p.Badges {
		assert.NotEqual(t, "excellence", b.ID)
	}

	for i := 0; i < 5; i++ {
		id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "quiz", Subject: "s", DueDate: "2026-03-01"})
		var err error
		last, err = f.svc.Complete(ctx, id, "s2", rewards.KindStudent, scored(90))
		require.NoError(t, err)
	}
	assert.Contains(t, last.NewBadges, "excellence")
}

func TestComplete_ConcurrentCallsAwardOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustAddAssignment(t, f.svc, AssignmentInput{Title: "race", Subject: "s", DueDate: "2026-03-01", Points: 20})

	const n = 16
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Complete(ctx, id, "s1", rewards.KindStudent, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	}
	assert.Equal(t, 1, succeeded)

	p, err := f.rewards.Profile(ctx, "s1", rewards.KindStudent)
	require.NoError(t, err)
	assert.Equal(t, 20, p.TotalPoints)
}

type failingRewarder struct{}

func (failingRewarder) AddPoints(context.Context, string, rewards.Kind, int, string) (rewards.PointsResult, error) {
	return rewards.PointsResult{}, errors.New("reward store down")
}

func (failingRewarder) RecordStats(context.Context, string, rewards.Kind, rewards.StatsDelta) ([]rewards.Badge, error) {
	return nil, nil
}

func TestComplete_FailedAwardLeavesAssignmentPending(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "schedule.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	broken := NewService(st.ScheduleRepo(), failingRewarder{}, nil, DefaultConfig(), nil)
	broken.now = func() time.Time { return wednesday }
	id := mustAddAssignment(t, broken, AssignmentInput{Title: "retry", Subject: "s", DueDate: "2026-03-20"})

	_, err = broken.Complete(ctx, id, "s1", rewards.KindStudent, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyCompleted)

	rec, err := st.ScheduleRepo().GetAssignment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rec.Status)

	rw := rewards.NewService(st.RewardRepo(), nil, rewards.DefaultConfig(), nil)
	healthy := NewService(st.ScheduleRepo(), rw, nil, DefaultConfig(), nil)
	healthy.now = broken.now
	res, err := healthy.Complete(ctx, id, "s1", rewards.KindStudent, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, res.PointsEarned)
}

func TestFindOverlaps(t *testing.T) {
	classes := []Class{
		{ClassInput: ClassInput{Name: "A", Day: "Monday", StartTime: "09:00", EndTime: "10:30"}},
		{ClassInput: ClassInput{Name: "B", Day: "monday", StartTime: "10:00", EndTime: "11:00"}},
		{ClassInput: ClassInput{Name: "C", Day: "Monday", StartTime: "11:00", EndTime: "12:00"}},
		{ClassInput: ClassInput{Name: "D", Day: "Tuesday", StartTime: "09:00", EndTime: "10:30"}},
	}
	got := FindOverlaps(classes)
	require.Len(t, got, 1)
	assert.Equal(t, "Monday", got[0].Day)
	assert.Equal(t, "A", got[0].First.Name)
	assert.Equal(t, "B", got[0].Second.Name)

	assert.Empty(t, FindOverlaps(nil))
}

func TestConflicts(t *testing.T) {
	f := newFixture(t, llm.Text("1. Monday has an overlap."))
	mustAddClass(t, f.svc, ClassInput{Name: "Math", Day: "Monday", StartTime: "09:00", EndTime: "10:30", Subject: "Math"})
	mustAddClass(t, f.svc, ClassInput{Name: "Art", Day: "Monday", StartTime: "10:00", EndTime: "11:00", Subject: "Art"})
	for i := 0; i < 12; i++ {
		mustAddAssignment(t, f.svc, AssignmentInput{Title: "hw", Subject: "s", DueDate: "2026-03-20"})
	}

	res, err := f.svc.Conflicts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "1. Monday has an overlap.", res.Analysis)
	assert.Equal(t, 2, res.TotalClasses)
	assert.Equal(t, 12, res.PendingAssignments)
	assert.Len(t, res.Overlaps, 1)

	req := f.mock.LastCall()
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 800, req.MaxTokens)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Monday 09:00-10:30: Math (Math)")
	assert.Contains(t, prompt, "DETECTED OVERLAPS")
	assert.Equal(t, 10, countLines(prompt, "2026-03-20: hw (s)"))
}

func TestConflicts_GenerationFailureKeepsOverlaps(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: errors.New("boom")})
	mustAddClass(t, f.svc, ClassInput{Name: "A", Day: "Friday", StartTime: "09:00", EndTime: "10:00", Subject: "s"})
	mustAddClass(t, f.svc, ClassInput{Name: "B", Day: "Friday", StartTime: "09:30", EndTime: "10:30", Subject: "s"})

	res, err := f.svc.Conflicts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Error analyzing schedule: boom", res.Analysis)
	assert.Len(t, res.Overlaps, 1)
}

func TestSuggestTime(t *testing.T) {
	f := newFixture(t, llm.Text("Tuesday 10:00-11:00"))
	mustAddClass(t, f.svc, ClassInput{Name: "Math", Day: "Monday", StartTime: "09:00", EndTime: "10:00", Subject: "Math"})

	res, err := f.svc.SuggestTime(context.Background(), "Physics", 0)
	require.NoError(t, err)
	assert.Equal(t, TimeSuggestion{Status: StatusSuccess, Subject: "Physics", Duration: 60, Suggestion: "Tuesday 10:00-11:00"}, res)

	req := f.mock.LastCall()
	assert.Equal(t, 500, req.MaxTokens)
	assert.Contains(t, req.Messages[0].Content, "new Physics class that's 60 minutes long")
	assert.Contains(t, req.Messages[0].Content, "Monday: 09:00-10:00: Math")

	_, err = f.svc.SuggestTime(context.Background(), " ", 30)
	assert.True(t, validate.IsError(err))
}

func TestSuggestTime_EmptySchedule(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: errors.New("quota")})
	res, err := f.svc.SuggestTime(context.Background(), "Art", 45)
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Error generating suggestion: quota", res.Suggestion)
	assert.Contains(t, f.mock.LastCall().Messages[0].Content, "No classes scheduled yet")
}

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}
