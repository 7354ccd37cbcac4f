// Package schedule keeps classes and assignments and reviews the
// resulting workload.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/store"
	"github.com/abhisek/edumate/internal/validate"
)

var (
	// ErrNotFound is returned for an unknown assignment id.
	ErrNotFound = errors.New("assignment not found")

	// ErrAlreadyCompleted is returned when completing an assignment twice.
	ErrAlreadyCompleted = errors.New("assignment already completed")
)

// Rewarder credits points and activity counters.
type Rewarder interface {
	AddPoints(ctx context.Context, userID string, kind rewards.Kind, points int, reason string) (rewards.PointsResult, error)
	RecordStats(ctx context.Context, userID string, kind rewards.Kind, delta rewards.StatsDelta) ([]rewards.Badge, error)
}

// Service manages the schedule. rewarder may be nil, in which case
// completions award nothing.
type Service struct {
	repo     store.ScheduleRepo
	rewarder Rewarder
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a schedule service.
func NewService(repo store.ScheduleRepo, rewarder Rewarder, provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		rewarder: rewarder,
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// AddClass validates and stores a weekly class, returning its id.
func (s *Service) AddClass(ctx context.Context, in ClassInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", err
	}
	if in.EndTime <= in.StartTime {
		return "", validate.Fieldf("EndTime", "EndTime must be after StartTime")
	}

	id := uuid.NewString()
	err := s.repo.AddClass(ctx, store.ClassRecord{
		ID:        id,
		CreatedAt: s.now(),
		Name:      in.Name,
		Day:       canonicalDay(in.Day),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Subject:   in.Subject,
		Room:      in.Room,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("class added", zap.String("id", id), zap.String("name", in.Name))
	return id, nil
}

// AddAssignment validates and stores an assignment, returning its id.
func (s *Service) AddAssignment(ctx context.Context, in AssignmentInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", err
	}
	if in.Points == 0 {
		in.Points = s.cfg.DefaultPoints
	}

	id := uuid.NewString()
	err := s.repo.AddAssignment(ctx, store.AssignmentRecord{
		ID:          id,
		CreatedAt:   s.now(),
		Title:       in.Title,
		Subject:     in.Subject,
		DueDate:     in.DueDate,
		Description: in.Description,
		Points:      in.Points,
		Status:      StatusPending,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("assignment added", zap.String("id", id), zap.String("title", in.Title))
	return id, nil
}

// Classes returns every class in insertion order.
func (s *Service) Classes(ctx context.Context) ([]Class, error) {
	recs, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Class, 0, len(recs))
	for _, r := range recs {
		out = append(out, classFromRecord(r))
	}
	return out, nil
}

// Assignments returns every assignment in insertion order.
func (s *Service) Assignments(ctx context.Context) ([]Assignment, error) {
	recs, err := s.repo.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Assignment, 0, len(recs))
	for _, r := range recs {
		out = append(out, assignmentFromRecord(r))
	}
	return out, nil
}

// Upcoming lists pending assignments due between today and today+days,
// soonest first. days <= 0 uses the configured window.
func (s *Service) Upcoming(ctx context.Context, days int) (Upcoming, error) {
	if days <= 0 {
		days = s.cfg.UpcomingDays
	}
	all, err := s.Assignments(ctx)
	if err != nil {
		return Upcoming{}, err
	}

	today := civilDate(s.now())
	end := today.AddDate(0, 0, days)

	list := []UpcomingAssignment{}
	for _, a := range all {
		if a.Status != StatusPending {
			continue
		}
		due, err := time.Parse(time.DateOnly, a.DueDate)
		if err != nil {
			continue
		}
		if due.Before(today) || due.After(end) {
			continue
		}
		list = append(list, UpcomingAssignment{Assignment: a, DaysUntilDue: int(due.Sub(today).Hours() / 24)})
	}
	slices.SortStableFunc(list, func(a, b UpcomingAssignment) int { return strings.Compare(a.DueDate, b.DueDate) })

	return Upcoming{
		Period:       fmt.Sprintf("Next %d days", days),
		StartDate:    today.Format(time.DateOnly),
		EndDate:      end.Format(time.DateOnly),
		Assignments:  list,
		TotalPending: len(list),
	}, nil
}

// Today returns the classes held on today's weekday, by start time.
func (s *Service) Today(ctx context.Context) ([]Class, error) {
	all, err := s.Classes(ctx)
	if err != nil {
		return nil, err
	}
	weekday := s.now().Weekday().String()
	out := []Class{}
	for _, c := range all {
		if strings.EqualFold(c.Day, weekday) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b Class) int { return strings.Compare(a.StartTime, b.StartTime) })
	return out, nil
}

// Complete marks an assignment done by userID and awards its points, an
// early bonus when finished before the due date, and activity stats. A nil
// score means the work was not scored and never counts as a high score.
func (s *Service) Complete(ctx context.Context, assignmentID, userID string, kind rewards.Kind, score *int) (CompletionResult, error) {
	rec, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return CompletionResult{}, err
	}
	if rec == nil {
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrNotFound, assignmentID)
	}

	now := s.now()
	claimed, err := s.repo.CompleteAssignment(ctx, assignmentID, userID, now)
	if err != nil {
		return CompletionResult{}, err
	}
	if !claimed {
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrAlreadyCompleted, assignmentID)
	}

	res := CompletionResult{AssignmentID: assignmentID, NewBadges: []string{}}
	if s.rewarder == nil {
		return res, nil
	}
	early := civilDate(now).Format(time.DateOnly) < rec.DueDate

	points := rec.Points
	if points == 0 {
		points = s.cfg.DefaultPoints
	}
	pr, err := s.rewarder.AddPoints(ctx, userID, kind, points, "Completed "+rec.Title)
	if err != nil {
		// Nothing was awarded, so the completion can be retried.
		if rerr := s.repo.ReopenAssignment(ctx, assignmentID); rerr != nil {
			s.logger.Error("reopen assignment after failed award",
				zap.String("assignment", assignmentID), zap.Error(rerr))
		}
		return CompletionResult{}, fmt.Errorf("award points: %w", err)
	}
	res.PointsEarned = points
	res.TotalPoints = pr.TotalPoints
	res.NewBadges = appendBadgeIDs(res.NewBadges, pr.NewBadges)

	if early {
		pr, err = s.rewarder.AddPoints(ctx, userID, kind, s.cfg.EarlyBonus, "Early submission bonus")
		if err != nil {
			return res, fmt.Errorf("award early bonus: %w", err)
		}
		res.EarlyBonus = true
		res.PointsEarned += s.cfg.EarlyBonus
		res.TotalPoints = pr.TotalPoints
		res.NewBadges = appendBadgeIDs(res.NewBadges, pr.NewBadges)
	}

	delta := rewards.StatsDelta{ActiveOn: now}
	if early {
		delta.EarlySubmissions = 1
	}
	if score != nil && *score >= s.cfg.HighScoreThreshold {
		delta.HighScores = 1
	}
	earned, err := s.rewarder.RecordStats(ctx, userID, kind, delta)
	if err != nil {
		return res, fmt.Errorf("record stats: %w", err)
	}
	res.NewBadges = appendBadgeIDs(res.NewBadges, earned)
	return res, nil
}

// Conflicts reports overlapping classes and asks the model for a workload
// review. A generation failure keeps the overlaps and sets status error.
func (s *Service) Conflicts(ctx context.Context) (ConflictAnalysis, error) {
	classes, err := s.Classes(ctx)
	if err != nil {
		return ConflictAnalysis{}, err
	}
	assignments, err := s.Assignments(ctx)
	if err != nil {
		return ConflictAnalysis{}, err
	}
	var pending []Assignment
	for _, a := range assignments {
		if a.Status == StatusPending {
			pending = append(pending, a)
		}
	}
	overlaps := FindOverlaps(classes)

	out := ConflictAnalysis{
		Overlaps:           overlaps,
		TotalClasses:       len(classes),
		PendingAssignments: len(pending),
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeConflicts)
	prompt := buildConflictPrompt(classes, pending, overlaps, s.cfg.MaxPromptAssignments)
	text, err := llm.Complete(ctx, s.provider, conflictSystemPrompt, prompt, s.cfg.ConflictTemperature, s.cfg.ConflictMaxTokens)
	if err != nil {
		s.logger.Warn("schedule analysis failed", zap.Error(err))
		out.Status = StatusError
		out.Analysis = fmt.Sprintf("Error analyzing schedule: %v", err)
		return out, nil
	}
	out.Status = StatusSuccess
	out.Analysis = text
	return out, nil
}

// SuggestTime asks the model for a slot for a new class. minutes <= 0
// uses the configured duration.
func (s *Service) SuggestTime(ctx context.Context, subject string, minutes int) (TimeSuggestion, error) {
	if strings.TrimSpace(subject) == "" {
		return TimeSuggestion{}, validate.Fieldf("Subject", "Subject is required")
	}
	if minutes <= 0 {
		minutes = s.cfg.DefaultDuration
	}
	classes, err := s.Classes(ctx)
	if err != nil {
		return TimeSuggestion{}, err
	}

	out := TimeSuggestion{Subject: subject, Duration: minutes}
	ctx = llm.WithPurpose(ctx, llm.PurposeStudyTime)
	text, err := llm.Complete(ctx, s.provider, slotSystemPrompt, buildSlotPrompt(subject, minutes, groupByDay(classes)),
		s.cfg.SuggestTemperature, s.cfg.SuggestMaxTokens)
	if err != nil {
		s.logger.Warn("time suggestion failed", zap.Error(err))
		out.Status = StatusError
		out.Suggestion = fmt.Sprintf("Error generating suggestion: %v", err)
		return out, nil
	}
	out.Status = StatusSuccess
	out.Suggestion = text
	return out, nil
}

type dayClasses struct {
	day     string
	classes []Class
}

// groupByDay buckets classes by weekday, Monday first, each by start time.
func groupByDay(classes []Class) []dayClasses {
	var out []dayClasses
	for _, day := range weekOrder {
		var dc []Class
		for _, c := range classes {
			if strings.EqualFold(c.Day, day) {
				dc = append(dc, c)
			}
		}
		if len(dc) == 0 {
			continue
		}
		slices.SortStableFunc(dc, func(a, b Class) int { return strings.Compare(a.StartTime, b.StartTime) })
		out = append(out, dayClasses{day: day, classes: dc})
	}
	return out
}

// FindOverlaps returns every pair of same-day classes whose time ranges
// intersect. Touching ranges (one ends when the next starts) do not
// overlap.
func FindOverlaps(classes []Class) []Overlap {
	out := []Overlap{}
	for _, d := range groupByDay(classes) {
		for i := 0; i < len(d.classes); i++ {
			for j := i + 1; j < len(d.classes); j++ {
				a, b := d.classes[i], d.classes[j]
				if a.StartTime < b.EndTime && b.StartTime < a.EndTime {
					out = append(out, Overlap{Day: d.day, First: a, Second: b})
				}
			}
		}
	}
	return out
}

var weekOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func canonicalDay(day string) string {
	for _, d := range weekOrder {
		if strings.EqualFold(d, day) {
			return d
		}
	}
	return day
}

// civilDate truncates t to midnight UTC of its local calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func classFromRecord(r store.ClassRecord) Class {
	return Class{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		ClassInput: ClassInput{
			Name:      r.Name,
			Day:       r.Day,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Subject:   r.Subject,
			Room:      r.Room,
		},
	}
}

func assignmentFromRecord(r store.AssignmentRecord) Assignment {
	return Assignment{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Title:       r.Title,
		Subject:     r.Subject,
		DueDate:     r.DueDate,
		Description: r.Description,
		Points:      r.Points,
		Status:      r.Status,
		CompletedAt: r.CompletedAt,
		CompletedBy: r.CompletedBy,
	}
}

func appendBadgeIDs(ids []string, badges []rewards.Badge) []string {
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}
