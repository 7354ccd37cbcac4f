// Package rewards tracks points and badges for students and teachers.
package rewards

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/store"
)

// Service awards points and badges. Updates to a user are serialised so
// concurrent awards never lose points.
type Service struct {
	mu       sync.Mutex
	repo     store.RewardRepo
	provider llm.Provider
	badges   []Badge
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a reward service with the default badge catalogue.
func NewService(repo store.RewardRepo, provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		provider: provider,
		badges:   DefaultBadges(),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Badges returns the badge catalogue.
func (s *Service) Badges() []Badge {
	return slices.Clone(s.badges)
}

// AddPoints credits points to a user, creating the user on first touch,
// and awards any badges that become due.
func (s *Service) AddPoints(ctx context.Context, userID string, kind Kind, points int, reason string) (PointsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.loadOrCreate(ctx, userID, kind)
	if err != nil {
		return PointsResult{}, err
	}
	u.TotalPoints += points
	earned := s.award(u)

	entry := &store.RewardHistoryRecord{Timestamp: s.now(), Points: points, Reason: reason}
	if err := s.repo.SaveUser(ctx, *u, entry); err != nil {
		return PointsResult{}, fmt.Errorf("save points for %s: %w", userID, err)
	}
	if len(earned) > 0 {
		s.logger.Info("badges awarded", zap.String("user", userID), zap.Int("count", len(earned)))
	}
	return PointsResult{
		UserID:      userID,
		PointsAdded: points,
		TotalPoints: u.TotalPoints,
		NewBadges:   nonNilBadges(earned),
	}, nil
}

// RecordStats applies counter changes and returns newly earned badges.
func (s *Service) RecordStats(ctx context.Context, userID string, kind Kind, delta StatsDelta) ([]Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.loadOrCreate(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	stats := statsFromMap(u.Stats)
	stats.EarlySubmissions += delta.EarlySubmissions
	stats.HighScores += delta.HighScores
	stats.GradedCount += delta.GradedCount
	stats.MaterialsCreated += delta.MaterialsCreated
	if !delta.ActiveOn.IsZero() {
		stats = bumpStreak(stats, dayNumber(delta.ActiveOn))
	}
	u.Stats = statsToMap(stats)

	earned := s.award(u)
	if err := s.repo.SaveUser(ctx, *u, nil); err != nil {
		return nil, fmt.Errorf("save stats for %s: %w", userID, err)
	}
	return nonNilBadges(earned), nil
}

// Leaderboard returns the top users of a kind by points. Ties are broken
// by user id. topN <= 0 uses the configured size.
func (s *Service) Leaderboard(ctx context.Context, kind Kind, topN int) ([]LeaderboardEntry, error) {
	if topN <= 0 {
		topN = s.cfg.LeaderboardSize
	}
	all, err := s.ranked(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(all) > topN {
		all = all[:topN]
	}
	return all, nil
}

func (s *Service) ranked(ctx context.Context, kind Kind) ([]LeaderboardEntry, error) {
	users, err := s.repo.ListUsers(ctx, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", kind, err)
	}
	out := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		out = append(out, LeaderboardEntry{
			UserID:      u.UserID,
			Name:        u.Name,
			TotalPoints: u.TotalPoints,
			BadgeCount:  len(u.Badges),
		})
	}
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int {
		if a.TotalPoints != b.TotalPoints {
			return b.TotalPoints - a.TotalPoints
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return out, nil
}

// Profile returns a user's points, badges, rank and recent activity.
// Unknown users yield a profile with Found false.
func (s *Service) Profile(ctx context.Context, userID string, kind Kind) (Profile, error) {
	u, err := s.repo.GetUser(ctx, string(kind), userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load %s %s: %w", kind, userID, err)
	}
	if u == nil {
		return Profile{UserID: userID, Badges: []Badge{}, RecentActivity: []Activity{}}, nil
	}

	all, err := s.ranked(ctx, kind)
	if err != nil {
		return Profile{}, err
	}
	rank := slices.IndexFunc(all, func(e LeaderboardEntry) bool { return e.UserID == userID }) + 1

	hist, err := s.repo.RecentHistory(ctx, string(kind), userID, s.cfg.RecentActivity)
	if err != nil {
		return Profile{}, fmt.Errorf("load history for %s: %w", userID, err)
	}
	activity := make([]Activity, 0, len(hist))
	for _, h := range hist {
		activity = append(activity, Activity{Timestamp: h.Timestamp, Points: h.Points, Reason: h.Reason})
	}

	var earned []Badge
	for _, b := range s.badges {
		if slices.Contains(u.Badges, b.ID) {
			earned = append(earned, b)
		}
	}
	return Profile{
		Found:          true,
		UserID:         userID,
		Name:           u.Name,
		TotalPoints:    u.TotalPoints,
		Badges:         nonNilBadges(earned),
		BadgeCount:     len(earned),
		Rank:           rank,
		RecentActivity: activity,
	}, nil
}

// Suggest writes personalised motivation for a user. A missing user is
// created first with a zero-point "Profile created" entry.
func (s *Service) Suggest(ctx context.Context, userID string, kind Kind) (RewardSuggestion, error) {
	p, err := s.Profile(ctx, userID, kind)
	if err != nil {
		return RewardSuggestion{}, err
	}
	if !p.Found {
		if _, err := s.AddPoints(ctx, userID, kind, 0, "Profile created"); err != nil {
			return RewardSuggestion{}, err
		}
		if p, err = s.Profile(ctx, userID, kind); err != nil {
			return RewardSuggestion{}, err
		}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeRewards)
	text, err := llm.Complete(ctx, s.provider, coachSystemPrompt, buildSuggestPrompt(kind, p),
		s.cfg.SuggestTemperature, s.cfg.SuggestMaxTokens)
	if err != nil {
		s.logger.Warn("reward suggestion failed", zap.Error(err))
		return RewardSuggestion{
			Status:          StatusError,
			UserID:          userID,
			Recommendations: fmt.Sprintf("Error generating recommendations: %v", err),
			CurrentPoints:   p.TotalPoints,
			BadgesCount:     p.BadgeCount,
		}, nil
	}
	return RewardSuggestion{
		Status:          StatusSuccess,
		UserID:          userID,
		Recommendations: text,
		CurrentPoints:   p.TotalPoints,
		BadgesCount:     p.BadgeCount,
	}, nil
}

func (s *Service) loadOrCreate(ctx context.Context, userID string, kind Kind) (*store.RewardUserRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	u, err := s.repo.GetUser(ctx, string(kind), userID)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", kind, userID, err)
	}
	if u == nil {
		u = &store.RewardUserRecord{
			Kind:   string(kind),
			UserID: userID,
			Name:   userID,
			Badges: []string{},
			Stats:  statsToMap(Stats{}),
		}
	}
	return u, nil
}

// award appends newly met badges to u and returns them.
func (s *Service) award(u *store.RewardUserRecord) []Badge {
	earned := newBadges(s.badges, u.Badges, statsFromMap(u.Stats), u.TotalPoints)
	for _, b := range earned {
		u.Badges = append(u.Badges, b.ID)
	}
	return earned
}

func statsFromMap(m map[string]int) Stats {
	return Stats{
		EarlySubmissions: m[string(CriterionEarlySubmissions)],
		ConsecutiveDays:  m[string(CriterionConsecutiveDays)],
		HighScores:       m[string(CriterionHighScores)],
		GradedCount:      m[string(CriterionGradedCount)],
		MaterialsCreated: m[string(CriterionMaterialsCreated)],
		LastActiveDay:    m["last_active_day"],
	}
}

func statsToMap(st Stats) map[string]int {
	return map[string]int{
		string(CriterionEarlySubmissions): st.EarlySubmissions,
		string(CriterionConsecutiveDays):  st.ConsecutiveDays,
		string(CriterionHighScores):       st.HighScores,
		string(CriterionGradedCount):      st.GradedCount,
		string(CriterionMaterialsCreated): st.MaterialsCreated,
		"last_active_day":                 st.LastActiveDay,
	}
}

// bumpStreak extends the streak when day follows the last active day,
// keeps it on the same day and restarts it otherwise.
func bumpStreak(st Stats, day int) Stats {
	switch {
	case st.LastActiveDay == day && st.ConsecutiveDays > 0:
	case st.LastActiveDay != 0 && day == st.LastActiveDay+1:
		st.ConsecutiveDays++
	case day < st.LastActiveDay:
		// Back-dated activity does not move the streak.
		return st
	default:
		st.ConsecutiveDays = 1
	}
	st.LastActiveDay = day
	return st
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func nonNilBadges(b []Badge) []Badge {
	if b == nil {
		return []Badge{}
	}
	return b
}
