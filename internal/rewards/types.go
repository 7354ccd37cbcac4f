package rewards

import "time"

// Kind separates students from teachers. Each kind has its own leaderboard.
type Kind string

const (
	KindStudent Kind = "student"
	KindTeacher Kind = "teacher"
)

// ParseKind validates a user kind, defaulting empty input to student.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case "", KindStudent:
		return KindStudent, true
	case KindTeacher:
		return KindTeacher, true
	default:
		return "", false
	}
}

// Stats are the counters badge criteria look at.
type Stats struct {
	EarlySubmissions int `json:"early_submissions"`
	ConsecutiveDays  int `json:"consecutive_days"`
	HighScores       int `json:"high_scores"`
	GradedCount      int `json:"graded_count"`
	MaterialsCreated int `json:"materials_created"`

	// LastActiveDay is the day number (days since the Unix epoch, UTC) of
	// the last recorded activity. Zero means never.
	LastActiveDay int `json:"-"`
}

// StatsDelta describes one batch of counter changes.
type StatsDelta struct {
	EarlySubmissions int
	HighScores       int
	GradedCount      int
	MaterialsCreated int

	// ActiveOn, when set, extends or resets the consecutive-day streak.
	ActiveOn time.Time
}

// Activity is one point award in a user's history.
type Activity struct {
	Timestamp time.Time `json:"timestamp"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
}

// PointsResult reports the outcome of AddPoints.
type PointsResult struct {
	UserID      string  `json:"user_id"`
	PointsAdded int     `json:"points_added"`
	TotalPoints int     `json:"total_points"`
	NewBadges   []Badge `json:"new_badges"`
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	BadgeCount  int    `json:"badge_count"`
}

// Profile is a user's points, badges and standing.
type Profile struct {
	Found          bool       `json:"found"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	TotalPoints    int        `json:"total_points"`
	Badges         []Badge    `json:"badges"`
	BadgeCount     int        `json:"badge_count"`
	Rank           int        `json:"rank,omitempty"` // 1-based; 0 when unranked
	RecentActivity []Activity `json:"recent_activity"`
}

// RewardSuggestion is AI-written motivation for a user.
type RewardSuggestion struct {
	Status          string `json:"status"`
	UserID          string `json:"user_id"`
	Recommendations string `json:"recommendations"`
	CurrentPoints   int    `json:"current_points"`
	BadgesCount     int    `json:"badges_count"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
