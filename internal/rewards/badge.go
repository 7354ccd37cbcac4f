package rewards

// CriterionKind identifies which counter a badge criterion checks.
type CriterionKind string

const (
	CriterionEarlySubmissions CriterionKind = "early_submissions"
	CriterionConsecutiveDays  CriterionKind = "consecutive_days"
	CriterionHighScores       CriterionKind = "high_scores"
	CriterionGradedCount      CriterionKind = "graded_count"
	CriterionMaterialsCreated CriterionKind = "materials_created"
	CriterionPointThreshold   CriterionKind = "total_points"
)

// Criterion is a "counter >= Min" rule.
type Criterion struct {
	Kind CriterionKind `json:"kind"`
	Min  int           `json:"min"`
}

func EarlySubmissions(min int) Criterion { return Criterion{CriterionEarlySubmissions, min} }
func ConsecutiveDays(min int) Criterion  { return Criterion{CriterionConsecutiveDays, min} }
func HighScores(min int) Criterion       { return Criterion{CriterionHighScores, min} }
func GradedCount(min int) Criterion      { return Criterion{CriterionGradedCount, min} }
func MaterialsCreated(min int) Criterion { return Criterion{CriterionMaterialsCreated, min} }
func PointThreshold(min int) Criterion   { return Criterion{CriterionPointThreshold, min} }

// Met reports whether a user with the given stats and points satisfies c.
// Unknown kinds never match.
func (c Criterion) Met(stats Stats, totalPoints int) bool {
	var v int
	switch c.Kind {
	case CriterionEarlySubmissions:
		v = stats.EarlySubmissions
	case CriterionConsecutiveDays:
		v = stats.ConsecutiveDays
	case CriterionHighScores:
		v = stats.HighScores
	case CriterionGradedCount:
		v = stats.GradedCount
	case CriterionMaterialsCreated:
		v = stats.MaterialsCreated
	case CriterionPointThreshold:
		v = totalPoints
	default:
		return false
	}
	return v >= c.Min
}

// Badge is an achievement awarded once per user.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Criterion   Criterion `json:"criterion"`
}

// DefaultBadges returns the built-in badge catalogue in display order.
func DefaultBadges() []Badge {
	return []Badge{
		{ID: "early_bird", Name: "Early Bird", Description: "Submitted 5 assignments before deadline", Icon: "🌅", Criterion: EarlySubmissions(5)},
		{ID: "consistent_learner", Name: "Consistent Learner", Description: "Completed assignments for 10 consecutive days", Icon: "📚", Criterion: ConsecutiveDays(10)},
		{ID: "excellence", Name: "Excellence Award", Description: "Scored 90% or more on 5 assignments", Icon: "⭐", Criterion: HighScores(5)},
		{ID: "dedicated_teacher", Name: "Dedicated Teacher", Description: "Graded 50+ assignments", Icon: "👨‍🏫", Criterion: GradedCount(50)},
		{ID: "innovator", Name: "Teaching Innovator", Description: "Created 10+ custom learning materials", Icon: "💡", Criterion: MaterialsCreated(10)},
		{ID: "point_master", Name: "Point Master", Description: "Earned 1000 points", Icon: "🏆", Criterion: PointThreshold(1000)},
	}
}

// newBadges returns the badges in catalogue that are met but not yet held.
func newBadges(catalogue []Badge, held []string, stats Stats, totalPoints int) []Badge {
	have := make(map[string]bool, len(held))
	for _, id := range held {
		have[id] = true
	}
	var out []Badge
	for _, b := range catalogue {
		if have[b.ID] {
			continue
		}
		if b.Criterion.Met(stats, totalPoints) {
			have[b.ID] = true
			out = append(out, b)
		}
	}
	return out
}
