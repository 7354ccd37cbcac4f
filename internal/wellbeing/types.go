package wellbeing

// Stress levels. Unknown marks an analysis that could not be produced.
const (
	StressLow     = "low"
	StressMedium  = "medium"
	StressHigh    = "high"
	StressUnknown = "unknown"
)

// Trend labels used by Report.
const (
	TrendNoData     = "No data available"
	TrendNoRecent   = "No recent data"
	TrendPositive   = "Positive"
	TrendStable     = "Stable"
	TrendConcerning = "Concerning"
	TrendHighStress = "High Stress Detected"
)

// Analysis is the sentiment reading of one reflection.
type Analysis struct {
	SentimentScore    float64  `json:"sentiment_score"`
	StressLevel       string   `json:"stress_level"`
	Emotions          []string `json:"emotions"`
	Concerns          []string `json:"concerns"`
	PositiveAspects   []string `json:"positive_aspects"`
	OverallAssessment string   `json:"overall_assessment"`
}

// Intervention is a short self-care activity.
type Intervention struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Benefit     string `json:"benefit"`
}

// InterventionPlan is a prioritised set of interventions.
type InterventionPlan struct {
	Priority       string         `json:"priority"`
	Interventions  []Intervention `json:"interventions"`
	SeekSupport    bool           `json:"seek_support"`
	SupportMessage string         `json:"support_message"`
}

// PeerSupport holds suggestions for a kind of concern.
type PeerSupport struct {
	ConcernType string `json:"concern_type"`
	Suggestions string `json:"suggestions"`
}

// Report summarises recent reflections.
type Report struct {
	Period           string   `json:"period"`
	TotalReflections int      `json:"total_reflections"`
	AverageSentiment float64  `json:"average_sentiment"`
	HighStressDays   int      `json:"high_stress_days"`
	Trend            string   `json:"trend"`
	CommonConcerns   []string `json:"common_concerns"`
	Recommendations  []string `json:"recommendations"`
}
