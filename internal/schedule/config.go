package schedule

// Config holds scheduling settings.
type Config struct {
	DefaultPoints      int
	EarlyBonus         int
	HighScoreThreshold int
	UpcomingDays       int
	DefaultDuration    int // minutes

	// MaxPromptAssignments caps pending assignments listed for review.
	MaxPromptAssignments int

	ConflictTemperature float64
	ConflictMaxTokens   int
	SuggestTemperature  float64
	SuggestMaxTokens    int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPoints:        10,
		EarlyBonus:           5,
		HighScoreThreshold:   90,
		UpcomingDays:         7,
		DefaultDuration:      60,
		MaxPromptAssignments: 10,
		ConflictTemperature:  0.7,
		ConflictMaxTokens:    800,
		SuggestTemperature:   0.7,
		SuggestMaxTokens:     500,
	}
}
