package rewards

// Config holds reward settings.
type Config struct {
	LeaderboardSize    int
	RecentActivity     int
	SuggestTemperature float64
	SuggestMaxTokens   int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LeaderboardSize:    10,
		RecentActivity:     5,
		SuggestTemperature: 0.8,
		SuggestMaxTokens:   600,
	}
}
