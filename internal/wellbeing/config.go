package wellbeing

// Config holds well-being generation settings.
type Config struct {
	SentimentTemperature    float64
	SentimentMaxTokens      int
	InterventionTemperature float64
	InterventionMaxTokens   int
	PeerTemperature         float64
	PeerMaxTokens           int

	// ReportDays is the default report window.
	ReportDays int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SentimentTemperature:    0.3,
		SentimentMaxTokens:      800,
		InterventionTemperature: 0.6,
		InterventionMaxTokens:   1000,
		PeerTemperature:         0.7,
		PeerMaxTokens:           600,
		ReportDays:              7,
	}
}
