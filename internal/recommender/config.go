package recommender

// Config holds retrieval and generation settings.
type Config struct {
	// MinCandidates and OverFetch size the ranked window that filtering
	// runs over: max(MinCandidates, Count*OverFetch).
	MinCandidates int
	OverFetch     int

	DefaultCount     int
	DefaultRetrieveN int
	DefaultLevel     string

	// ContentPreview caps how much of each resource is quoted to the
	// explanation prompt.
	ContentPreview int

	Recommend GenerationConfig
	Answer    GenerationConfig
	Worksheet GenerationConfig
}

// GenerationConfig is one LLM call's sampling settings.
type GenerationConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		MinCandidates:    10,
		OverFetch:        3,
		DefaultCount:     3,
		DefaultRetrieveN: 3,
		DefaultLevel:     Intermediate,
		ContentPreview:   100,
		Recommend:        GenerationConfig{Temperature: 0.6, MaxTokens: 800},
		Answer:           GenerationConfig{Temperature: 0.4, MaxTokens: 600},
		Worksheet:        GenerationConfig{Temperature: 0.7, MaxTokens: 1500},
	}
}

// fetchSize is the number of ranked candidates recommend filters over.
func (c Config) fetchSize(count int) int {
	return max(c.MinCandidates, count*c.OverFetch)
}
