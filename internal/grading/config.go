package grading

// Config holds grading settings.
type Config struct {
	DefaultMaxScore  int
	GradeTemperature float64
	GradeMaxTokens   int
	HintTemperature  float64
	HintMaxTokens    int
}

// DefaultConfig returns sensible defaults for grading.
func DefaultConfig() Config {
	return Config{
		DefaultMaxScore:  10,
		GradeTemperature: 0.3,
		GradeMaxTokens:   1000,
		HintTemperature:  0.5,
		HintMaxTokens:    800,
	}
}
