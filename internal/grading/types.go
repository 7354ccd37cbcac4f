package grading

// GradeRequest is a typed answer to grade against a reference solution.
type GradeRequest struct {
	StudentAnswer string `json:"student_answer" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	MaxScore      int    `json:"max_score" validate:"gte=0,lte=1000"`
}

// ImageGradeRequest grades a photographed or scanned answer.
type ImageGradeRequest struct {
	Image         []byte
	MIMEType      string // sniffed from Image when empty
	CorrectAnswer string
	Subject       string
	MaxScore      int
}

// GradeResult is the outcome of grading. Fields are always populated, even
// when the model failed; Feedback then explains what went wrong.
type GradeResult struct {
	Score         float64  `json:"score"`
	Percentage    float64  `json:"percentage"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	Mistakes      []string `json:"mistakes"`
	ExtractedText string   `json:"extracted_text,omitempty"`
}

// Hints guides self-evaluation without revealing the answer.
type Hints struct {
	EstimatedScoreRange string   `json:"estimated_score_range"`
	Hints               []string `json:"hints"`
	ReviewTopics        []string `json:"review_topics"`
	ReflectionQuestions []string `json:"reflection_questions"`
}
