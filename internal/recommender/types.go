package recommender

// Difficulty levels.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// LearningResource is one item in the knowledge base. Resources are
// immutable once added and identified by their position in the store.
type LearningResource struct {
	Topic          string `yaml:"topic" json:"topic"`
	Content        string `yaml:"content" json:"content"`
	ResourceType   string `yaml:"resource_type" json:"resource_type"`
	Difficulty     string `yaml:"difficulty" json:"difficulty"`
	TeachingMethod string `yaml:"teaching_method" json:"teaching_method"`
	URL            string `yaml:"url,omitempty" json:"url,omitempty"`
}

// embeddingText is what gets embedded for a resource.
func (r LearningResource) embeddingText() string {
	return r.Topic + " " + r.Content
}

// RankedResult is a resource with its cosine similarity to a query.
type RankedResult struct {
	LearningResource
	Score float64 `json:"similarity_score"`
}

// Confidence grades how well an answer is grounded.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// RecommendRequest asks for resources on a topic.
type RecommendRequest struct {
	Topic  string `json:"topic" validate:"required"`
	Level  string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Method string `json:"method,omitempty"`
	Count  int    `json:"count" validate:"gte=0,lte=20"`
}

// Recommendation is the composer's result. Candidates come purely from
// retrieval; Explanation is best-effort prose.
type Recommendation struct {
	Candidates  []RankedResult `json:"recommendations"`
	Explanation string         `json:"explanation"`
}

// AnswerRequest is a student question.
type AnswerRequest struct {
	Question     string `json:"question" validate:"required"`
	ContextTopic string `json:"context_topic,omitempty"`
	RetrieveN    int    `json:"retrieve_n,omitempty" validate:"gte=0,lte=20"`
}

// AnswerResult is a grounded answer with the topics it was grounded on.
type AnswerResult struct {
	Answer     string     `json:"answer"`
	Sources    []string   `json:"sources"`
	Confidence Confidence `json:"confidence"`
}

// WorksheetRequest asks for a practice worksheet.
type WorksheetRequest struct {
	Topic        string `json:"topic" validate:"required"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	NumQuestions int    `json:"num_questions" validate:"gte=0,lte=30"`
}

// Worksheet is a set of practice questions.
type Worksheet struct {
	Title     string              `json:"title"`
	Questions []WorksheetQuestion `json:"questions"`
}

// WorksheetQuestion is one worksheet item. Type is mcq, short or
// application; general and error mark fallback content.
type WorksheetQuestion struct {
	Question    string `json:"question"`
	Type        string `json:"type"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}
