package grading

import "github.com/abhisek/edumate/internal/llm"

// gradeSchema is the minimum a grading response must satisfy to be trusted.
var gradeSchema = &llm.Schema{
	Name: "grade-result",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"score", "feedback"},
		"properties": map[string]any{
			"score":        map[string]any{"type": "number"},
			"percentage":   map[string]any{"type": "number"},
			"feedback":     map[string]any{"type": "string"},
			"strengths":    stringArray,
			"improvements": stringArray,
			"mistakes":     stringArray,
		},
	},
}

var stringArray = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}
