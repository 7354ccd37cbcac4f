package recommender

import (
	"fmt"
	"strings"
)

const (
	curatorSystemPrompt   = `You are an educational content curator helping personalize learning.`
	teacherSystemPrompt   = `You are a helpful teacher who explains concepts clearly and simply.`
	worksheetSystemPrompt = `You are an expert educator creating engaging practice materials.`
)

func buildRecommendPrompt(topic, level string, candidates []RankedResult, preview int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on these learning resources about %q for a %s student:\n\n", topic, level)
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", c.Topic, c.ResourceType, c.Difficulty, truncate(c.Content, preview))
	}
	b.WriteString("\nExplain why each resource is recommended and how it can help the student learn effectively.\n")
	b.WriteString("Format as JSON array with explanations.")
	return b.String()
}

func buildAnswerPrompt(question string, grounding []RankedResult) string {
	blocks := make([]string, len(grounding))
	for i, r := range grounding {
		blocks[i] = fmt.Sprintf("Resource: %s\n%s", r.Topic, r.Content)
	}

	var b strings.Builder
	b.WriteString("You are a knowledgeable teacher answering student questions.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Relevant Learning Materials:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\nProvide a clear, simple, and accurate answer. Use the learning materials as reference but explain in an easy-to-understand way suitable for students.")
	return b.String()
}

func buildWorksheetPrompt(topic, difficulty string, n int) string {
	var b strings.Builder
	b.WriteString("Generate a practice worksheet for students.\n\n")
	fmt.Fprintf(&b, "Topic: %s\nDifficulty: %s\nNumber of Questions: %d\n\n", topic, difficulty, n)
	fmt.Fprintf(&b, "Create %d practice questions with answers. Include:\n", n)
	b.WriteString("- Multiple choice questions\n- Short answer questions\n- One application problem\n\n")
	b.WriteString(`Format as JSON:
{
    "title": "<worksheet title>",
    "questions": [
        {
            "question": "<question text>",
            "type": "<mcq/short/application>",
            "answer": "<answer>",
            "explanation": "<brief explanation>"
        }
    ]
}`)
	return b.String()
}

// truncate cuts s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
