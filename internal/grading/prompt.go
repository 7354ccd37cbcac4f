package grading

import (
	"fmt"
	"strings"
)

const (
	graderSystemPrompt = `You are an expert educational assessment assistant. Provide fair, constructive feedback.`
	hintSystemPrompt   = `You are a supportive tutor helping students learn through guided self-evaluation.`

	ocrPrompt = `Please extract all the text from this image.
This appears to be student homework or an assignment.
Return ONLY the text content you see, preserving the structure and formatting as much as possible.
Do not add any commentary or explanation.`
)

func buildGradePrompt(req GradeRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert teacher grading student homework.\n\n")
	fmt.Fprintf(&b, "Subject: %s\nMaximum Score: %d\n\n", req.Subject, req.MaxScore)
	fmt.Fprintf(&b, "Correct Answer/Solution:\n%s\n\n", req.CorrectAnswer)
	fmt.Fprintf(&b, "Student's Answer:\n%s\n\n", req.StudentAnswer)
	fmt.Fprintf(&b, `Please evaluate the student's answer and provide:
1. Score (out of %d)
2. Detailed feedback
3. Strengths in the answer
4. Areas for improvement
5. Common mistakes identified

Return your response in JSON format:
{
    "score": <number>,
    "percentage": <percentage>,
    "feedback": "<detailed feedback>",
    "strengths": ["<strength1>", "<strength2>"],
    "improvements": ["<improvement1>", "<improvement2>"],
    "mistakes": ["<mistake1>", "<mistake2>"]
}`, req.MaxScore)
	return b.String()
}

func buildHintPrompt(answer, subject string) string {
	var b strings.Builder
	b.WriteString("You are helping a student self-evaluate their homework.\n\n")
	fmt.Fprintf(&b, "Subject: %s\n\nStudent's Answer:\n%s\n\n", subject, answer)
	b.WriteString(`Provide helpful hints and guidance WITHOUT revealing the correct answer:
1. What aspects they should double-check
2. Key concepts to review
3. Potential areas of concern
4. Self-reflection questions

Return response in JSON format:
{
    "estimated_score_range": "<range like 6-8/10>",
    "hints": ["<hint1>", "<hint2>"],
    "review_topics": ["<topic1>", "<topic2>"],
    "reflection_questions": ["<question1>", "<question2>"]
}`)
	return b.String()
}
