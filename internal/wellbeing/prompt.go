package wellbeing

import (
	"fmt"
	"strings"
)

const (
	analystSystemPrompt   = `You are an empathetic wellbeing analyst trained to detect stress and emotional patterns in teachers.`
	coachSystemPrompt     = `You are a compassionate wellbeing coach specializing in teacher mental health.`
	colleagueSystemPrompt = `You are a supportive colleague helping teachers connect with peers. Provide clear, friendly, actionable advice in a numbered list format. Be specific and practical.`
)

func buildSentimentPrompt(reflection string) string {
	return fmt.Sprintf(`You are a supportive wellbeing coach analyzing a teacher's reflection.

Teacher's Reflection:
%q

Analyze the emotional tone and wellbeing indicators. Provide:
1. Sentiment score (-1 to 1, where -1 is very negative, 0 is neutral, 1 is very positive)
2. Stress level (low/medium/high)
3. Key emotions detected
4. Wellbeing concerns (if any)
5. Positive aspects mentioned

Return as JSON:
{
    "sentiment_score": <number between -1 and 1>,
    "stress_level": "<low/medium/high>",
    "emotions": ["<emotion1>", "<emotion2>"],
    "concerns": ["<concern1>", "<concern2>"],
    "positive_aspects": ["<positive1>", "<positive2>"],
    "overall_assessment": "<brief summary>"
}`, reflection)
}

func buildInterventionPrompt(a Analysis) string {
	stress := a.StressLevel
	if stress == "" {
		stress = StressMedium
	}
	var b strings.Builder
	b.WriteString("You are a wellbeing coach providing supportive interventions for a teacher.\n\n")
	fmt.Fprintf(&b, "Current State:\n- Stress Level: %s\n- Emotions: %s\n- Concerns: %s\n\n",
		stress, strings.Join(a.Emotions, ", "), strings.Join(a.Concerns, ", "))
	b.WriteString(`Provide 3-5 practical micro-interventions that can be done quickly (5-15 minutes) to improve wellbeing. Include:
- Quick relaxation techniques
- Mindfulness exercises
- Time management tips
- Self-care suggestions
- When to seek peer support

Format as JSON:
{
    "priority": "<low/medium/high>",
    "interventions": [
        {
            "title": "<intervention name>",
            "description": "<what to do>",
            "duration": "<time needed>",
            "benefit": "<expected benefit>"
        }
    ],
    "seek_support": <true/false>,
    "support_message": "<message about seeking help if needed>"
}`)
	return b.String()
}

func buildPeerSupportPrompt(concern string) string {
	return fmt.Sprintf(`A teacher is experiencing concerns related to: %s

Provide 5-6 practical peer support suggestions. For each suggestion, provide:
- A clear action they can take
- Who to connect with
- What to discuss

Format your response as a numbered list with clear, actionable items.
Keep it concise and friendly.`, concern)
}

// trendRecommendations maps a trend to fixed advice.
func trendRecommendations(trend string) []string {
	switch trend {
	case TrendPositive:
		return []string{
			"Keep up the great work!",
			"Share your positive strategies with peers",
			"Continue current self-care practices",
		}
	case TrendHighStress:
		return []string{
			"Consider taking short breaks throughout the day",
			"Reach out to peer support network",
			"Review workload and prioritize tasks",
			"Practice daily mindfulness or relaxation",
			"Consider speaking with a counselor if stress persists",
		}
	case TrendConcerning:
		return []string{
			"Implement stress management techniques",
			"Connect with supportive colleagues",
			"Review and adjust work-life balance",
			"Consider professional support if needed",
		}
	default:
		return []string{
			"Continue regular wellbeing check-ins",
			"Maintain healthy work habits",
			"Stay connected with peer support",
		}
	}
}
