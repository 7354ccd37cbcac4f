package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used across edumate.
const (
	PurposeRecommend    = "recommend"
	PurposeAnswer       = "answer"
	PurposeWorksheet    = "worksheet"
	PurposeGrading      = "grading"
	PurposeHints        = "hints"
	PurposeOCR          = "ocr"
	PurposeSentiment    = "sentiment"
	PurposeIntervention = "intervention"
	PurposePeerSupport  = "peer_support"
	PurposeConflicts    = "schedule_conflicts"
	PurposeStudyTime    = "study_time"
	PurposeRewards      = "reward_suggestions"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
