package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageRecord aggregates token usage for one purpose and model.
type LLMUsageRecord struct {
	Purpose      string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose and model.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRecord, error)
}

// ReflectionRecord is one analysed teacher reflection.
type ReflectionRecord struct {
	ID        string
	CreatedAt time.Time
	Text      string
	Analysis  json.RawMessage
}

// ReflectionRepo stores the well-being reflection history.
type ReflectionRepo interface {
	SaveReflection(ctx context.Context, rec ReflectionRecord) error

	// ReflectionsSince returns reflections created at or after since,
	// oldest first.
	ReflectionsSince(ctx context.Context, since time.Time) ([]ReflectionRecord, error)

	CountReflections(ctx context.Context) (int, error)
}

// ClassRecord is a recurring weekly class.
type ClassRecord struct {
	ID        string
	CreatedAt time.Time
	Name      string
	Day       string
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Subject   string
	Room      string
}

// AssignmentRecord is an assignment with a due date.
type AssignmentRecord struct {
	ID          string
	CreatedAt   time.Time
	Title       string
	Subject     string
	DueDate     string // YYYY-MM-DD
	Description string
	Points      int
	Status      string
	CompletedAt time.Time
	CompletedBy string
}

// ScheduleRepo stores classes and assignments.
type ScheduleRepo interface {
	AddClass(ctx context.Context, rec ClassRecord) error
	ListClasses(ctx context.Context) ([]ClassRecord, error)

	AddAssignment(ctx context.Context, rec AssignmentRecord) error
	ListAssignments(ctx context.Context) ([]AssignmentRecord, error)

	// GetAssignment returns nil if the assignment does not exist.
	GetAssignment(ctx context.Context, id string) (*AssignmentRecord, error)

	// CompleteAssignment moves a pending assignment to completed. It
	// reports false when the assignment is missing or already completed.
	CompleteAssignment(ctx context.Context, id, by string, at time.Time) (bool, error)
	// ReopenAssignment puts an assignment back to pending.
	ReopenAssignment(ctx context.Context, id string) error
}

// RewardUserRecord is a student or teacher in the reward system.
type RewardUserRecord struct {
	Kind        string
	UserID      string
	Name        string
	TotalPoints int
	Badges      []string
	Stats       map[string]int
}

// RewardHistoryRecord is one point award.
type RewardHistoryRecord struct {
	Timestamp time.Time
	Points    int
	Reason    string
}

// RewardRepo stores reward users and their point history.
type RewardRepo interface {
	// GetUser returns nil if the user does not exist.
	GetUser(ctx context.Context, kind, userID string) (*RewardUserRecord, error)

	// SaveUser upserts the user and, when entry is non-nil, appends it to
	// the user's history in the same transaction.
	SaveUser(ctx context.Context, rec RewardUserRecord, entry *RewardHistoryRecord) error

	ListUsers(ctx context.Context, kind string) ([]RewardUserRecord, error)

	// RecentHistory returns the last limit entries, oldest first.
	RecentHistory(ctx context.Context, kind, userID string, limit int) ([]RewardHistoryRecord, error)
}
