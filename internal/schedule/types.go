package schedule

import "time"

// Assignment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ClassInput describes a weekly class.
type ClassInput struct {
	Name      string `json:"name" validate:"required"`
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Subject   string `json:"subject" validate:"required"`
	Room      string `json:"room"`
}

// AssignmentInput describes an assignment. Zero Points means the default.
type AssignmentInput struct {
	Title       string `json:"title" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	DueDate     string `json:"due_date" validate:"required,isodate"`
	Description string `json:"description"`
	Points      int    `json:"points" validate:"gte=0"`
}

// Class is a stored weekly class.
type Class struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ClassInput
}

// Assignment is a stored assignment.
type Assignment struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	DueDate     string    `json:"due_date"`
	Description string    `json:"description,omitempty"`
	Points      int       `json:"points"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	CompletedBy string    `json:"completed_by,omitempty"`
}

// UpcomingAssignment is a pending assignment with its countdown.
type UpcomingAssignment struct {
	Assignment
	DaysUntilDue int `json:"days_until_due"`
}

// Upcoming lists pending work due in a window starting today.
type Upcoming struct {
	Period       string               `json:"period"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	Assignments  []UpcomingAssignment `json:"assignments"`
	TotalPending int                  `json:"total_pending"`
}

// Overlap is a pair of classes on the same day whose times intersect.
type Overlap struct {
	Day    string `json:"day"`
	First  Class  `json:"first"`
	Second Class  `json:"second"`
}

// CompletionResult reports what completing an assignment earned.
type CompletionResult struct {
	AssignmentID string   `json:"assignment_id"`
	PointsEarned int      `json:"points_earned"`
	EarlyBonus   bool     `json:"early_bonus"`
	TotalPoints  int      `json:"total_points"`
	NewBadges    []string `json:"new_badges"`
}

// ConflictAnalysis combines detected overlaps with a written review.
type ConflictAnalysis struct {
	Status             string    `json:"status"`
	Overlaps           []Overlap `json:"overlaps"`
	Analysis           string    `json:"analysis"`
	TotalClasses       int       `json:"total_classes"`
	PendingAssignments int       `json:"pending_assignments"`
}

// TimeSuggestion is a proposed slot for a new class.
type TimeSuggestion struct {
	Status     string `json:"status"`
	Subject    string `json:"subject"`
	Duration   int    `json:"duration"`
	Suggestion string `json:"suggestion"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
