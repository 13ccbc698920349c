// internal/models/interview.go
package models

import "time"

// Interview statuses.
const (
	InterviewStatusInProgress = "in_progress"
	InterviewStatusCompleted  = "completed"
	InterviewStatusCancelled  = "cancelled"
)

// Interview is one performance review conversation, keyed to a session.
type Interview struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	SessionID     string     `json:"session_id"`
	InterviewDate time.Time  `json:"interview_date"`
	Status        string     `json:"status"`
	OverallScore  *float64   `json:"overall_score,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// StageSummary captures what was documented for one interview stage.
type StageSummary struct {
	ID               int64      `json:"id"`
	InterviewID      int64      `json:"interview_id"`
	StageName        string     `json:"stage_name"`
	StageOrder       int        `json:"stage_order"`
	SummaryText      string     `json:"summary_text,omitempty"`
	KeyPoints        []string   `json:"key_points,omitempty"`
	CompletionScore  *float64   `json:"completion_score,omitempty"`
	InteractionCount int        `json:"interaction_count"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// InterviewWithSummaries is one interview plus its stage rows, used by the
// employee history endpoint.
type InterviewWithSummaries struct {
	Interview
	StageSummaries []StageSummary `json:"stage_summaries"`
}

// EmployeeHistory is the full review record for one employee.
type EmployeeHistory struct {
	Employee            *Employee                `json:"employee"`
	Interviews          []InterviewWithSummaries `json:"interviews"`
	TotalInterviews     int                      `json:"total_interviews"`
	CompletedInterviews int                      `json:"completed_interviews"`
}
