// internal/models/session.go
package models

import "time"

// Message roles in the session transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one transcript entry.
type Message struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
}

// CompletionMetrics is the deterministic evaluation of one stage at one
// point in the conversation.
type CompletionMetrics struct {
	InteractionCount    int     `json:"interaction_count"`
	WordCount           int     `json:"word_count"`
	KeywordCoverage     float64 `json:"keyword_coverage"`
	DepthScore          float64 `json:"depth_score"`
	MinInteractionsMet  bool    `json:"min_interactions_met"`
	MinWordsMet         bool    `json:"min_words_met"`
	HasSpecificExamples bool    `json:"has_specific_examples"`
	CompletenessScore   float64 `json:"completeness_score"`
	ReadyForNext        bool    `json:"ready_for_next"`
}

// Session is the Redis-persisted conversation state for one interview.
type Session struct {
	ID               string                       `json:"id"`
	InterviewID      int64                        `json:"interview_id,omitempty"`
	EmployeeID       int64                        `json:"employee_id,omitempty"`
	EmployeeName     string                       `json:"employee_name,omitempty"`
	EmployeePosition string                       `json:"employee_position,omitempty"`
	EmployeeLevel    string                       `json:"employee_level,omitempty"`
	Messages         []Message                    `json:"messages"`
	CurrentStage     string                       `json:"current_stage"`
	NextStage        string                       `json:"next_stage"`
	StageResponses   map[string][]string          `json:"stage_responses"`
	StageMetrics     map[string]CompletionMetrics `json:"stage_metrics"`
	InteractionCount int                          `json:"interaction_count"`
	CreatedAt        time.Time                    `json:"created_at"`
	LastActivity     time.Time                    `json:"last_activity"`
}

// SessionInfo is the progress view of a session returned by the API.
type SessionInfo struct {
	SessionID          string                       `json:"session_id"`
	CurrentStage       string                       `json:"current_stage"`
	NextStage          string                       `json:"next_stage"`
	InteractionCount   int                          `json:"interaction_count"`
	CompletedStages    []string                     `json:"completed_stages"`
	ProgressPercentage float64                      `json:"progress_percentage"`
	StageMetrics       map[string]CompletionMetrics `json:"stage_completion_metrics"`
}

// SessionStats summarizes transcript volume and duration.
type SessionStats struct {
	SessionID         string    `json:"session_id"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivity      time.Time `json:"last_activity"`
	DurationMinutes   float64   `json:"duration_minutes"`
	TotalMessages     int       `json:"total_messages"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	CurrentStage      string    `json:"current_stage"`
	InteractionCount  int       `json:"interaction_count"`
	StagesEvaluated   int       `json:"stages_evaluated"`
}
