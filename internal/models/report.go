// internal/models/report.go
package models

import "time"

// ReportSection is one stage of the final review report.
type ReportSection struct {
	StageName       string   `json:"stage_name"`
	PrettyName      string   `json:"pretty_name"`
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points,omitempty"`
	CompletionScore float64  `json:"completion_score"`
}

// Report is the assembled review document indexed into Elasticsearch at
// interview completion.
type Report struct {
	SessionID        string          `json:"session_id"`
	InterviewID      int64           `json:"interview_id"`
	EmployeeID       int64           `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	EmployeePosition string          `json:"employee_position"`
	ExperienceLevel  string          `json:"experience_level"`
	Sections         []ReportSection `json:"sections"`
	ActionPlan       string          `json:"action_plan,omitempty"`
	OverallScore     float64         `json:"overall_score"`
	Summary          string          `json:"summary"`
	GeneratedAt      time.Time       `json:"generated_at"`
}
