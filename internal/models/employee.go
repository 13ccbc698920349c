// internal/models/employee.go
package models

import "time"

// Employee is one employee on record. An employee has many interviews.
type Employee struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Position        string    `json:"position"`
	ExperienceLevel string    `json:"experience_level"` // junior, mid, senior, lead
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FullName returns "First Last".
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// CreateEmployeeInput carries the fields accepted on employee creation.
type CreateEmployeeInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Position        string `json:"position"`
	ExperienceLevel string `json:"experience_level"`
}

// UpdateEmployeeInput carries the updatable fields; nil means unchanged.
type UpdateEmployeeInput struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Position        *string `json:"position,omitempty"`
	ExperienceLevel *string `json:"experience_level,omitempty"`
}
