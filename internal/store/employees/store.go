// Package employees persists employee records in PostgreSQL.
package employees

import (
	"context"
	"database/sql"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/models"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

const employeeColumns = "id, first_name, last_name, position, experience_level, created_at, updated_at"

// Create inserts a new employee and returns it with its generated id.
func (s *Store) Create(ctx context.Context, input *models.CreateEmployeeInput) (*models.Employee, error) {
	query := `INSERT INTO employees (first_name, last_name, position, experience_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + employeeColumns

	var emp models.Employee
	err := s.db.QueryRowContext(ctx, query,
		input.FirstName, input.LastName, input.Position, input.ExperienceLevel,
	).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Position,
		&emp.ExperienceLevel, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		s.logger.WithError(err).Error("Failed to insert employee", nil)
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	return &emp, nil
}

// GetByID fetches one employee.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	var emp models.Employee
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Position,
		&emp.ExperienceLevel, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewEmployeeNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get employee", err)
	}

	return &emp, nil
}

// List returns all employees, newest first.
func (s *Store) List(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list employees", err)
	}
	defer rows.Close()

	var result []models.Employee
	for rows.Next() {
		var emp models.Employee
		if err := rows.Scan(
			&emp.ID, &emp.FirstName, &emp.LastName, &emp.Position,
			&emp.ExperienceLevel, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan employee", err)
		}
		result = append(result, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list employees", err)
	}

	return result, nil
}

// Update applies the non-nil fields of input and returns the updated row.
func (s *Store) Update(ctx context.Context, id int64, input *models.UpdateEmployeeInput) (*models.Employee, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		current.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		current.LastName = *input.LastName
	}
	if input.Position != nil {
		current.Position = *input.Position
	}
	if input.ExperienceLevel != nil {
		current.ExperienceLevel = *input.ExperienceLevel
	}

	query := `UPDATE employees
		SET first_name = $1, last_name = $2, position = $3, experience_level = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + employeeColumns

	var emp models.Employee
	err = s.db.QueryRowContext(ctx, query,
		current.FirstName, current.LastName, current.Position, current.ExperienceLevel, id,
	).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Position,
		&emp.ExperienceLevel, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update employee", err)
	}

	return &emp, nil
}

// Delete removes an employee. Interviews cascade at the schema level.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete employee", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete employee", err)
	}
	if affected == 0 {
		return errors.NewEmployeeNotFoundError(id)
	}

	return nil
}
