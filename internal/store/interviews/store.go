// Package interviews persists interview and stage summary records in
// PostgreSQL.
package interviews

import (
	"context"
	"database/sql"
	"encoding/json"

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

const interviewColumns = "id, employee_id, session_id, interview_date, status, overall_score, created_at, completed_at"

func scanInterview(row interface{ Scan(...any) error }) (*models.Interview, error) {
	var iv models.Interview
	err := row.Scan(
		&iv.ID, &iv.EmployeeID, &iv.SessionID, &iv.InterviewDate,
		&iv.Status, &iv.OverallScore, &iv.CreatedAt, &iv.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Create inserts a new in-progress interview for an employee session.
func (s *Store) Create(ctx context.Context, employeeID int64, sessionID string) (*models.Interview, error) {
	query := `INSERT INTO interviews (employee_id, session_id, interview_date, status, created_at)
		VALUES ($1, $2, NOW(), $3, NOW())
		RETURNING ` + interviewColumns

	iv, err := scanInterview(s.db.QueryRowContext(ctx, query, employeeID, sessionID, models.InterviewStatusInProgress))
	if err != nil {
		s.logger.WithError(err).Error("Failed to insert interview", map[string]interface{}{
			"employee_id": employeeID,
			"session_id":  sessionID,
		})
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	return iv, nil
}

// GetBySessionID fetches the interview tied to a conversation session.
func (s *Store) GetBySessionID(ctx context.Context, sessionID string) (*models.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE session_id = $1`

	iv, err := scanInterview(s.db.QueryRowContext(ctx, query, sessionID))
	if err == sql.ErrNoRows {
		return nil, errors.NewInterviewNotFoundError("no interview for session " + sessionID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get interview by session", err)
	}

	return iv, nil
}

// ListByEmployee returns all interviews for an employee, newest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]models.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE employee_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list interviews", err)
	}
	defer rows.Close()

	var result []models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan interview", err)
		}
		result = append(result, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list interviews", err)
	}

	return result, nil
}

// Complete marks the session's interview completed with its overall score.
func (s *Store) Complete(ctx context.Context, sessionID string, overallScore float64) (*models.Interview, error) {
	query := `UPDATE interviews
		SET status = $1, overall_score = $2, completed_at = NOW()
		WHERE session_id = $3
		RETURNING ` + interviewColumns

	iv, err := scanInterview(s.db.QueryRowContext(ctx, query, models.InterviewStatusCompleted, overallScore, sessionID))
	if err == sql.ErrNoRows {
		return nil, errors.NewInterviewNotFoundError("no interview for session " + sessionID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("complete interview", err)
	}

	return iv, nil
}

// Cancel marks the session's interview cancelled.
func (s *Store) Cancel(ctx context.Context, sessionID string) (*models.Interview, error) {
	query := `UPDATE interviews
		SET status = $1, completed_at = NOW()
		WHERE session_id = $2
		RETURNING ` + interviewColumns

	iv, err := scanInterview(s.db.QueryRowContext(ctx, query, models.InterviewStatusCancelled, sessionID))
	if err == sql.ErrNoRows {
		return nil, errors.NewInterviewNotFoundError("no interview for session " + sessionID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("cancel interview", err)
	}

	return iv, nil
}

// Delete removes an interview row, used to roll back a failed start.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1`, id); err != nil {
		return errors.NewQueryExecutionFailedError("delete interview", err)
	}
	return nil
}

// ==========================
// Stage summaries
// ==========================

const stageSummaryColumns = "id, interview_id, stage_name, stage_order, summary_text, key_points, completion_score, interaction_count, started_at, completed_at"

func scanStageSummary(row interface{ Scan(...any) error }) (*models.StageSummary, error) {
	var ss models.StageSummary
	var summaryText sql.NullString
	var keyPoints []byte

	err := row.Scan(
		&ss.ID, &ss.InterviewID, &ss.StageName, &ss.StageOrder,
		&summaryText, &keyPoints, &ss.CompletionScore, &ss.InteractionCount,
		&ss.StartedAt, &ss.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	ss.SummaryText = summaryText.String
	if len(keyPoints) > 0 {
		if err := json.Unmarshal(keyPoints, &ss.KeyPoints); err != nil {
			return nil, err
		}
	}

	return &ss, nil
}

// CreateStageSummary inserts an empty summary row for a stage.
func (s *Store) CreateStageSummary(ctx context.Context, interviewID int64, stageName string, stageOrder int) (*models.StageSummary, error) {
	query := `INSERT INTO stage_summaries (interview_id, stage_name, stage_order, interaction_count, started_at)
		VALUES ($1, $2, $3, 0, NOW())
		RETURNING ` + stageSummaryColumns

	ss, err := scanStageSummary(s.db.QueryRowContext(ctx, query, interviewID, stageName, stageOrder))
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	return ss, nil
}

// GetStageSummary fetches one stage row by interview and stage name.
func (s *Store) GetStageSummary(ctx context.Context, interviewID int64, stageName string) (*models.StageSummary, error) {
	query := `SELECT ` + stageSummaryColumns + ` FROM stage_summaries WHERE interview_id = $1 AND stage_name = $2`

	ss, err := scanStageSummary(s.db.QueryRowContext(ctx, query, interviewID, stageName))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get stage summary", err)
	}

	return ss, nil
}

// ListStageSummaries returns the stage rows of an interview in order.
func (s *Store) ListStageSummaries(ctx context.Context, interviewID int64) ([]models.StageSummary, error) {
	query := `SELECT ` + stageSummaryColumns + ` FROM stage_summaries WHERE interview_id = $1 ORDER BY stage_order ASC`

	rows, err := s.db.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list stage summaries", err)
	}
	defer rows.Close()

	var result []models.StageSummary
	for rows.Next() {
		ss, err := scanStageSummary(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan stage summary", err)
		}
		result = append(result, *ss)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list stage summaries", err)
	}

	return result, nil
}

// UpdateStageSummaryText stores documented content against a stage
// without marking it completed. Used by the document_* tools.
func (s *Store) UpdateStageSummaryText(ctx context.Context, interviewID int64, stageName, summaryText string) error {
	query := `UPDATE stage_summaries SET summary_text = $1 WHERE interview_id = $2 AND stage_name = $3`

	res, err := s.db.ExecContext(ctx, query, summaryText, interviewID, stageName)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update stage summary", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update stage summary", err)
	}
	if affected == 0 {
		return errors.NewInvalidStageError(stageName)
	}

	return nil
}

// CompleteStageSummary finalizes a stage: updates the existing row, or
// creates it with the next stage order when missing.
func (s *Store) CompleteStageSummary(ctx context.Context, interviewID int64, stageName, summaryText string, keyPoints []string, completionScore float64, interactionCount int) (*models.StageSummary, error) {
	existing, err := s.GetStageSummary(ctx, interviewID, stageName)
	if err != nil {
		return nil, err
	}

	kp, err := json.Marshal(keyPoints)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if existing != nil {
		query := `UPDATE stage_summaries
			SET summary_text = $1, key_points = $2, completion_score = $3, interaction_count = $4, completed_at = NOW()
			WHERE id = $5
			RETURNING ` + stageSummaryColumns

		ss, err := scanStageSummary(s.db.QueryRowContext(ctx, query, summaryText, kp, completionScore, interactionCount, existing.ID))
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("complete stage summary", err)
		}
		return ss, nil
	}

	all, err := s.ListStageSummaries(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	stageOrder := len(all) + 1

	query := `INSERT INTO stage_summaries (interview_id, stage_name, stage_order, summary_text, key_points, completion_score, interaction_count, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + stageSummaryColumns

	ss, err := scanStageSummary(s.db.QueryRowContext(ctx, query, interviewID, stageName, stageOrder, summaryText, kp, completionScore, interactionCount))
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	return ss, nil
}

// History assembles the employee's interviews with their stage rows.
func (s *Store) History(ctx context.Context, employeeID int64) ([]models.InterviewWithSummaries, error) {
	interviews, err := s.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]models.InterviewWithSummaries, 0, len(interviews))
	for _, iv := range interviews {
		summaries, err := s.ListStageSummaries(ctx, iv.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.InterviewWithSummaries{
			Interview:      iv,
			StageSummaries: summaries,
		})
	}

	return result, nil
}
