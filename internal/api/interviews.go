package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hr-interviewer/internal/interview/prompts"
	"hr-interviewer/internal/models"
)

// interviewListItem is an interview plus whether its conversation
// session is still live in Redis.
type interviewListItem struct {
	models.Interview
	SessionActive bool `json:"session_active"`
}

// startInterview creates the session, the interview row, and the six
// stage rows, rolling back on partial failure.
func (s *Server) startInterview(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	session, err := s.sessions.Create(ctx)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	interview, err := s.interviews.Create(ctx, emp.ID, session.ID)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			s.logger.WithError(delErr).Warn("Failed to roll back session", map[string]interface{}{
				"session_id": session.ID,
			})
		}
		s.errs.Respond(c, err)
		return
	}

	session.InterviewID = interview.ID
	session.EmployeeID = emp.ID
	session.EmployeeName = emp.FullName()
	session.EmployeePosition = emp.Position
	session.EmployeeLevel = emp.ExperienceLevel
	session.Messages = append(session.Messages, models.Message{
		Content:   prompts.InitialGreeting,
		Role:      models.RoleAssistant,
		Stage:     session.CurrentStage,
		Timestamp: time.Now().UTC(),
	})

	if err := s.sessions.Save(ctx, session); err != nil {
		if delErr := s.interviews.Delete(ctx, interview.ID); delErr != nil {
			s.logger.WithError(delErr).Warn("Failed to roll back interview", map[string]interface{}{
				"interview_id": interview.ID,
			})
		}
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			s.logger.WithError(delErr).Warn("Failed to roll back session", map[string]interface{}{
				"session_id": session.ID,
			})
		}
		s.errs.Respond(c, err)
		return
	}

	// pre-create the stage rows so documentation tools have targets
	for i, stage := range s.stageCfg.StageOrder {
		if _, err := s.interviews.CreateStageSummary(ctx, interview.ID, stage, i+1); err != nil {
			s.logger.WithError(err).Warn("Failed to pre-create stage row", map[string]interface{}{
				"interview_id": interview.ID,
				"stage":        stage,
			})
		}
	}

	s.logger.Info("Started interview", map[string]interface{}{
		"interview_id": interview.ID,
		"employee_id":  emp.ID,
		"session_id":   session.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"interview":  interview,
		"session_id": session.ID,
		"greeting":   prompts.InitialGreeting,
	})
}

// listInterviews returns the employee's interviews annotated with
// session liveness.
func (s *Server) listInterviews(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := s.employees.GetByID(ctx, id); err != nil {
		s.errs.Respond(c, err)
		return
	}

	interviews, err := s.interviews.ListByEmployee(ctx, id)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	items := make([]interviewListItem, 0, len(interviews))
	for _, iv := range interviews {
		alive, err := s.sessions.Exists(ctx, iv.SessionID)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to check session liveness", map[string]interface{}{
				"session_id": iv.SessionID,
			})
		}
		items = append(items, interviewListItem{Interview: iv, SessionActive: alive})
	}

	c.JSON(http.StatusOK, gin.H{"interviews": items, "total": len(items)})
}

// employeeHistory returns the full review record of an employee.
func (s *Server) employeeHistory(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	interviews, err := s.interviews.History(ctx, id)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	completed := 0
	for _, iv := range interviews {
		if iv.Status == models.InterviewStatusCompleted {
			completed++
		}
	}

	c.JSON(http.StatusOK, models.EmployeeHistory{
		Employee:            emp,
		Interviews:          interviews,
		TotalInterviews:     len(interviews),
		CompletedInterviews: completed,
	})
}
