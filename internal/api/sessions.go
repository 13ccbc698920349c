package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	stderrors "hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/models"
)

type postMessageRequest struct {
	Message string `json:"message"`
}

// postMessage runs one interview turn.
func (s *Server) postMessage(c *gin.Context) {
	sessionID := c.Param("id")

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errs.Respond(c, stderrors.NewValidationFailedError("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errs.Respond(c, stderrors.NewValidationFailedError("message must not be empty"))
		return
	}

	result, err := s.processor.ProcessMessage(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSession returns the progress view plus the transcript.
func (s *Server) getSession(c *gin.Context) {
	session, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_info": s.sessions.Info(session),
		"messages":     session.Messages,
	})
}

func (s *Server) sessionStats(c *gin.Context) {
	session, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, s.sessions.Stats(session))
}

// endSession cancels the interview tied to the session (when one is
// still in progress) and drops the conversation state.
func (s *Server) endSession(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		s.errs.Respond(c, err)
		return
	}

	interview, err := s.interviews.GetBySessionID(ctx, sessionID)
	if err == nil && interview.Status == models.InterviewStatusInProgress {
		if _, err := s.interviews.Cancel(ctx, sessionID); err != nil {
			s.errs.Respond(c, err)
			return
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.errs.Respond(c, err)
		return
	}

	s.logger.Info("Ended session", map[string]interface{}{"session_id": sessionID})
	c.JSON(http.StatusOK, gin.H{"deleted": sessionID})
}
