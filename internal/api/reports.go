package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-interviewer/internal/common/errors"
)

// searchReports runs a full-text query across indexed review reports.
func (s *Server) searchReports(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.errs.Respond(c, errors.NewValidationFailedError("query parameter q is required"))
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errs.Respond(c, errors.NewValidationFailedError("size must be a non-negative integer"))
			return
		}
		size = parsed
	}

	reports, total, err := s.reports.Search(c.Request.Context(), query, size)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": total})
}

func (s *Server) getReport(c *gin.Context) {
	report, err := s.reports.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
