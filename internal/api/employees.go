package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/models"
)

func (s *Server) employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.errs.Respond(c, errors.NewValidationFailedError("employee id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func validExperienceLevel(level string) bool {
	switch level {
	case "junior", "mid", "senior", "lead":
		return true
	}
	return false
}

func (s *Server) createEmployee(c *gin.Context) {
	var input models.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.errs.Respond(c, errors.NewValidationFailedError("invalid request body: "+err.Error()))
		return
	}

	if input.FirstName == "" || input.LastName == "" || input.Position == "" {
		s.errs.Respond(c, errors.NewValidationFailedError("first_name, last_name and position are required"))
		return
	}
	if !validExperienceLevel(input.ExperienceLevel) {
		s.errs.Respond(c, errors.NewValidationFailedError("experience_level must be one of: junior, mid, senior, lead"))
		return
	}

	emp, err := s.employees.Create(c.Request.Context(), &input)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, emp)
}

func (s *Server) listEmployees(c *gin.Context) {
	result, err := s.employees.List(c.Request.Context())
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": result, "total": len(result)})
}

func (s *Server) getEmployee(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}

	emp, err := s.employees.GetByID(c.Request.Context(), id)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, emp)
}

func (s *Server) updateEmployee(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}

	var input models.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.errs.Respond(c, errors.NewValidationFailedError("invalid request body: "+err.Error()))
		return
	}
	if input.ExperienceLevel != nil && !validExperienceLevel(*input.ExperienceLevel) {
		s.errs.Respond(c, errors.NewValidationFailedError("experience_level must be one of: junior, mid, senior, lead"))
		return
	}

	emp, err := s.employees.Update(c.Request.Context(), id, &input)
	if err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, emp)
}

func (s *Server) deleteEmployee(c *gin.Context) {
	id, ok := s.employeeID(c)
	if !ok {
		return
	}

	if err := s.employees.Delete(c.Request.Context(), id); err != nil {
		s.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
