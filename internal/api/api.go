// Package api exposes the HTTP surface of the interview service.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hr-interviewer/internal/common/auth"
	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/interview/assistant"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/models"
)

// EmployeeStore is the employee persistence surface the API needs.
type EmployeeStore interface {
	Create(ctx context.Context, input *models.CreateEmployeeInput) (*models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id int64, input *models.UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// InterviewStore covers the interview rows the API touches.
type InterviewStore interface {
	Create(ctx context.Context, employeeID int64, sessionID string) (*models.Interview, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Interview, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]models.Interview, error)
	Cancel(ctx context.Context, sessionID string) (*models.Interview, error)
	Delete(ctx context.Context, id int64) error
	CreateStageSummary(ctx context.Context, interviewID int64, stageName string, stageOrder int) (*models.StageSummary, error)
	History(ctx context.Context, employeeID int64) ([]models.InterviewWithSummaries, error)
}

// SessionStore is the live session surface the API needs.
type SessionStore interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Info(session *models.Session) *models.SessionInfo
	Stats(session *models.Session) *models.SessionStats
}

// ReportStore serves stored review reports.
type ReportStore interface {
	Get(ctx context.Context, sessionID string) (*models.Report, error)
	Search(ctx context.Context, query string, size int) ([]models.Report, int64, error)
}

// MessageProcessor runs one interview turn.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, sessionID, message string) (*assistant.Result, error)
}

// TokenValidator checks bearer tokens. Nil disables authentication.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

// Server wires the handlers to their dependencies.
type Server struct {
	employees  EmployeeStore
	interviews InterviewStore
	sessions   SessionStore
	reports    ReportStore
	processor  MessageProcessor
	validator  TokenValidator
	stageCfg   *stages.Config
	errs       *errors.HTTPHandler
	logger     logger.Logger
}

func NewServer(
	employees EmployeeStore,
	interviews InterviewStore,
	sessions SessionStore,
	reports ReportStore,
	processor MessageProcessor,
	validator TokenValidator,
	stageCfg *stages.Config,
	log logger.Logger,
) *Server {
	return &Server{
		employees:  employees,
		interviews: interviews,
		sessions:   sessions,
		reports:    reports,
		processor:  processor,
		validator:  validator,
		stageCfg:   stageCfg,
		errs:       errors.NewHTTPHandler(log),
		logger:     log,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(s.authenticate())
	{
		v1.POST("/employees", s.createEmployee)
		v1.GET("/employees", s.listEmployees)
		v1.GET("/employees/:id", s.getEmployee)
		v1.PUT("/employees/:id", s.updateEmployee)
		v1.DELETE("/employees/:id", s.deleteEmployee)

		v1.POST("/employees/:id/interviews", s.startInterview)
		v1.GET("/employees/:id/interviews", s.listInterviews)
		v1.GET("/employees/:id/history", s.employeeHistory)

		v1.POST("/sessions/:id/messages", s.postMessage)
		v1.GET("/sessions/:id", s.getSession)
		v1.GET("/sessions/:id/stats", s.sessionStats)
		v1.DELETE("/sessions/:id", s.endSession)

		v1.GET("/reports/search", s.searchReports)
		v1.GET("/reports/:sessionID", s.getReport)
	}

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
