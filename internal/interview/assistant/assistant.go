// Package assistant runs the interview conversation: it scores stage
// completion, drives stage transitions, invokes the model with the
// documentation tools bound, and finalizes the review when the summary
// stage is reached.
package assistant

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	stderrors "hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/llm"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/metrics"
	"hr-interviewer/internal/interview/prompts"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/interview/tools"
	"hr-interviewer/internal/models"
)

// SessionStore is the session persistence surface the engine needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Info(session *models.Session) *models.SessionInfo
}

// InterviewStore covers the interview rows the engine touches.
type InterviewStore interface {
	CompleteStageSummary(ctx context.Context, interviewID int64, stageName, summaryText string, keyPoints []string, completionScore float64, interactionCount int) (*models.StageSummary, error)
	ListStageSummaries(ctx context.Context, interviewID int64) ([]models.StageSummary, error)
	Complete(ctx context.Context, sessionID string, overallScore float64) (*models.Interview, error)
}

// ReportSink indexes the finished report.
type ReportSink interface {
	Index(ctx context.Context, report *models.Report) error
}

// Notifier dispatches report-ready notifications.
type Notifier interface {
	NotifyReportReady(ctx context.Context, report *models.Report)
}

// StageTransition describes a stage change within one turn.
type StageTransition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Result is the outcome of processing one user message.
type Result struct {
	AssistantReply  models.Message      `json:"assistant_response"`
	SessionInfo     *models.SessionInfo `json:"session_info"`
	StageTransition *StageTransition    `json:"stage_transition,omitempty"`
	IsComplete      bool                `json:"is_complete"`
	Report          *models.Report      `json:"report,omitempty"`
}

type Engine struct {
	cfg             *stages.Config
	model           llm.ChatModel
	tools           *tools.Registry
	sessions        SessionStore
	interviews      InterviewStore
	reports         ReportSink
	notifier        Notifier
	strategyContext string
	logger          logger.Logger
}

func NewEngine(
	cfg *stages.Config,
	model llm.ChatModel,
	registry *tools.Registry,
	sessionStore SessionStore,
	interviewStore InterviewStore,
	reportSink ReportSink,
	notifier Notifier,
	strategyContext string,
	log logger.Logger,
) *Engine {
	return &Engine{
		cfg:             cfg,
		model:           model,
		tools:           registry,
		sessions:        sessionStore,
		interviews:      interviewStore,
		reports:         reportSink,
		notifier:        notifier,
		strategyContext: strategyContext,
		logger:          log,
	}
}

// ProcessMessage runs one conversational turn for a session. The model
// is invoked exactly once; a model failure leaves the stored session
// untouched so the message can be retried.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, userMessage string) (*Result, error) {
	session, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	originalStage := session.CurrentStage
	if originalStage == stages.StageSummary {
		return nil, stderrors.NewInterviewCompletedError(sessionID)
	}

	e.recordUserMessage(session, userMessage)

	// Natural transition check has priority over the turn's own scoring.
	shouldTransition, target := e.cfg.ShouldTransition(session, userMessage)
	justSignaled := shouldTransition && target != originalStage
	if justSignaled {
		session.NextStage = target
	}

	completion := e.cfg.Evaluate(session)
	session.StageMetrics[originalStage] = completion

	reply, err := e.model.Chat(ctx,
		e.buildSystemPrompt(session, originalStage, completion, shouldTransition, justSignaled, target),
		buildHistory(session),
		e.tools.Declarations(),
	)
	if err != nil {
		metrics.MessagesFailed.WithLabelValues(originalStage, errorCode(err)).Inc()
		return nil, err
	}

	toolName := ""
	for _, call := range reply.Calls {
		if err := e.tools.Execute(ctx, call.Name, call.Args, session.InterviewID); err != nil {
			e.logger.WithError(err).Warn("Tool execution failed", map[string]interface{}{
				"tool":    call.Name,
				"session": sessionID,
			})
			continue
		}
		if toolName == "" {
			toolName = call.Name
		}
	}

	nextStage := session.NextStage
	if !justSignaled {
		nextStage = e.cfg.DetermineNextStage(toolName, originalStage, completion, userMessage)
		session.NextStage = nextStage
	}

	var transition *StageTransition
	if nextStage != originalStage {
		transition = &StageTransition{From: originalStage, To: nextStage}
		e.advanceStage(ctx, session, originalStage, nextStage, completion)
	} else {
		session.InteractionCount++
	}

	replyText := reply.Text
	if replyText == "" {
		if transition != nil {
			replyText = e.cfg.TransitionMessage(nextStage)
		}
		if replyText == "" {
			replyText = prompts.FallbackReply(session.CurrentStage)
		}
	}

	assistantMsg := models.Message{
		Content:   replyText,
		Role:      models.RoleAssistant,
		Stage:     session.CurrentStage,
		Timestamp: time.Now().UTC(),
	}
	session.Messages = append(session.Messages, assistantMsg)

	result := &Result{
		AssistantReply:  assistantMsg,
		StageTransition: transition,
	}

	// Reaching the summary stage ends the interview.
	if session.CurrentStage == stages.StageSummary {
		report, err := e.finalize(ctx, session)
		if err != nil {
			e.logger.WithError(err).Error("Failed to finalize interview", map[string]interface{}{
				"session": sessionID,
			})
		} else {
			result.IsComplete = true
			result.Report = report
			if report.Summary != "" {
				finalMsg := models.Message{
					Content:   report.Summary,
					Role:      models.RoleAssistant,
					Stage:     stages.StageSummary,
					Timestamp: time.Now().UTC(),
				}
				session.Messages = append(session.Messages, finalMsg)
				result.AssistantReply = finalMsg
			}
		}
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.MessagesProcessed.WithLabelValues(originalStage).Inc()
	result.SessionInfo = e.sessions.Info(session)
	return result, nil
}

func (e *Engine) recordUserMessage(session *models.Session, userMessage string) {
	stage := session.CurrentStage

	session.Messages = append(session.Messages, models.Message{
		Content:   userMessage,
		Role:      models.RoleUser,
		Stage:     stage,
		Timestamp: time.Now().UTC(),
	})

	if session.StageResponses == nil {
		session.StageResponses = map[string][]string{}
	}
	session.StageResponses[stage] = append(session.StageResponses[stage], userMessage)

	if session.StageMetrics == nil {
		session.StageMetrics = map[string]models.CompletionMetrics{}
	}
}

func (e *Engine) buildSystemPrompt(session *models.Session, stage string, completion models.CompletionMetrics, shouldTransition, justSignaled bool, target string) string {
	system := prompts.BuildSystemPrompt(session, e.strategyContext)

	contextText := ""
	if sc, ok := e.cfg.Stages[stage]; ok {
		contextText = sc.ContextText
	}

	if !completion.ReadyForNext && session.InteractionCount >= 1 && !shouldTransition {
		if followUp := e.cfg.FollowUpPrompt(stage, completion); followUp != "" {
			contextText += "\n\n" + followUp
		}
	}

	if justSignaled {
		if msg := e.cfg.TransitionMessage(target); msg != "" {
			contextText = msg
		}
	}

	if contextText != "" {
		system += "\n\nCURRENT STAGE GUIDANCE:\n" + contextText
	}

	return system
}

// advanceStage moves the session forward, resets the interaction
// counter, and finalizes the stage row of the stage just left.
func (e *Engine) advanceStage(ctx context.Context, session *models.Session, from, to string, completion models.CompletionMetrics) {
	session.CurrentStage = to
	session.NextStage = to
	session.InteractionCount = 0

	if session.InterviewID == 0 {
		return
	}

	summaryText := ""
	if existing, err := e.interviews.ListStageSummaries(ctx, session.InterviewID); err == nil {
		for _, ss := range existing {
			if ss.StageName == from {
				summaryText = ss.SummaryText
				break
			}
		}
	}
	if summaryText == "" {
		summaryText = "Stage '" + from + "' completed."
	}

	keyPoints := session.StageResponses[from]
	if _, err := e.interviews.CompleteStageSummary(ctx, session.InterviewID, from, summaryText, keyPoints, completion.CompletenessScore, completion.InteractionCount); err != nil {
		e.logger.WithError(err).Warn("Failed to persist stage summary", map[string]interface{}{
			"stage":        from,
			"interview_id": session.InterviewID,
		})
	}
}

// finalize generates the closing summary, completes the interview with
// its overall score, indexes the report, and dispatches notifications.
func (e *Engine) finalize(ctx context.Context, session *models.Session) (*models.Report, error) {
	overall := e.overallScore(session)

	sections := e.buildSections(ctx, session)

	summary, err := e.model.GenerateText(ctx, prompts.SystemPrompt, prompts.SummaryPrompt(session, sections))
	if err != nil {
		return nil, stderrors.NewSummaryFailedError(err)
	}

	if _, err := e.interviews.Complete(ctx, session.ID, overall); err != nil {
		return nil, err
	}
	metrics.InterviewsCompleted.Inc()

	actionPlan := ""
	for _, s := range sections {
		if s.StageName == stages.StageActionPlan {
			actionPlan = s.Summary
		}
	}

	report := &models.Report{
		SessionID:        session.ID,
		InterviewID:      session.InterviewID,
		EmployeeID:       session.EmployeeID,
		EmployeeName:     session.EmployeeName,
		EmployeePosition: session.EmployeePosition,
		ExperienceLevel:  session.EmployeeLevel,
		Sections:         sections,
		ActionPlan:       actionPlan,
		OverallScore:     overall,
		Summary:          summary,
		GeneratedAt:      time.Now().UTC(),
	}

	if err := e.reports.Index(ctx, report); err != nil {
		e.logger.WithError(err).Error("Failed to index report", map[string]interface{}{
			"session": session.ID,
		})
	}

	if e.notifier != nil {
		e.notifier.NotifyReportReady(ctx, report)
	}

	return report, nil
}

// overallScore is the mean completeness over the content stages that
// were evaluated.
func (e *Engine) overallScore(session *models.Session) float64 {
	sum := 0.0
	n := 0
	for stage, m := range session.StageMetrics {
		if stage == stages.StageSummary {
			continue
		}
		sum += m.CompletenessScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (e *Engine) buildSections(ctx context.Context, session *models.Session) []models.ReportSection {
	var rows []models.StageSummary
	if session.InterviewID != 0 {
		if listed, err := e.interviews.ListStageSummaries(ctx, session.InterviewID); err == nil {
			rows = listed
		}
	}

	byStage := map[string]models.StageSummary{}
	for _, r := range rows {
		byStage[r.StageName] = r
	}

	sections := make([]models.ReportSection, 0, len(e.cfg.StageOrder))
	for _, stage := range e.cfg.StageOrder {
		if stage == stages.StageSummary {
			continue
		}

		section := models.ReportSection{
			StageName:  stage,
			PrettyName: e.cfg.Stages[stage].PrettyName,
		}
		if row, ok := byStage[stage]; ok {
			section.Summary = row.SummaryText
			section.KeyPoints = row.KeyPoints
			if row.CompletionScore != nil {
				section.CompletionScore = *row.CompletionScore
			}
		}
		if m, ok := session.StageMetrics[stage]; ok && section.CompletionScore == 0 {
			section.CompletionScore = m.CompletenessScore
		}
		sections = append(sections, section)
	}

	return sections
}

func buildHistory(session *models.Session) []*genai.Content {
	history := make([]*genai.Content, 0, len(session.Messages))
	for _, m := range session.Messages {
		switch m.Role {
		case models.RoleUser:
			history = append(history, genai.NewContentFromText(m.Content, genai.RoleUser))
		case models.RoleAssistant:
			history = append(history, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return history
}

func errorCode(err error) string {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN"
}
