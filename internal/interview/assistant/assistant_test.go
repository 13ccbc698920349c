package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	stderrors "hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/llm"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/interview/prompts"
	"hr-interviewer/internal/interview/stages"
	"hr-interviewer/internal/interview/tools"
	"hr-interviewer/internal/models"
)

// ==========================
// Test Fakes
// ==========================

type fakeModel struct {
	reply      *llm.Reply
	chatErr    error
	summary    string
	summaryErr error

	lastSystem  string
	lastHistory []*genai.Content
	chatCalls   int
}

func (f *fakeModel) Chat(_ context.Context, system string, history []*genai.Content, _ []*genai.Tool) (*llm.Reply, error) {
	f.chatCalls++
	f.lastSystem = system
	f.lastHistory = history
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.reply != nil {
		return f.reply, nil
	}
	return &llm.Reply{Text: "Understood."}, nil
}

func (f *fakeModel) GenerateText(_ context.Context, _, _ string) (string, error) {
	if f.summaryErr != nil {
		return "", f.summaryErr
	}
	return f.summary, nil
}

type fakeSessionStore struct {
	session *models.Session
	getErr  error
	saves   int
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.session == nil || f.session.ID != id {
		return nil, stderrors.NewSessionNotFoundError(id)
	}
	return f.session, nil
}

func (f *fakeSessionStore) Save(_ context.Context, session *models.Session) error {
	f.saves++
	f.session = session
	return nil
}

func (f *fakeSessionStore) Info(session *models.Session) *models.SessionInfo {
	return &models.SessionInfo{
		SessionID:        session.ID,
		CurrentStage:     session.CurrentStage,
		NextStage:        session.NextStage,
		InteractionCount: session.InteractionCount,
	}
}

type completedStage struct {
	stage   string
	summary string
	score   float64
}

type fakeInterviewStore struct {
	summaries      []models.StageSummary
	completed      []completedStage
	completedScore float64
	completedID    string
}

func (f *fakeInterviewStore) CompleteStageSummary(_ context.Context, _ int64, stageName, summaryText string, _ []string, completionScore float64, _ int) (*models.StageSummary, error) {
	f.completed = append(f.completed, completedStage{stageName, summaryText, completionScore})
	return &models.StageSummary{StageName: stageName, SummaryText: summaryText}, nil
}

func (f *fakeInterviewStore) ListStageSummaries(_ context.Context, _ int64) ([]models.StageSummary, error) {
	return f.summaries, nil
}

func (f *fakeInterviewStore) Complete(_ context.Context, sessionID string, overallScore float64) (*models.Interview, error) {
	f.completedID = sessionID
	f.completedScore = overallScore
	return &models.Interview{SessionID: sessionID, Status: models.InterviewStatusCompleted}, nil
}

type fakeReportSink struct {
	indexed []*models.Report
}

func (f *fakeReportSink) Index(_ context.Context, report *models.Report) error {
	f.indexed = append(f.indexed, report)
	return nil
}

type fakeNotifier struct {
	notified []*models.Report
}

func (f *fakeNotifier) NotifyReportReady(_ context.Context, report *models.Report) {
	f.notified = append(f.notified, report)
}

type noopWriter struct {
	calls []string
}

func (w *noopWriter) UpdateStageSummaryText(_ context.Context, _ int64, stageName, _ string) error {
	w.calls = append(w.calls, stageName)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

type engineFixture struct {
	engine     *Engine
	model      *fakeModel
	sessions   *fakeSessionStore
	interviews *fakeInterviewStore
	reports    *fakeReportSink
	notifier   *fakeNotifier
	writer     *noopWriter
}

func newFixture(t *testing.T, session *models.Session) *engineFixture {
	f := &engineFixture{
		model:      &fakeModel{},
		sessions:   &fakeSessionStore{session: session},
		interviews: &fakeInterviewStore{},
		reports:    &fakeReportSink{},
		notifier:   &fakeNotifier{},
		writer:     &noopWriter{},
	}

	log := logger.NewTestLogger(t)
	f.engine = NewEngine(
		stages.DefaultConfig(),
		f.model,
		tools.NewRegistry(f.writer, log),
		f.sessions,
		f.interviews,
		f.reports,
		f.notifier,
		"Quality first, customers second to none.",
		log,
	)
	return f
}

func newSession(stage string) *models.Session {
	return &models.Session{
		ID:               "sess-1",
		InterviewID:      5,
		EmployeeID:       12,
		EmployeeName:     "Dana Mercer",
		EmployeePosition: "Backend Engineer",
		EmployeeLevel:    "senior",
		CurrentStage:     stage,
		NextStage:        stage,
		StageResponses:   map[string][]string{},
		StageMetrics:     map[string]models.CompletionMetrics{},
	}
}

// richAdvancementsText covers every advancements keyword and depth
// indicator, so the stage scores well above its threshold.
const richAdvancementsText = "I led the migration project and managed a new team responsibility. " +
	"A specific example: I implemented and created the deployment pipeline, " +
	"with a clear result and impact, a 30% improvement in release frequency. " +
	"I developed new skills, learned Kubernetes, and this achievement reflects my growth."

// richActionPlanText does the same for the action plan stage.
const richActionPlanText = "My goal and plan: the objective has a timeline with a target milestone " +
	"and concrete action items. Specific, measurable steps with a deadline, the resources I need, " +
	"and a review checkpoint every month, aiming at a 15% increase in throughput."

func readySession(stage, richText string) *models.Session {
	s := newSession(stage)
	s.InteractionCount = 2
	s.StageResponses[stage] = []string{richText}
	return s
}

// ==========================
// Basic Turn Tests
// ==========================

func TestProcessMessage_ShallowMessageStaysInStage(t *testing.T) {
	f := newFixture(t, newSession(stages.StageAdvancements))
	f.model.reply = &llm.Reply{Text: "Could you share a concrete example of that?"}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "I guess things went okay.")

	require.NoError(t, err)
	assert.Equal(t, "Could you share a concrete example of that?", result.AssistantReply.Content)
	assert.Nil(t, result.StageTransition)
	assert.False(t, result.IsComplete)

	saved := f.sessions.session
	assert.Equal(t, stages.StageAdvancements, saved.CurrentStage)
	assert.Equal(t, 1, saved.InteractionCount)
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, models.RoleUser, saved.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, saved.Messages[1].Role)
	assert.Equal(t, []string{"I guess things went okay."}, saved.StageResponses[stages.StageAdvancements])

	assert.Contains(t, f.model.lastSystem, "Dana Mercer")
	assert.Contains(t, f.model.lastSystem, "CURRENT STAGE GUIDANCE")
	require.NotNil(t, result.SessionInfo)
	assert.Equal(t, stages.StageAdvancements, result.SessionInfo.CurrentStage)
}

func TestProcessMessage_SessionNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.engine.ProcessMessage(context.Background(), "missing", "hello")

	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestProcessMessage_SummaryStageRejected(t *testing.T) {
	f := newFixture(t, newSession(stages.StageSummary))

	_, err := f.engine.ProcessMessage(context.Background(), "sess-1", "one more thing")

	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInterviewCompleted, stdErr.Code)
	assert.Zero(t, f.sessions.saves)
}

func TestProcessMessage_ModelFailureLeavesSessionUnsaved(t *testing.T) {
	f := newFixture(t, newSession(stages.StageAdvancements))
	f.model.chatErr = stderrors.NewLLMCallFailedError(assert.AnError)

	_, err := f.engine.ProcessMessage(context.Background(), "sess-1", "I improved our test suite.")

	require.Error(t, err)
	assert.Zero(t, f.sessions.saves)
}

func TestProcessMessage_EmptyReplyUsesFallback(t *testing.T) {
	f := newFixture(t, newSession(stages.StageAdvancements))
	f.model.reply = &llm.Reply{}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "Not much to report.")

	require.NoError(t, err)
	assert.Equal(t, prompts.FallbackReply(stages.StageAdvancements), result.AssistantReply.Content)
}

// ==========================
// Transition Tests
// ==========================

func TestProcessMessage_ContinueSignalAdvancesStage(t *testing.T) {
	f := newFixture(t, readySession(stages.StageAdvancements, richAdvancementsText))
	f.model.reply = &llm.Reply{}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "That covers it, let's move on.")

	require.NoError(t, err)
	require.NotNil(t, result.StageTransition)
	assert.Equal(t, stages.StageAdvancements, result.StageTransition.From)
	assert.Equal(t, stages.StageChallenges, result.StageTransition.To)

	saved := f.sessions.session
	assert.Equal(t, stages.StageChallenges, saved.CurrentStage)
	assert.Zero(t, saved.InteractionCount)

	// empty model text on a transition falls back to the stage announcement
	cfg := stages.DefaultConfig()
	assert.Equal(t, cfg.TransitionMessage(stages.StageChallenges), result.AssistantReply.Content)

	require.Len(t, f.interviews.completed, 1)
	assert.Equal(t, stages.StageAdvancements, f.interviews.completed[0].stage)
	assert.Greater(t, f.interviews.completed[0].score, 0.7)
}

func TestProcessMessage_ToolCallPersistsDocumentation(t *testing.T) {
	f := newFixture(t, readySession(stages.StageAdvancements, richAdvancementsText))
	f.model.reply = &llm.Reply{
		Text: "Documented. Let's talk about challenges next.",
		Calls: []llm.FunctionCall{{
			Name: tools.ToolDocumentAdvancement,
			Args: map[string]any{
				"interview_id": float64(5),
				"description":  "Led the platform migration and grew into a tech lead role.",
			},
		}},
	}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "That's everything, I'm ready.")

	require.NoError(t, err)
	assert.Equal(t, []string{stages.StageAdvancements}, f.writer.calls)
	require.NotNil(t, result.StageTransition)
	assert.Equal(t, stages.StageChallenges, result.StageTransition.To)
	assert.Equal(t, "Documented. Let's talk about challenges next.", result.AssistantReply.Content)
}

func TestProcessMessage_NotReadyIgnoresContinueSignal(t *testing.T) {
	f := newFixture(t, newSession(stages.StageAdvancements))
	f.model.reply = &llm.Reply{Text: "Before we move on, tell me more about your projects."}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "done")

	require.NoError(t, err)
	assert.Nil(t, result.StageTransition)
	assert.Equal(t, stages.StageAdvancements, f.sessions.session.CurrentStage)
	assert.Empty(t, f.interviews.completed)
}

// ==========================
// Finalization Tests
// ==========================

func TestProcessMessage_ReachingSummaryFinalizesInterview(t *testing.T) {
	session := readySession(stages.StageActionPlan, richActionPlanText)
	session.StageMetrics[stages.StageAdvancements] = models.CompletionMetrics{CompletenessScore: 0.8}
	session.StageMetrics[stages.StageChallenges] = models.CompletionMetrics{CompletenessScore: 0.7}

	f := newFixture(t, session)
	f.model.reply = &llm.Reply{}
	f.model.summary = "Dana had a strong year with clear growth and a concrete plan."
	f.interviews.summaries = []models.StageSummary{
		{StageName: stages.StageActionPlan, SummaryText: "Goal: lead a project, Deadline: Q2 2027, Next Steps: shadow the current lead"},
	}

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "I think we are done here.")

	require.NoError(t, err)
	assert.True(t, result.IsComplete)
	require.NotNil(t, result.Report)
	assert.Equal(t, "Dana had a strong year with clear growth and a concrete plan.", result.AssistantReply.Content)
	assert.Equal(t, result.Report.Summary, result.AssistantReply.Content)

	assert.Equal(t, "sess-1", f.interviews.completedID)
	assert.Greater(t, f.interviews.completedScore, 0.5)

	require.Len(t, f.reports.indexed, 1)
	assert.Equal(t, "Dana Mercer", f.reports.indexed[0].EmployeeName)
	assert.Equal(t, "Goal: lead a project, Deadline: Q2 2027, Next Steps: shadow the current lead", f.reports.indexed[0].ActionPlan)

	require.Len(t, f.notifier.notified, 1)
	assert.Equal(t, stages.StageSummary, f.sessions.session.CurrentStage)
}

func TestProcessMessage_SummaryGenerationFailureStillSavesSession(t *testing.T) {
	f := newFixture(t, readySession(stages.StageActionPlan, richActionPlanText))
	f.model.reply = &llm.Reply{}
	f.model.summaryErr = stderrors.NewLLMTimeoutError()

	result, err := f.engine.ProcessMessage(context.Background(), "sess-1", "done, thank you")

	require.NoError(t, err)
	assert.False(t, result.IsComplete)
	assert.Equal(t, 1, f.sessions.saves)
	assert.Empty(t, f.reports.indexed)
}
