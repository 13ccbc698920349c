package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/interview/stages"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeWriter struct {
	calls []writerCall
	err   error
}

type writerCall struct {
	interviewID int64
	stage       string
	summary     string
}

func (f *fakeWriter) UpdateStageSummaryText(_ context.Context, interviewID int64, stageName, summaryText string) error {
	f.calls = append(f.calls, writerCall{interviewID, stageName, summaryText})
	return f.err
}

func newTestRegistry(t *testing.T) (*Registry, *fakeWriter) {
	writer := &fakeWriter{}
	return NewRegistry(writer, logger.NewTestLogger(t)), writer
}

// ==========================
// Declaration Tests
// ==========================

func TestRegistry_Declarations(t *testing.T) {
	registry, _ := newTestRegistry(t)

	decls := registry.Declarations()
	require.Len(t, decls, 1)
	require.Len(t, decls[0].FunctionDeclarations, 5)

	names := make([]string, 0, 5)
	for _, fd := range decls[0].FunctionDeclarations {
		names = append(names, fd.Name)
	}
	assert.Equal(t, []string{
		ToolDocumentAdvancement,
		ToolDocumentChallenge,
		ToolDocumentAchievement,
		ToolDocumentTrainingNeed,
		ToolDocumentActionPlan,
	}, names)
}

func TestRegistry_StageFor(t *testing.T) {
	registry, _ := newTestRegistry(t)

	stage, ok := registry.StageFor(ToolDocumentChallenge)
	require.True(t, ok)
	assert.Equal(t, stages.StageChallenges, stage)

	_, ok = registry.StageFor("document_everything")
	assert.False(t, ok)
}

// ==========================
// Execution Tests
// ==========================

func TestRegistry_Execute_Advancement(t *testing.T) {
	registry, writer := newTestRegistry(t)

	err := registry.Execute(context.Background(), ToolDocumentAdvancement, map[string]any{
		"interview_id": float64(42),
		"description":  "Led the database integration project",
	}, 42)

	require.NoError(t, err)
	require.Len(t, writer.calls, 1)
	assert.Equal(t, int64(42), writer.calls[0].interviewID)
	assert.Equal(t, stages.StageAdvancements, writer.calls[0].stage)
	assert.Equal(t, "Led the database integration project", writer.calls[0].summary)
}

func TestRegistry_Execute_TrainingNeedSummaryFormat(t *testing.T) {
	registry, writer := newTestRegistry(t)

	err := registry.Execute(context.Background(), ToolDocumentTrainingNeed, map[string]any{
		"interview_id":  float64(7),
		"training_type": "Kubernetes certification",
		"reason":        "moving to the platform team",
	}, 7)

	require.NoError(t, err)
	require.Len(t, writer.calls, 1)
	assert.Equal(t, stages.StageTrainingNeeds, writer.calls[0].stage)
	assert.Equal(t, "Training Type: Kubernetes certification, Reason: moving to the platform team", writer.calls[0].summary)
}

func TestRegistry_Execute_ActionPlanSummaryFormat(t *testing.T) {
	registry, writer := newTestRegistry(t)

	err := registry.Execute(context.Background(), ToolDocumentActionPlan, map[string]any{
		"interview_id": float64(7),
		"goal":         "lead a project",
		"deadline":     "Q2 2027",
		"next_steps":   "shadow the current lead",
	}, 7)

	require.NoError(t, err)
	require.Len(t, writer.calls, 1)
	assert.Equal(t, "Goal: lead a project, Deadline: Q2 2027, Next Steps: shadow the current lead", writer.calls[0].summary)
}

func TestRegistry_Execute_MissingArgs(t *testing.T) {
	registry, writer := newTestRegistry(t)

	err := registry.Execute(context.Background(), ToolDocumentChallenge, map[string]any{
		"interview_id": float64(7),
	}, 7)

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeToolArgsInvalid, stdErr.Code)
	assert.Empty(t, writer.calls)
}

func TestRegistry_Execute_InterviewIDMismatch(t *testing.T) {
	registry, writer := newTestRegistry(t)

	err := registry.Execute(context.Background(), ToolDocumentAchievement, map[string]any{
		"interview_id": float64(99),
		"description":  "shipped the thing",
	}, 7)

	require.Error(t, err)
	assert.Empty(t, writer.calls)
}

func TestRegistry_Execute_UnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	err := registry.Execute(context.Background(), "document_vacation", map[string]any{}, 1)

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeToolArgsInvalid, stdErr.Code)
}

func TestRegistry_Execute_WriterFailurePropagates(t *testing.T) {
	writer := &fakeWriter{err: errors.NewQueryExecutionFailedError("update stage summary", assert.AnError)}
	registry := NewRegistry(writer, logger.NewTestLogger(t))

	err := registry.Execute(context.Background(), ToolDocumentAdvancement, map[string]any{
		"interview_id": float64(1),
		"description":  "something detailed",
	}, 1)

	require.Error(t, err)
}
