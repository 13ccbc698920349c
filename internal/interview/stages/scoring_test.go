package stages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-interviewer/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newSession(stage string, responses []string, interactions int) *models.Session {
	return &models.Session{
		ID:               "test-session",
		CurrentStage:     stage,
		NextStage:        stage,
		StageResponses:   map[string][]string{stage: responses},
		StageMetrics:     map[string]models.CompletionMetrics{},
		InteractionCount: interactions,
	}
}

// ==========================
// Component Score Tests
// ==========================

func TestKeywordCoverage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		expected float64
	}{
		{
			name:     "no keywords means full coverage",
			text:     "anything at all",
			keywords: nil,
			expected: 1.0,
		},
		{
			name:     "half covered",
			text:     "I learned a new skill on the project",
			keywords: []string{"skill", "project", "growth", "improvement"},
			expected: 0.5,
		},
		{
			name:     "case insensitive",
			text:     "My SKILL improved",
			keywords: []string{"skill"},
			expected: 1.0,
		},
		{
			name:     "nothing covered",
			text:     "hello there",
			keywords: []string{"skill", "project"},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, KeywordCoverage(tt.text, tt.keywords), 0.001)
		})
	}
}

func TestDepthScore_CappedAtOne(t *testing.T) {
	text := "specific example with a result and impact"
	score := DepthScore(text, []string{"specific"})
	assert.Equal(t, 1.0, score)
}

func TestHasSpecificExamples(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "empty text", text: "", expected: false},
		{name: "contains percentage", text: "conversion improved by 15%", expected: true},
		{name: "contains example phrase", text: "for example I mentored two developers", expected: true},
		{name: "short and vague", text: "it went well", expected: false},
		{
			name:     "long detailed text",
			text:     strings.Repeat("word ", 85),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasSpecificExamples(tt.text))
		})
	}
}

// ==========================
// Stage Evaluation Tests
// ==========================

func TestEvaluate_RichResponseIsReady(t *testing.T) {
	cfg := DefaultConfig()

	response := "I led a new project to integrate our customer service and sales databases, " +
		"which improved our lead conversion rate by 15% in Q3. For example, I took on more " +
		"responsibility and mentored two junior developers, a big improvement in my growth. " +
		"I learned new skills, implemented a CV generation tool, created specific dashboards, " +
		"and managed the rollout. The result had real impact: we develop faster now and my " +
		"achievement was recognized by the team lead. This helped me learn how to lead."

	session := newSession(StageAdvancements, []string{response, response}, 3)

	metrics := cfg.Evaluate(session)

	assert.True(t, metrics.MinInteractionsMet)
	assert.True(t, metrics.MinWordsMet)
	assert.True(t, metrics.HasSpecificExamples)
	assert.GreaterOrEqual(t, metrics.CompletenessScore, 0.7)
	assert.True(t, metrics.ReadyForNext)
}

func TestEvaluate_ShallowResponseNotReady(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession(StageAdvancements, []string{"it was fine"}, 1)

	metrics := cfg.Evaluate(session)

	assert.False(t, metrics.MinInteractionsMet)
	assert.False(t, metrics.MinWordsMet)
	assert.False(t, metrics.ReadyForNext)
	assert.Less(t, metrics.CompletenessScore, 0.7)
}

func TestEvaluate_ForceTransitionWhenStuck(t *testing.T) {
	cfg := DefaultConfig()

	// Enough interactions to trigger the force rule, middling content.
	response := "I worked on a project and learned a skill, for example improving a process"
	session := newSession(StageAdvancements, []string{response, response}, 5)

	metrics := cfg.Evaluate(session)

	require.GreaterOrEqual(t, session.InteractionCount, cfg.Stages[StageAdvancements].ForceTransitionInteractions)
	if metrics.CompletenessScore >= cfg.Transitions.EmergencyCompletenessScore {
		assert.True(t, metrics.ReadyForNext)
	}
}

func TestEvaluate_SummaryStageAlwaysReady(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession(StageSummary, nil, 0)

	metrics := cfg.Evaluate(session)

	assert.True(t, metrics.ReadyForNext)
}

func TestEvaluate_UnknownStageDoesNotPanic(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession("nonexistent", []string{"text"}, 1)

	assert.NotPanics(t, func() {
		cfg.Evaluate(session)
	})
}

// ==========================
// Weight Sanity
// ==========================

func TestCompletionWeights_SumToOne(t *testing.T) {
	w := DefaultConfig().Weights
	sum := w.KeywordCoverage + w.DepthScore + w.Interactions + w.Words + w.Examples
	assert.InDelta(t, 1.0, sum, 0.001)
}
