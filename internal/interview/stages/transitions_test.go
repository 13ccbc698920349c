package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hr-interviewer/internal/models"
)

// ==========================
// Intent Detection Tests
// ==========================

func TestDetectIntent(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name         string
		message      string
		currentStage string
		expected     string
	}{
		{
			name:         "explicit continue signal",
			message:      "I think we're done here, let's move on",
			currentStage: StageAdvancements,
			expected:     IntentContinue,
		},
		{
			name:         "ready signal",
			message:      "ready",
			currentStage: StageChallenges,
			expected:     IntentContinue,
		},
		{
			name:         "drift to challenges vocabulary",
			message:      "the biggest challenge was a difficult obstacle, a real problem and a barrier, quite an issue and a struggle to overcome",
			currentStage: StageAdvancements,
			expected:     StageChallenges,
		},
		{
			name:         "no intent stays on current stage",
			message:      "hello, how are you today",
			currentStage: StageAdvancements,
			expected:     StageAdvancements,
		},
		{
			name:         "empty message",
			message:      "",
			currentStage: StageAchievements,
			expected:     StageAchievements,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.DetectIntent(tt.message, tt.currentStage))
		})
	}
}

// ==========================
// Transition Decision Tests
// ==========================

func richSession(stage string, interactions int) *models.Session {
	response := "I accomplished and delivered a successful project, exceeded my targets and " +
		"completed everything I achieved and won recognition. For example the metric improved " +
		"by 20%, a number with real result and impact, a great outcome that improved the team. " +
		"Specifically the percentage of on-time delivery went up and the recognition followed."
	return newSession(stage, []string{response, response, response}, interactions)
}

func TestShouldTransition_ContinueSignalWhenReady(t *testing.T) {
	cfg := DefaultConfig()
	session := richSession(StageAchievements, 3)

	ok, target := cfg.ShouldTransition(session, "that's it, let's continue")

	assert.True(t, ok)
	assert.Equal(t, StageTrainingNeeds, target)
}

func TestShouldTransition_NotReadyStays(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession(StageAdvancements, []string{"it was ok"}, 1)

	ok, target := cfg.ShouldTransition(session, "things are fine I guess")

	assert.False(t, ok)
	assert.Equal(t, StageAdvancements, target)
}

func TestShouldTransition_LastStageNeverAdvances(t *testing.T) {
	cfg := DefaultConfig()
	session := newSession(StageSummary, nil, 0)

	ok, target := cfg.ShouldTransition(session, "next please")

	assert.False(t, ok)
	assert.Equal(t, StageSummary, target)
}

func TestShouldTransition_AutomaticWhenReady(t *testing.T) {
	cfg := DefaultConfig()
	session := richSession(StageAchievements, 3)

	ok, target := cfg.ShouldTransition(session, "")

	assert.True(t, ok)
	assert.Equal(t, StageTrainingNeeds, target)
}

// ==========================
// Next Stage Determination
// ==========================

func TestDetermineNextStage_ToolDriven(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{
		CompletenessScore: 0.8,
		InteractionCount:  3,
		ReadyForNext:      true,
	}

	next := cfg.DetermineNextStage("document_advancement", StageAdvancements, metrics, "")
	assert.Equal(t, StageChallenges, next)
}

func TestDetermineNextStage_ToolNotReadyStays(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{
		CompletenessScore: 0.3,
		InteractionCount:  1,
		ReadyForNext:      false,
	}

	next := cfg.DetermineNextStage("document_advancement", StageAdvancements, metrics, "")
	assert.Equal(t, StageAdvancements, next)
}

func TestDetermineNextStage_ToolSkippingStagesIgnored(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{ReadyForNext: true, CompletenessScore: 0.9}

	// document_action_plan maps to summary, but the session is still on
	// advancements; the out-of-order tool must not jump stages.
	next := cfg.DetermineNextStage("document_action_plan", StageAdvancements, metrics, "")
	assert.Equal(t, StageAdvancements, next)
}

func TestDetermineNextStage_ForcedForward(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{
		CompletenessScore: 0.55,
		InteractionCount:  cfg.Stages[StageChallenges].ForceTransitionInteractions,
		ReadyForNext:      false,
	}

	next := cfg.DetermineNextStage("", StageChallenges, metrics, "")
	assert.Equal(t, StageAchievements, next)
}

// ==========================
// Follow-up and Config Helpers
// ==========================

func TestFollowUpPrompt(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{
		WordCount:           10,
		KeywordCoverage:     0.1,
		HasSpecificExamples: false,
	}

	prompt := cfg.FollowUpPrompt(StageAdvancements, metrics)
	assert.Contains(t, prompt, "more detailed explanation")
	assert.Contains(t, prompt, "skill, project, responsibility")
	assert.Contains(t, prompt, "specific examples or metrics")
}

func TestFollowUpPrompt_NothingMissing(t *testing.T) {
	cfg := DefaultConfig()

	metrics := models.CompletionMetrics{
		WordCount:           500,
		KeywordCoverage:     0.9,
		HasSpecificExamples: true,
	}

	assert.Empty(t, cfg.FollowUpPrompt(StageAdvancements, metrics))
}

func TestConfig_StageOrderHelpers(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, StageChallenges, cfg.NextStage(StageAdvancements))
	assert.Equal(t, "", cfg.NextStage(StageSummary))
	assert.Equal(t, "", cfg.NextStage("unknown"))
	assert.Equal(t, 0, cfg.StageIndex(StageAdvancements))
	assert.Equal(t, 5, cfg.StageIndex(StageSummary))
	assert.Equal(t, -1, cfg.StageIndex("unknown"))
	assert.True(t, cfg.IsValidStage(StageActionPlan))
	assert.False(t, cfg.IsValidStage("warmup"))
}
