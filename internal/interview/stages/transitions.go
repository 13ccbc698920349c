// internal/interview/stages/transitions.go
package stages

import (
	"fmt"
	"strings"

	"hr-interviewer/internal/models"
)

// IntentContinue is returned by DetectIntent when the user explicitly
// asks to move forward.
const IntentContinue = "continue"

// DetectIntent inspects a user message for transition intent. It returns
// IntentContinue for explicit continuation signals, the name of another
// stage whose vocabulary dominates the message, or the current stage
// when no intent is detected.
func (c *Config) DetectIntent(userMessage, currentStage string) string {
	text := strings.ToLower(strings.TrimSpace(userMessage))
	if text == "" {
		return currentStage
	}

	for _, sig := range c.Transitions.ContinueSignals {
		if strings.Contains(text, sig) {
			return IntentContinue
		}
	}

	bestStage := ""
	bestScore := 0.0
	for name, sc := range c.Stages {
		if name == currentStage {
			continue
		}
		keywords := append(append([]string{}, sc.RequiredKeywords...), sc.DepthIndicators...)
		if len(keywords) == 0 {
			continue
		}
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				matches++
			}
		}
		score := float64(matches) / float64(len(keywords))
		if score > bestScore {
			bestScore = score
			bestStage = name
		}
	}

	if bestStage != "" && bestScore >= c.IntentMatchRatio {
		return bestStage
	}

	return currentStage
}

// ShouldTransition decides whether the session should advance, and to
// which stage. User intent takes priority over automatic readiness.
func (c *Config) ShouldTransition(session *models.Session, userMessage string) (bool, string) {
	currentStage := session.CurrentStage
	metrics := c.Evaluate(session)

	next := c.NextStage(currentStage)
	if next == "" {
		return false, currentStage
	}

	if userMessage != "" {
		detected := c.DetectIntent(userMessage, currentStage)
		if detected == IntentContinue && metrics.ReadyForNext {
			return true, next
		}
		if detected == next {
			// drifting to the immediate next topic is allowed once the
			// current one has minimal coverage
			if metrics.CompletenessScore >= 0.5 && metrics.InteractionCount >= 1 {
				return true, next
			}
		}
	}

	if metrics.ReadyForNext {
		return true, next
	}

	return false, currentStage
}

// toolStageMap maps a documentation tool to the stage that follows it.
var toolStageMap = map[string]string{
	"document_advancement":   StageChallenges,
	"document_challenge":     StageAchievements,
	"document_achievement":   StageTrainingNeeds,
	"document_training_need": StageActionPlan,
	"document_action_plan":   StageSummary,
}

// DetermineNextStage resolves the stage to record as next after a model
// turn, considering tool calls, user intent, and the force-forward rule.
func (c *Config) DetermineNextStage(toolName, currentStage string, metrics models.CompletionMetrics, userMessage string) string {
	next := c.NextStage(currentStage)
	if next == "" {
		return currentStage
	}

	if toolName != "" && metrics.ReadyForNext {
		if mapped, ok := toolStageMap[toolName]; ok && mapped == next {
			return mapped
		}
	}

	if userMessage != "" {
		detected := c.DetectIntent(userMessage, currentStage)
		if detected == next && metrics.CompletenessScore >= 0.5 {
			return next
		}
	}

	sc := c.Stages[currentStage]
	if metrics.InteractionCount >= sc.ForceTransitionInteractions &&
		metrics.CompletenessScore >= c.Transitions.EmergencyCompletenessScore {
		return next
	}

	return currentStage
}

// FollowUpPrompt names what is still missing from the current stage so
// the model can probe for it. Empty when nothing is missing.
func (c *Config) FollowUpPrompt(stage string, metrics models.CompletionMetrics) string {
	sc, ok := c.Stages[stage]
	if !ok {
		return ""
	}

	var missing []string

	if metrics.WordCount < sc.MinWordCount {
		missing = append(missing, "more detailed explanation")
	}

	if metrics.KeywordCoverage < 0.5 && len(sc.RequiredKeywords) > 0 {
		n := len(sc.RequiredKeywords)
		if n > 3 {
			n = 3
		}
		missing = append(missing, "discussion of: "+strings.Join(sc.RequiredKeywords[:n], ", "))
	}

	if !metrics.HasSpecificExamples {
		missing = append(missing, "specific examples or metrics")
	}

	if len(missing) == 0 {
		return ""
	}

	return fmt.Sprintf(sc.FollowUpTemplate, strings.Join(missing, ", "))
}
