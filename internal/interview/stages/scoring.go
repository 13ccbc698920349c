// internal/interview/stages/scoring.go
package stages

import (
	"regexp"
	"strings"

	"hr-interviewer/internal/models"
)

var numberPattern = regexp.MustCompile(`\d+[\.,]?\d*\s*%?`)

var exampleIndicators = []string{
	"for example", "such as", "specifically", "in particular", "including",
	"like", "instance", "case", "project", "when", "during", "resulted in",
}

// KeywordCoverage returns the fraction of keywords present in text.
// Empty keyword lists count as full coverage.
func KeywordCoverage(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1.0
	}
	lowered := strings.ToLower(text)
	found := 0
	for _, k := range keywords {
		if strings.Contains(lowered, strings.ToLower(k)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// DepthScore measures how many depth indicators appear in text, capped
// at 1.0.
func DepthScore(text string, indicators []string) float64 {
	if len(indicators) == 0 {
		return 1.0
	}
	lowered := strings.ToLower(text)
	found := 0
	for _, d := range indicators {
		if strings.Contains(lowered, strings.ToLower(d)) {
			found++
		}
	}
	score := float64(found) / float64(len(indicators))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// HasSpecificExamples reports whether the text contains numbers, example
// phrasing, or is long enough to count as detailed.
func HasSpecificExamples(text string) bool {
	if text == "" {
		return false
	}

	if numberPattern.MatchString(text) {
		return true
	}

	lowered := strings.ToLower(text)
	for _, ind := range exampleIndicators {
		if strings.Contains(lowered, ind) {
			return true
		}
	}

	return len(strings.Fields(text)) > 80
}

// Evaluate scores the current stage of a session: how completely the
// employee has covered it and whether the conversation is ready to move
// on.
func (c *Config) Evaluate(session *models.Session) models.CompletionMetrics {
	stage := session.CurrentStage
	sc, ok := c.Stages[stage]
	if !ok {
		sc = StageConfig{PrettyName: stage}
	}

	combined := strings.Join(session.StageResponses[stage], " ")
	interactions := session.InteractionCount

	wordCount := len(strings.Fields(combined))
	keywordCoverage := KeywordCoverage(combined, sc.RequiredKeywords)
	depthScore := DepthScore(combined, sc.DepthIndicators)
	hasExamples := HasSpecificExamples(combined)

	minInteractionsMet := interactions >= sc.MinInteractions
	minWordsMet := wordCount >= sc.MinWordCount

	w := c.Weights
	score := keywordCoverage*w.KeywordCoverage +
		depthScore*w.DepthScore +
		partialCredit(minInteractionsMet, 0.5)*w.Interactions +
		partialCredit(minWordsMet, 0.3)*w.Words +
		partialCredit(hasExamples, 0.4)*w.Examples

	return models.CompletionMetrics{
		InteractionCount:    interactions,
		WordCount:           wordCount,
		KeywordCoverage:     keywordCoverage,
		DepthScore:          depthScore,
		MinInteractionsMet:  minInteractionsMet,
		MinWordsMet:         minWordsMet,
		HasSpecificExamples: hasExamples,
		CompletenessScore:   score,
		ReadyForNext:        c.readiness(score, interactions, sc),
	}
}

func partialCredit(met bool, credit float64) float64 {
	if met {
		return 1.0
	}
	return credit
}

// readiness applies the non-overlapping transition conditions: fully
// ready, forced forward when stuck, or extended interaction with decent
// progress.
func (c *Config) readiness(score float64, interactions int, sc StageConfig) bool {
	if score >= sc.CompletionThreshold && interactions >= sc.MinInteractions {
		return true
	}

	if interactions >= sc.ForceTransitionInteractions {
		return score >= c.Transitions.EmergencyCompletenessScore
	}

	if interactions >= c.Transitions.MinInteractionsForEmergency*2 {
		return score >= 0.6
	}

	return false
}
