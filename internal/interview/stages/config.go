// Package stages holds the interview stage definitions and the
// deterministic completion and transition logic that drives the
// conversation forward.
package stages

// Stage names, in interview order.
const (
	StageAdvancements  = "advancements"
	StageChallenges    = "challenges"
	StageAchievements  = "achievements"
	StageTrainingNeeds = "training_needs"
	StageActionPlan    = "action_plan"
	StageSummary       = "summary"
)

// StageConfig holds the tunables for a single interview stage.
type StageConfig struct {
	PrettyName                  string
	ContextText                 string
	MinInteractions             int
	MinWordCount                int
	RequiredKeywords            []string
	DepthIndicators             []string
	FollowUpTemplate            string
	CompletionThreshold         float64
	ForceTransitionInteractions int
}

// TransitionConfig holds the cross-stage transition thresholds and the
// user intent signals.
type TransitionConfig struct {
	MinCompletenessScore        float64
	EmergencyCompletenessScore  float64
	MaxInteractionsBeforeForce  int
	MinInteractionsForEmergency int
	ContinueSignals             []string
	TransitionMessages          map[string]string
}

// CompletionWeights weight the components of the completeness score.
type CompletionWeights struct {
	KeywordCoverage float64
	DepthScore      float64
	Interactions    float64
	Words           float64
	Examples        float64
}

// Config is the full interview flow configuration.
type Config struct {
	StageOrder       []string
	Stages           map[string]StageConfig
	Transitions      TransitionConfig
	Weights          CompletionWeights
	InitialStage     string
	IntentMatchRatio float64
}

const defaultFollowUpTemplate = "To ensure we capture everything important, could you elaborate on: %s?"

// DefaultConfig builds the stage definitions for the annual performance
// review flow.
func DefaultConfig() *Config {
	stages := map[string]StageConfig{
		StageAdvancements: {
			PrettyName:                  "Professional Advancements & Milestones",
			ContextText:                 "Focus on documenting professional advancements and milestones since the last review. Please share specific examples of your growth and development.",
			MinInteractions:             2,
			MinWordCount:                100,
			RequiredKeywords:            []string{"skill", "project", "responsibility", "improvement", "achievement", "learn", "develop", "growth"},
			DepthIndicators:             []string{"specific", "example", "result", "impact", "implemented", "created", "led", "managed"},
			FollowUpTemplate:            defaultFollowUpTemplate,
			CompletionThreshold:         0.7,
			ForceTransitionInteractions: 5,
		},
		StageChallenges: {
			PrettyName:                  "Challenges & Obstacles",
			ContextText:                 "Now let's discuss the challenges and obstacles you've faced. Understanding these helps identify areas for support and improvement.",
			MinInteractions:             2,
			MinWordCount:                80,
			RequiredKeywords:            []string{"challenge", "difficult", "obstacle", "problem", "barrier", "issue", "struggle"},
			DepthIndicators:             []string{"approach", "solution", "overcome", "learned", "adapted", "resolved", "handled"},
			FollowUpTemplate:            defaultFollowUpTemplate,
			// lower threshold, this stage can be sensitive
			CompletionThreshold:         0.6,
			ForceTransitionInteractions: 4,
		},
		StageAchievements: {
			PrettyName:                  "Key Achievements & Accomplishments",
			ContextText:                 "Let's talk about your key achievements and accomplishments. Focus on measurable results and positive impacts.",
			MinInteractions:             2,
			MinWordCount:                120,
			RequiredKeywords:            []string{"accomplished", "delivered", "exceeded", "successful", "completed", "achieved", "won"},
			DepthIndicators:             []string{"metric", "percentage", "number", "result", "impact", "recognition", "outcome", "improved"},
			FollowUpTemplate:            defaultFollowUpTemplate,
			CompletionThreshold:         0.75,
			ForceTransitionInteractions: 6,
		},
		StageTrainingNeeds: {
			PrettyName:                  "Training & Development Needs",
			ContextText:                 "What training or development areas would be most beneficial for your growth? Consider both technical and soft skills.",
			MinInteractions:             1,
			MinWordCount:                60,
			RequiredKeywords:            []string{"skill", "training", "development", "learn", "improve", "certification", "course"},
			DepthIndicators:             []string{"specific", "goal", "timeline", "program", "mentor", "practice"},
			FollowUpTemplate:            defaultFollowUpTemplate,
			CompletionThreshold:         0.6,
			ForceTransitionInteractions: 4,
		},
		StageActionPlan: {
			PrettyName:                  "Action Plan & Goals",
			ContextText:                 "Let's create a concrete action plan for your professional development. Focus on specific, measurable goals with timelines.",
			MinInteractions:             2,
			MinWordCount:                100,
			RequiredKeywords:            []string{"goal", "plan", "objective", "timeline", "action", "target", "milestone"},
			DepthIndicators:             []string{"specific", "measurable", "deadline", "resource", "steps", "review"},
			FollowUpTemplate:            defaultFollowUpTemplate,
			CompletionThreshold:         0.75,
			ForceTransitionInteractions: 5,
		},
		StageSummary: {
			PrettyName:                  "Performance Review Summary",
			ContextText:                 "Generating comprehensive summary of our discussion.",
			MinInteractions:             0,
			MinWordCount:                0,
			FollowUpTemplate:            defaultFollowUpTemplate,
			CompletionThreshold:         0.0,
			ForceTransitionInteractions: 1,
		},
	}

	return &Config{
		StageOrder: []string{
			StageAdvancements,
			StageChallenges,
			StageAchievements,
			StageTrainingNeeds,
			StageActionPlan,
			StageSummary,
		},
		Stages: stages,
		Transitions: TransitionConfig{
			MinCompletenessScore:        0.7,
			EmergencyCompletenessScore:  0.5,
			MaxInteractionsBeforeForce:  6,
			MinInteractionsForEmergency: 3,
			ContinueSignals: []string{
				"next", "continue", "move on", "done", "finished",
				"that's it", "let's proceed", "ready",
			},
			TransitionMessages: map[string]string{
				StageChallenges:    "Great! Now let's discuss any challenges or obstacles you've faced. What specific difficulties have you encountered in your role?",
				StageAchievements:  "Excellent! Now let's talk about your key achievements and accomplishments. What are you most proud of accomplishing?",
				StageTrainingNeeds: "Perfect! Now let's identify areas for your professional development. What skills or knowledge areas would you like to improve?",
				StageActionPlan:    "Great! Finally, let's create an action plan for your continued growth. What specific goals would you like to set?",
				StageSummary:       "Thank you! Let me now provide a comprehensive summary of our discussion.",
			},
		},
		Weights: CompletionWeights{
			KeywordCoverage: 0.25,
			DepthScore:      0.25,
			Interactions:    0.20,
			Words:           0.15,
			Examples:        0.15,
		},
		InitialStage:     StageAdvancements,
		IntentMatchRatio: 0.3,
	}
}

// NextStage returns the stage after the given one, or "" when it is the
// last (or unknown).
func (c *Config) NextStage(stage string) string {
	for i, s := range c.StageOrder {
		if s == stage {
			if i+1 < len(c.StageOrder) {
				return c.StageOrder[i+1]
			}
			return ""
		}
	}
	return ""
}

// StageIndex returns the position of a stage in the order, or -1.
func (c *Config) StageIndex(stage string) int {
	for i, s := range c.StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// IsValidStage reports whether the name is a known stage.
func (c *Config) IsValidStage(stage string) bool {
	_, ok := c.Stages[stage]
	return ok
}

// TransitionMessage returns the canned announcement for entering a stage.
func (c *Config) TransitionMessage(stage string) string {
	return c.Transitions.TransitionMessages[stage]
}
