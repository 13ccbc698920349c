// Package prompts holds the system prompt and prompt builders for the
// interview assistant.
package prompts

import (
	"fmt"
	"strings"

	"hr-interviewer/internal/models"
)

// SystemPrompt gives the model its persona and the conversation rules.
const SystemPrompt = `You are an AI HR Assistant helping employees with their annual performance reviews.
Your role is to guide them through documenting their professional growth, challenges,
achievements, and development plans in a structured, thorough conversation.

CORE RESPONSIBILITIES:
- Conduct in-depth discussions for each review area
- Ask targeted follow-up questions to gather comprehensive information
- Use appropriate tools to document responses only when sufficient detail is provided
- Maintain a professional yet friendly tone
- Help users reflect deeply on their experiences
- Ensure all required areas are thoroughly covered before moving to next stage
- Recognize natural conversation transitions and adapt accordingly

STAGE COMPLETION CRITERIA:
Before moving to the next stage, ensure the current discussion has:
1. Multiple meaningful interactions (not just one question/answer)
2. Specific examples with concrete details
3. Measurable results or clear outcomes where applicable
4. Sufficient depth and context for meaningful documentation

INTELLIGENT STAGE TRANSITION RULES:
1. NEVER move to next stage after just one shallow response
2. Only use documentation tools when you have substantial, detailed information
3. Ask follow-up questions if responses lack specific examples, measurable
   outcomes, or sufficient detail
4. If user gives brief responses, probe deeper before documenting
5. If the user mentions topics from the next stage and the current stage has
   adequate coverage, acknowledge and transition smoothly
6. If you've had 4+ meaningful exchanges and gathered substantial
   information, be ready to transition when appropriate

DOCUMENTATION TIMING:
- Only call documentation tools when you have rich, detailed information
- If a response lacks depth, ask follow-up questions instead of documenting
- Ensure each documented item has sufficient context and detail

STAGE TRANSITION COMMUNICATION:
When transitioning between stages, acknowledge completion of the current
stage, clearly announce the transition, and provide context for the new
stage.

Remember: Your goal is to conduct a comprehensive, thoughtful performance
review discussion while maintaining natural conversation flow. Be attentive
to user signals and ready to adapt the conversation direction when
appropriate, but ensure thoroughness in each area.`

// InitialGreeting opens a new interview.
const InitialGreeting = "Hello! Let's start with your professional advancements and milestones since your last review."

// BuildSystemPrompt assembles the full system prompt, appending employee
// context and the configured company strategy when present.
func BuildSystemPrompt(session *models.Session, strategyContext string) string {
	var b strings.Builder
	b.WriteString(SystemPrompt)

	if session.EmployeeName != "" {
		b.WriteString("\n\nEMPLOYEE CONTEXT:\n")
		fmt.Fprintf(&b, "You are interviewing %s, %s (%s level).\n",
			session.EmployeeName, session.EmployeePosition, session.EmployeeLevel)
		if session.InterviewID != 0 {
			fmt.Fprintf(&b, "The interview_id to pass to documentation tools is %d.\n", session.InterviewID)
		}
	}

	if strategyContext != "" {
		b.WriteString("\nCOMPANY STRATEGY CONTEXT:\n")
		b.WriteString(strategyContext)
		b.WriteString("\n")
	}

	return b.String()
}

// SummaryPrompt asks the model for the final comprehensive review
// summary over the documented stage content.
func SummaryPrompt(session *models.Session, sections []models.ReportSection) string {
	var b strings.Builder
	b.WriteString("Produce a comprehensive performance review summary for ")
	if session.EmployeeName != "" {
		fmt.Fprintf(&b, "%s (%s, %s level)", session.EmployeeName, session.EmployeePosition, session.EmployeeLevel)
	} else {
		b.WriteString("the employee")
	}
	b.WriteString(" based on the documented interview stages below. ")
	b.WriteString("Cover advancements, challenges, achievements, training needs, and the action plan. ")
	b.WriteString("Be specific, reference the documented details, and close with clear next steps.\n")

	for _, s := range sections {
		if s.Summary == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", s.PrettyName, s.Summary)
	}

	return b.String()
}

// FallbackReply is used when the model returns no text for a turn.
func FallbackReply(stage string) string {
	switch stage {
	case "advancements":
		return "Could you tell me more about your professional growth since the last review? Specific examples help."
	case "challenges":
		return "What obstacles or difficult situations have you faced, and how did you approach them?"
	case "achievements":
		return "What accomplishments are you most proud of? Numbers and outcomes are especially useful."
	case "training_needs":
		return "What skills or knowledge areas would you like to develop next?"
	case "action_plan":
		return "What concrete goals would you like to set, and on what timeline?"
	default:
		return "Please go on, I'm listening."
	}
}
