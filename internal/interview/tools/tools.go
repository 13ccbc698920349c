// Package tools defines the documentation tools the assistant model can
// call during an interview, validates their arguments, and persists the
// documented content through the interview store.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/metrics"
	"hr-interviewer/internal/interview/stages"
)

// Tool names exposed to the model.
const (
	ToolDocumentAdvancement  = "document_advancement"
	ToolDocumentChallenge    = "document_challenge"
	ToolDocumentAchievement  = "document_achievement"
	ToolDocumentTrainingNeed = "document_training_need"
	ToolDocumentActionPlan   = "document_action_plan"
)

// SummaryWriter is the persistence surface the tools need.
type SummaryWriter interface {
	UpdateStageSummaryText(ctx context.Context, interviewID int64, stageName, summaryText string) error
}

type toolDef struct {
	name        string
	description string
	stage       string
	declaration *genai.FunctionDeclaration
	schema      map[string]interface{}
	summarize   func(args map[string]any) string
}

// Registry holds the tool definitions and executes model tool calls.
type Registry struct {
	writer SummaryWriter
	logger logger.Logger
	tools  map[string]*toolDef
	order  []string
}

func NewRegistry(writer SummaryWriter, log logger.Logger) *Registry {
	r := &Registry{
		writer: writer,
		logger: log,
		tools:  map[string]*toolDef{},
	}

	r.register(&toolDef{
		name:        ToolDocumentAdvancement,
		description: "Documents a significant professional advancement or milestone. Call this tool when the employee describes their progress since the last review.",
		stage:       stages.StageAdvancements,
		declaration: descriptionTool(ToolDocumentAdvancement, "Documents a significant professional advancement or milestone. Call this tool when the employee describes their progress since the last review."),
		schema:      descriptionSchema(),
		summarize:   descriptionSummary,
	})

	r.register(&toolDef{
		name:        ToolDocumentChallenge,
		description: "Documents a challenge or obstacle the employee has faced.",
		stage:       stages.StageChallenges,
		declaration: descriptionTool(ToolDocumentChallenge, "Documents a challenge or obstacle the employee has faced."),
		schema:      descriptionSchema(),
		summarize:   descriptionSummary,
	})

	r.register(&toolDef{
		name:        ToolDocumentAchievement,
		description: "Documents a key achievement or success.",
		stage:       stages.StageAchievements,
		declaration: descriptionTool(ToolDocumentAchievement, "Documents a key achievement or success."),
		schema:      descriptionSchema(),
		summarize:   descriptionSummary,
	})

	r.register(&toolDef{
		name:        ToolDocumentTrainingNeed,
		description: "Documents a specific training or professional development need.",
		stage:       stages.StageTrainingNeeds,
		declaration: &genai.FunctionDeclaration{
			Name:        ToolDocumentTrainingNeed,
			Description: "Documents a specific training or professional development need.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"interview_id":  {Type: genai.TypeInteger, Description: "The unique ID of the interview."},
					"training_type": {Type: genai.TypeString, Description: "The type of training needed."},
					"reason":        {Type: genai.TypeString, Description: "The reason for the training need."},
				},
				Required: []string{"interview_id", "training_type", "reason"},
			},
		},
		schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"interview_id":  map[string]interface{}{"type": "integer"},
				"training_type": map[string]interface{}{"type": "string", "minLength": 1},
				"reason":        map[string]interface{}{"type": "string", "minLength": 1},
			},
			"required": []string{"interview_id", "training_type", "reason"},
		},
		summarize: func(args map[string]any) string {
			return fmt.Sprintf("Training Type: %v, Reason: %v", args["training_type"], args["reason"])
		},
	})

	r.register(&toolDef{
		name:        ToolDocumentActionPlan,
		description: "Documents a concrete, time-bound action plan for the employee.",
		stage:       stages.StageActionPlan,
		declaration: &genai.FunctionDeclaration{
			Name:        ToolDocumentActionPlan,
			Description: "Documents a concrete, time-bound action plan for the employee.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"interview_id": {Type: genai.TypeInteger, Description: "The unique ID of the interview."},
					"goal":         {Type: genai.TypeString, Description: "The goal of the action plan."},
					"deadline":     {Type: genai.TypeString, Description: "The deadline for the goal."},
					"next_steps":   {Type: genai.TypeString, Description: "The next steps to achieve the goal."},
				},
				Required: []string{"interview_id", "goal", "deadline", "next_steps"},
			},
		},
		schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"interview_id": map[string]interface{}{"type": "integer"},
				"goal":         map[string]interface{}{"type": "string", "minLength": 1},
				"deadline":     map[string]interface{}{"type": "string", "minLength": 1},
				"next_steps":   map[string]interface{}{"type": "string", "minLength": 1},
			},
			"required": []string{"interview_id", "goal", "deadline", "next_steps"},
		},
		summarize: func(args map[string]any) string {
			return fmt.Sprintf("Goal: %v, Deadline: %v, Next Steps: %v", args["goal"], args["deadline"], args["next_steps"])
		},
	})

	return r
}

func (r *Registry) register(td *toolDef) {
	r.tools[td.name] = td
	r.order = append(r.order, td.name)
}

func descriptionTool(name, description string) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"interview_id": {Type: genai.TypeInteger, Description: "The unique ID of the interview."},
				"description":  {Type: genai.TypeString, Description: "A detailed description of what is being documented."},
			},
			Required: []string{"interview_id", "description"},
		},
	}
}

func descriptionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"interview_id": map[string]interface{}{"type": "integer"},
			"description":  map[string]interface{}{"type": "string", "minLength": 1},
		},
		"required": []string{"interview_id", "description"},
	}
}

func descriptionSummary(args map[string]any) string {
	return fmt.Sprintf("%v", args["description"])
}

// Declarations returns the genai tool set to bind to a chat turn.
func (r *Registry) Declarations() []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].declaration)
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// StageFor maps a tool name to the interview stage it documents.
func (r *Registry) StageFor(toolName string) (string, bool) {
	td, ok := r.tools[toolName]
	if !ok {
		return "", false
	}
	return td.stage, true
}

// Execute validates the call arguments against the tool's schema and
// persists the documented content. interviewID is the authoritative
// value from the session; a mismatching model-supplied id is rejected.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, interviewID int64) error {
	td, ok := r.tools[name]
	if !ok {
		metrics.ToolExecutions.WithLabelValues(name, "unknown").Inc()
		return errors.NewToolArgsInvalidError(name, "unknown tool")
	}

	if err := validateArgs(td.schema, args); err != nil {
		metrics.ToolExecutions.WithLabelValues(name, "invalid").Inc()
		return errors.NewToolArgsInvalidError(name, err.Error())
	}

	if got, ok := numericArg(args["interview_id"]); ok && got != interviewID {
		metrics.ToolExecutions.WithLabelValues(name, "invalid").Inc()
		return errors.NewToolArgsInvalidError(name, fmt.Sprintf("interview_id %d does not match session interview %d", got, interviewID))
	}

	summary := td.summarize(args)
	if err := r.writer.UpdateStageSummaryText(ctx, interviewID, td.stage, summary); err != nil {
		metrics.ToolExecutions.WithLabelValues(name, "error").Inc()
		return err
	}

	metrics.ToolExecutions.WithLabelValues(name, "success").Inc()
	r.logger.Info("Documented stage content", map[string]interface{}{
		"tool":         name,
		"stage":        td.stage,
		"interview_id": interviewID,
	})

	return nil
}

func validateArgs(schema map[string]interface{}, args map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("argument validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// numericArg normalizes the numeric types JSON decoding may produce.
func numericArg(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	}
	return 0, false
}
