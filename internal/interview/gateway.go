package interview

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// Gateway is the boundary to the external text-generation capability.
// Implementations perform no retries; every failure is a *GenerationError or *ParseError.
type Gateway interface {
	// GenerateOpeningTurn returns the first question for a seed prompt.
	GenerateOpeningTurn(ctx context.Context, prompt string) (string, error)
	// GenerateNextTurn returns the next question given the whole transcript.
	GenerateNextTurn(ctx context.Context, instruction string, history types.Transcript) (string, error)
	// GenerateFeedback returns a structured assessment for a feedback prompt.
	GenerateFeedback(ctx context.Context, prompt string) (*types.Feedback, error)
}

// openingQuestion is the JSON shape requested for the first question.
type openingQuestion struct {
	Title    string `json:"title"`
	Question string `json:"question"`
}

// LLMGateway implements Gateway on top of an llm.Client.
type LLMGateway struct {
	client llm.Client
}

// NewLLMGateway wraps an LLM client.
func NewLLMGateway(client llm.Client) *LLMGateway {
	return &LLMGateway{client: client}
}

// GenerateOpeningTurn requests a {title, question} object and returns the question.
func (g *LLMGateway) GenerateOpeningTurn(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &GenerationError{Message: "opening prompt is required"}
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &GenerationError{Message: "opening question request failed", Cause: err}
	}

	var result openingQuestion
	if err := decodeValidated(raw, schemas.OpeningQuestion, &result); err != nil {
		return "", err
	}

	question := strings.TrimSpace(result.Question)
	if question == "" {
		return "", &GenerationError{Message: "empty question returned"}
	}
	return question, nil
}

// GenerateNextTurn sends the transcript plus a trailing instruction turn and
// returns the plain-text reply unchanged apart from surrounding whitespace.
func (g *LLMGateway) GenerateNextTurn(ctx context.Context, instruction string, history types.Transcript) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", &GenerationError{Message: "instruction prompt is required"}
	}
	if len(history) == 0 {
		return "", &GenerationError{Message: "transcript is required"}
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:  string(turn.Role),
			Parts: append([]string(nil), turn.Parts...),
		})
	}
	messages = append(messages, llm.Message{
		Role:  string(types.RoleUser),
		Parts: []string{instruction},
	})

	text, err := g.client.GenerateChat(ctx, messages, llm.TierLite)
	if err != nil {
		return "", &GenerationError{Message: "next question request failed", Cause: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &GenerationError{Message: "empty question returned"}
	}

	return text, nil
}

// GenerateFeedback requests the feedback object and validates its shape.
func (g *LLMGateway) GenerateFeedback(ctx context.Context, prompt string) (*types.Feedback, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &GenerationError{Message: "feedback prompt is required"}
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &GenerationError{Message: "feedback request failed", Cause: err}
	}

	var feedback types.Feedback
	if err := decodeValidated(raw, schemas.Feedback, &feedback); err != nil {
		return nil, err
	}

	return &feedback, nil
}

// decodeValidated strips code fences, checks the document against an embedded
// schema, then decodes it into out.
func decodeValidated(raw, schemaName string, out any) error {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return &GenerationError{Message: "empty response"}
	}

	if err := schemas.Validate(schemaName, cleaned); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return &GenerationError{Message: "schema unavailable", Cause: err}
		}
		return &ParseError{Message: "response does not match " + schemaName + " schema", Cause: err}
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &ParseError{Message: "failed to decode " + schemaName, Cause: err}
	}

	return nil
}
