package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMGateway_GenerateOpeningTurn(t *testing.T) {
	tests := []struct {
		name     string
		response string
		respErr  error
		want     string
		wantErr  any
	}{
		{
			name:     "bare json",
			response: `{"title": "Warmup", "question": "Explain closures in JavaScript."}`,
			want:     "Explain closures in JavaScript.",
		},
		{
			name:     "fenced json",
			response: "```json\n{\"title\": \"Warmup\", \"question\": \"What is libuv?\"}\n```",
			want:     "What is libuv?",
		},
		{
			name:     "missing question",
			response: `{"title": "Warmup"}`,
			wantErr:  &ParseError{},
		},
		{
			name:     "not json",
			response: "Sure! Here is a question.",
			wantErr:  &ParseError{},
		},
		{
			name:     "blank question",
			response: `{"question": "   "}`,
			wantErr:  &GenerationError{},
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  &GenerationError{},
		},
		{
			name:    "transport error",
			respErr: errors.New("connection reset"),
			wantErr: &GenerationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTier llm.ModelTier
			client := &MockLLMClient{
				GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
					gotTier = tier
					return tt.response, tt.respErr
				},
			}
			gw := NewLLMGateway(client)

			got, err := gw.GenerateOpeningTurn(context.Background(), "seed prompt")
			assert.Equal(t, llm.TierStandard, gotTier)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case *ParseError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *GenerationError:
				assert.True(t, errors.As(err, &want), "got %v", err)
			}
		})
	}
}

func TestLLMGateway_GenerateNextTurn(t *testing.T) {
	history := types.Transcript{}
	history.Append(types.RoleUser, "seed")
	history.Append(types.RoleModel, "q1")
	history.Append(types.RoleUser, "a1")

	var sent []llm.Message
	client := &MockLLMClient{
		GenerateChatFunc: func(_ context.Context, msgs []llm.Message, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierLite, tier)
			sent = msgs
			return "  ```What about streams?```  ", nil
		},
	}
	gw := NewLLMGateway(client)

	got, err := gw.GenerateNextTurn(context.Background(), "ask next", history)
	require.NoError(t, err)
	assert.Equal(t, "```What about streams?```", got, "plain text path keeps fences")

	require.Len(t, sent, 4)
	assert.Equal(t, "user", sent[0].Role)
	assert.Equal(t, "model", sent[1].Role)
	assert.Equal(t, "user", sent[3].Role)
	assert.Equal(t, []string{"ask next"}, sent[3].Parts)
	assert.Len(t, history, 3, "history must not be modified")
}

func TestLLMGateway_GenerateNextTurn_FailsFast(t *testing.T) {
	client := &MockLLMClient{}
	gw := NewLLMGateway(client)

	history := types.Transcript{}
	history.Append(types.RoleUser, "seed")

	_, err := gw.GenerateNextTurn(context.Background(), "", history)
	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))

	_, err = gw.GenerateNextTurn(context.Background(), "ask next", nil)
	assert.True(t, errors.As(err, &genErr))

	assert.Zero(t, client.ChatCalls)
}

func TestLLMGateway_GenerateNextTurn_EmptyReply(t *testing.T) {
	client := &MockLLMClient{
		GenerateChatFunc: func(_ context.Context, _ []llm.Message, _ llm.ModelTier) (string, error) {
			return "   ", nil
		},
	}
	history := types.Transcript{}
	history.Append(types.RoleUser, "seed")

	_, err := NewLLMGateway(client).GenerateNextTurn(context.Background(), "ask next", history)
	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestLLMGateway_GenerateFeedback(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			assert.Equal(t, llm.TierAdvanced, tier)
			return "```json\n" + `{
				"feedback": "Good grasp of async patterns.",
				"strengths": ["Event loop"],
				"areasForImprovement": ["Error handling"],
				"actionableAdvice": ["Read about backpressure"]
			}` + "\n```", nil
		},
	}

	fb, err := NewLLMGateway(client).GenerateFeedback(context.Background(), "feedback prompt")
	require.NoError(t, err)
	assert.Equal(t, "Good grasp of async patterns.", fb.Summary)
	assert.Equal(t, []string{"Event loop"}, fb.Strengths)
	assert.Equal(t, []string{"Error handling"}, fb.AreasForImprovement)
	assert.Equal(t, []string{"Read about backpressure"}, fb.ActionableAdvice)
}

func TestLLMGateway_GenerateFeedback_SchemaMismatch(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"feedback": "ok", "strengths": "not a list"}`, nil
		},
	}

	fb, err := NewLLMGateway(client).GenerateFeedback(context.Background(), "feedback prompt")
	assert.Nil(t, fb)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
