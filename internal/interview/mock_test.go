package interview

import (
	"context"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

// MockGateway implements Gateway for testing
type MockGateway struct {
	OpeningFunc  func(ctx context.Context, prompt string) (string, error)
	NextFunc     func(ctx context.Context, instruction string, history types.Transcript) (string, error)
	FeedbackFunc func(ctx context.Context, prompt string) (*types.Feedback, error)

	OpeningCalls  int
	NextCalls     int
	FeedbackCalls int
}

func (m *MockGateway) GenerateOpeningTurn(ctx context.Context, prompt string) (string, error) {
	m.OpeningCalls++
	if m.OpeningFunc != nil {
		return m.OpeningFunc(ctx, prompt)
	}
	return "Tell me about yourself.", nil
}

func (m *MockGateway) GenerateNextTurn(ctx context.Context, instruction string, history types.Transcript) (string, error) {
	m.NextCalls++
	if m.NextFunc != nil {
		return m.NextFunc(ctx, instruction, history)
	}
	return "What is the event loop?", nil
}

func (m *MockGateway) GenerateFeedback(ctx context.Context, prompt string) (*types.Feedback, error) {
	m.FeedbackCalls++
	if m.FeedbackFunc != nil {
		return m.FeedbackFunc(ctx, prompt)
	}
	return &types.Feedback{
		Summary:             "Solid fundamentals.",
		Strengths:           []string{"Clear communication"},
		AreasForImprovement: []string{"Depth on concurrency"},
		ActionableAdvice:    []string{"Practice system design"},
	}, nil
}

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateChatFunc    func(ctx context.Context, history []llm.Message, tier llm.ModelTier) (string, error)

	ChatCalls int
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"title": "Intro", "question": "Mock question"}`, nil
}

func (m *MockLLMClient) GenerateChat(ctx context.Context, history []llm.Message, tier llm.ModelTier) (string, error) {
	m.ChatCalls++
	if m.GenerateChatFunc != nil {
		return m.GenerateChatFunc(ctx, history, tier)
	}
	return "Mock follow-up", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

func backendRequest() *types.CreateInterviewRequest {
	return &types.CreateInterviewRequest{
		JobRole:        "Backend Engineer",
		Experience:     "3",
		TopicsToFocus:  "Node.js",
		InterviewType:  "technical",
		TotalQuestions: 2,
	}
}
