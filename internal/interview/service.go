// Package interview implements the turn-based mock interview engine: the
// state machine that drives the conversation, the gateway to the text
// generation capability, and feedback synthesis.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/types"
)

// EndSentinel is returned by SubmitAnswer when the answer completed the interview.
const EndSentinel = "END"

// Service coordinates the store, the gateway and per-interview locking.
type Service struct {
	store   Store
	gateway Gateway
	locker  Locker
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocker replaces the default in-process KeyedMutex.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new interview service.
func NewService(store Store, gateway Gateway, opts ...Option) *Service {
	s := &Service{
		store:   store,
		gateway: gateway,
		locker:  NewKeyedMutex(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new interview and asks the opening question.
//
// The interview is persisted before generation. If generation fails, the
// persisted interview (empty transcript, stage awaiting-question) is returned
// together with the error so the caller can inspect it or call RetryQuestion.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *types.CreateInterviewRequest) (*types.Interview, string, error) {
	if req == nil {
		return nil, "", &ValidationError{Field: "request", Message: "is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, "", toValidationError(err)
	}

	cfg := req.Config()
	cfg.ResumeData = ingestion.CleanText(cfg.ResumeData)

	now := s.now()
	iv := &types.Interview{
		ID:              uuid.New(),
		UserID:          userID,
		InterviewConfig: cfg,
		Transcript:      types.Transcript{},
		Status:          types.StatusInProgress,
		Stage:           types.StageAwaitingQuestion,
		StartedAt:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	unlock, err := s.locker.Lock(ctx, iv.ID.String())
	if err != nil {
		return nil, "", fmt.Errorf("failed to lock interview: %w", err)
	}
	defer unlock()

	if err := s.store.CreateInterview(ctx, iv); err != nil {
		return nil, "", fmt.Errorf("failed to create interview: %w", err)
	}
	log.Printf("[interview] created %s for user %s (%s, %d questions)", iv.ID, userID, iv.InterviewType, iv.TotalQuestions)

	question, err := s.askOpening(ctx, iv)
	if err != nil {
		return iv, "", err
	}
	return iv, question, nil
}

// SubmitAnswer records an answer and returns the next question, or EndSentinel
// once the number of answers exceeds the configured question count.
func (s *Service) SubmitAnswer(ctx context.Context, userID, id uuid.UUID, answer string) (*types.SubmitAnswerResponse, error) {
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to lock interview: %w", err)
	}
	defer unlock()

	iv, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, &ValidationError{Field: "answer", Message: "is required"}
	}

	switch {
	case iv.Status.IsTerminal():
		return nil, &ConflictError{Message: fmt.Sprintf("interview is %s", iv.Status)}
	case iv.Stage == types.StageAwaitingQuestion || len(iv.Transcript) < 2:
		return nil, &ConflictError{Message: "interview is awaiting a question; retry question generation first"}
	}

	iv.Transcript.Append(types.RoleUser, answer)

	if iv.TotalQuestions*2 < len(iv.Transcript) {
		s.complete(iv)
		if err := s.save(ctx, iv); err != nil {
			return nil, err
		}
		log.Printf("[interview] %s completed after %d answers", iv.ID, iv.Transcript.Answers())
		return &types.SubmitAnswerResponse{NextQuestion: EndSentinel, Completed: true}, nil
	}

	question, err := s.askNext(ctx, iv)
	if err != nil {
		return nil, err
	}
	return &types.SubmitAnswerResponse{NextQuestion: question}, nil
}

// RetryQuestion regenerates the question that a failed Create or SubmitAnswer
// could not produce.
func (s *Service) RetryQuestion(ctx context.Context, userID, id uuid.UUID) (string, error) {
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return "", fmt.Errorf("failed to lock interview: %w", err)
	}
	defer unlock()

	iv, err := s.load(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if iv.Status.IsTerminal() {
		return "", &ConflictError{Message: fmt.Sprintf("interview is %s", iv.Status)}
	}
	if iv.Stage != types.StageAwaitingQuestion {
		return "", &ConflictError{Message: "interview is not awaiting a question"}
	}

	if len(iv.Transcript) == 0 {
		return s.askOpening(ctx, iv)
	}
	return s.askNext(ctx, iv)
}

// GenerateFeedback synthesizes feedback from the transcript and completes the
// interview. On failure the interview is left untouched.
func (s *Service) GenerateFeedback(ctx context.Context, userID, id uuid.UUID) (*types.Feedback, error) {
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to lock interview: %w", err)
	}
	defer unlock()

	iv, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if iv.Status == types.StatusAborted {
		return nil, &ConflictError{Message: "interview was aborted"}
	}

	prompt := FeedbackPrompt(iv.InterviewConfig, RenderTranscript(iv.Transcript))
	feedback, err := s.gateway.GenerateFeedback(ctx, prompt)
	if err != nil {
		log.Printf("[interview] feedback generation failed for %s: %v", iv.ID, err)
		return nil, err
	}

	iv.Feedback = feedback
	s.complete(iv)
	if err := s.save(ctx, iv); err != nil {
		return nil, err
	}
	log.Printf("[interview] feedback stored for %s", iv.ID)
	return feedback, nil
}

// GetFeedback returns stored feedback without generating it.
func (s *Service) GetFeedback(ctx context.Context, userID, id uuid.UUID) (*types.Feedback, error) {
	iv, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if iv.Feedback == nil {
		return nil, &NotFoundError{Resource: "feedback", ID: id}
	}
	return iv.Feedback, nil
}

// Get returns one interview owned by userID.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*types.Interview, error) {
	return s.load(ctx, userID, id)
}

// List returns the caller's interviews, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]types.Interview, error) {
	interviews, err := s.store.ListInterviewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	if interviews == nil {
		interviews = []types.Interview{}
	}
	return interviews, nil
}

// Delete removes an interview owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return fmt.Errorf("failed to lock interview: %w", err)
	}
	defer unlock()

	if _, err := s.load(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteInterview(ctx, id); err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	log.Printf("[interview] deleted %s", id)
	return nil
}

// askOpening generates the first question for an interview with an empty
// transcript. The caller must hold the interview lock.
func (s *Service) askOpening(ctx context.Context, iv *types.Interview) (string, error) {
	prompt := OpeningPrompt(iv.InterviewConfig)

	question, err := s.gateway.GenerateOpeningTurn(ctx, prompt)
	if err != nil {
		log.Printf("[interview] opening question failed for %s: %v", iv.ID, err)
		return "", err
	}

	next := *iv
	next.Transcript = iv.Transcript.Clone()
	next.Transcript.Append(types.RoleUser, prompt)
	next.Transcript.Append(types.RoleModel, question)
	next.Stage = types.StageAwaitingAnswer
	if err := s.save(ctx, &next); err != nil {
		return "", err
	}
	*iv = next
	return question, nil
}

// askNext generates the question that follows the trailing answer. On failure
// the answer stays in the transcript and the stage becomes awaiting-question.
// The caller must hold the interview lock.
func (s *Service) askNext(ctx context.Context, iv *types.Interview) (string, error) {
	question, genErr := s.gateway.GenerateNextTurn(ctx, NextQuestionPrompt(), iv.Transcript)
	if genErr != nil {
		log.Printf("[interview] next question failed for %s: %v", iv.ID, genErr)
		iv.Stage = types.StageAwaitingQuestion
		if err := s.save(ctx, iv); err != nil {
			return "", err
		}
		return "", genErr
	}

	iv.Transcript.Append(types.RoleModel, question)
	iv.Stage = types.StageAwaitingAnswer
	if err := s.save(ctx, iv); err != nil {
		return "", err
	}
	return question, nil
}

// complete moves the interview to its terminal state. EndedAt is set once.
func (s *Service) complete(iv *types.Interview) {
	iv.Status = types.StatusCompleted
	iv.Stage = types.StageAwaitingAnswer
	if iv.EndedAt == nil {
		ended := s.now()
		iv.EndedAt = &ended
	}
}

// load fetches an interview and checks ownership.
func (s *Service) load(ctx context.Context, userID, id uuid.UUID) (*types.Interview, error) {
	iv, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil {
		return nil, &NotFoundError{Resource: "interview", ID: id}
	}
	if iv.UserID != userID {
		return nil, &ForbiddenError{InterviewID: id}
	}
	return iv, nil
}

func (s *Service) save(ctx context.Context, iv *types.Interview) error {
	iv.UpdatedAt = s.now()
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		if errors.Is(err, types.ErrVersionConflict) {
			return &ConflictError{Message: "interview was modified concurrently", Cause: err}
		}
		return fmt.Errorf("failed to save interview: %w", err)
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: describeTag(fe)}
	}
	return &ValidationError{Field: "request", Message: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fe.Tag()
	}
}
