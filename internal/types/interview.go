// Package types provides type definitions for structured data used throughout the interview coach.
package types

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Role tags a transcript turn with its speaker.
type Role string

const (
	// RoleUser marks candidate answers and the hidden seed prompt
	RoleUser Role = "user"
	// RoleModel marks questions asked by the AI interviewer
	RoleModel Role = "model"
)

// InterviewType enumerates the supported interview styles.
type InterviewType string

const (
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeBehavioral InterviewType = "behavioral"
	InterviewTypeHR         InterviewType = "hr"
	InterviewTypeMixed      InterviewType = "mixed"
)

// Status is the lifecycle state of an interview.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	// StatusAborted is reserved for administrative use; no interview operation sets it.
	StatusAborted Status = "aborted"
)

// IsTerminal reports whether no further turns may be added.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

// Stage refines StatusInProgress with what the conversation is waiting for.
type Stage string

const (
	// StageAwaitingAnswer means the last turn is a question (or the interview is finished).
	StageAwaitingAnswer Stage = "awaiting-answer"
	// StageAwaitingQuestion means question generation failed and must be retried.
	StageAwaitingQuestion Stage = "awaiting-question"
)

// DefaultTotalQuestions is used when a create request omits total_questions.
const DefaultTotalQuestions = 2

// ErrVersionConflict is returned by stores when a write lost an optimistic concurrency race.
var ErrVersionConflict = errors.New("interview was modified concurrently")

// InterviewConfig is the immutable configuration captured at creation.
type InterviewConfig struct {
	JobRole        string        `json:"job_role"`
	Experience     string        `json:"experience"`
	TopicsToFocus  string        `json:"topics_to_focus"`
	InterviewType  InterviewType `json:"interview_type"`
	ResumeData     string        `json:"resume_data,omitempty"`
	TotalQuestions int           `json:"total_questions"`
}

// Interview is one mock interview session owned by a single user.
type Interview struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	InterviewConfig
	Transcript Transcript `json:"transcript"`
	Status     Status     `json:"status"`
	Stage      Stage      `json:"stage"`
	Feedback   *Feedback  `json:"feedback,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Feedback is the structured assessment produced at the end of an interview.
type Feedback struct {
	Summary             string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	ActionableAdvice    []string `json:"actionableAdvice"`
}

// CreateInterviewRequest is the payload for starting a new interview.
type CreateInterviewRequest struct {
	JobRole        string `json:"job_role" validate:"required"`
	Experience     string `json:"experience" validate:"required"`
	TopicsToFocus  string `json:"topics_to_focus" validate:"required"`
	InterviewType  string `json:"interview_type" validate:"required,oneof=technical behavioral hr mixed"`
	ResumeData     string `json:"resume_data,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty" validate:"omitempty,min=1,max=50"`
}

// Config converts the request into an InterviewConfig, applying defaults.
func (r *CreateInterviewRequest) Config() InterviewConfig {
	total := r.TotalQuestions
	if total == 0 {
		total = DefaultTotalQuestions
	}
	return InterviewConfig{
		JobRole:        r.JobRole,
		Experience:     r.Experience,
		TopicsToFocus:  r.TopicsToFocus,
		InterviewType:  InterviewType(r.InterviewType),
		ResumeData:     r.ResumeData,
		TotalQuestions: total,
	}
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	return requestValidator.Struct(r)
}

// SubmitAnswerRequest carries a candidate answer.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// Validate validates the SubmitAnswerRequest using the validator.
func (r *SubmitAnswerRequest) Validate() error {
	return requestValidator.Struct(r)
}

// SubmitAnswerResponse is returned after an answer is recorded.
// NextQuestion is "END" once the interview has completed.
type SubmitAnswerResponse struct {
	NextQuestion string `json:"next_question"`
	Completed    bool   `json:"completed"`
}

// CreateInterviewResponse is returned after an interview is started.
type CreateInterviewResponse struct {
	Interview *Interview `json:"interview"`
	Question  string     `json:"question"`
}

// requestValidator reports field errors under their JSON names.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
