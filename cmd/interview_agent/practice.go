package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

// endCommand stops the interview early and asks for feedback on the answers so far.
const endCommand = "/end"

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview in the terminal",
	Long: `Run a mock interview interactively. Each question is printed and one line of
input is read as the answer. Type /end to stop early; feedback is generated
from the answers given so far. Nothing is persisted.`,
	RunE: runPractice,
}

var (
	practiceRole       string
	practiceExperience string
	practiceTopics     string
	practiceType       string
	practiceQuestions  int
	practiceResumeFile string
	practiceAPIKey     string
	practiceRetries    int
)

func init() {
	practiceCmd.Flags().StringVar(&practiceRole, "role", "", "Job role to interview for (required)")
	practiceCmd.Flags().StringVar(&practiceExperience, "experience", "", "Candidate experience level (required)")
	practiceCmd.Flags().StringVar(&practiceTopics, "topics", "", "Topics to focus on (required)")
	practiceCmd.Flags().StringVar(&practiceType, "type", string(types.InterviewTypeTechnical), "Interview type: technical, behavioral, hr or mixed")
	practiceCmd.Flags().IntVarP(&practiceQuestions, "questions", "n", types.DefaultTotalQuestions, "Number of questions")
	practiceCmd.Flags().StringVar(&practiceResumeFile, "resume", "", "Path to a plain-text resume to tailor questions to")
	practiceCmd.Flags().StringVar(&practiceAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	practiceCmd.Flags().IntVar(&practiceRetries, "retries", 2, "Retries per failed generation call")

	_ = practiceCmd.MarkFlagRequired("role")
	_ = practiceCmd.MarkFlagRequired("experience")
	_ = practiceCmd.MarkFlagRequired("topics")

	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	apiKey := practiceAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	req := &types.CreateInterviewRequest{
		JobRole:        practiceRole,
		Experience:     practiceExperience,
		TopicsToFocus:  practiceTopics,
		InterviewType:  practiceType,
		TotalQuestions: practiceQuestions,
	}
	if practiceResumeFile != "" {
		resume, err := ingestion.ReadResumeFile(practiceResumeFile)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		req.ResumeData = resume
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, llmConfig(cfg), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	service := interview.NewService(interview.NewMemoryStore(), interview.NewLLMGateway(client))
	session := newPracticeSession(service, os.Stdin, os.Stdout, practiceRetries)
	return session.run(ctx, req)
}

// practiceSession drives one interview from a line-oriented reader.
type practiceSession struct {
	service *interview.Service
	printer *observability.Printer
	in      *bufio.Scanner
	out     io.Writer
	userID  uuid.UUID
	retries int
}

func newPracticeSession(service *interview.Service, in io.Reader, out io.Writer, retries int) *practiceSession {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &practiceSession{
		service: service,
		printer: observability.NewPrinter(out),
		in:      scanner,
		out:     out,
		userID:  uuid.New(),
		retries: max(0, retries),
	}
}

func (s *practiceSession) run(ctx context.Context, req *types.CreateInterviewRequest) error {
	iv, question, err := s.service.Create(ctx, s.userID, req)
	if err != nil {
		if iv == nil {
			return err
		}
		if question, err = s.retryQuestion(ctx, iv.ID, err); err != nil {
			return err
		}
	}
	s.printer.PrintInterviewSummary(iv)

	number := 1
	for {
		s.printer.PrintQuestion(number, iv.TotalQuestions, question)

		answer, ok := s.readAnswer()
		if !ok || answer == endCommand {
			s.printf("Ending interview early.\n")
			break
		}

		resp, err := s.service.SubmitAnswer(ctx, s.userID, iv.ID, answer)
		if err != nil {
			var validationErr *interview.ValidationError
			switch {
			case errors.As(err, &validationErr):
				s.printf("Please type an answer, or %s to finish.\n", endCommand)
				continue
			case isRetryable(err):
				if question, err = s.retryQuestion(ctx, iv.ID, err); err != nil {
					return err
				}
				number++
				continue
			default:
				return err
			}
		}
		if resp.Completed {
			break
		}
		question = resp.NextQuestion
		number++
	}

	s.printf("Generating feedback...\n")
	feedback, err := s.generateFeedback(ctx, iv.ID)
	if err != nil {
		return err
	}
	s.printer.PrintFeedback(feedback)

	final, err := s.service.Get(ctx, s.userID, iv.ID)
	if err != nil {
		return err
	}
	s.printer.PrintInterviewSummary(final)
	return nil
}

// readAnswer returns the next non-empty line. ok is false at end of input.
func (s *practiceSession) readAnswer() (string, bool) {
	for {
		s.printf("> ")
		if !s.in.Scan() {
			return "", false
		}
		if line := strings.TrimSpace(s.in.Text()); line != "" {
			return line, true
		}
	}
}

func (s *practiceSession) retryQuestion(ctx context.Context, id uuid.UUID, cause error) (string, error) {
	for attempt := 1; attempt <= s.retries && isRetryable(cause); attempt++ {
		s.printf("Question generation failed: %v\nRetrying (%d/%d)...\n", cause, attempt, s.retries)
		question, err := s.service.RetryQuestion(ctx, s.userID, id)
		if err == nil {
			return question, nil
		}
		cause = err
	}
	return "", cause
}

func (s *practiceSession) generateFeedback(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	feedback, err := s.service.GenerateFeedback(ctx, s.userID, id)
	for attempt := 1; err != nil && attempt <= s.retries && isRetryable(err); attempt++ {
		s.printf("Feedback generation failed: %v\nRetrying (%d/%d)...\n", err, attempt, s.retries)
		feedback, err = s.service.GenerateFeedback(ctx, s.userID, id)
	}
	return feedback, err
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (s *practiceSession) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func isRetryable(err error) bool {
	var generationErr *interview.GenerationError
	var parseErr *interview.ParseError
	return errors.As(err, &generationErr) || errors.As(err, &parseErr)
}
