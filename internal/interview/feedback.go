package interview

import (
	"strings"

	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// NoHistoryPlaceholder is rendered when there are no turns beyond the seed prompt.
const NoHistoryPlaceholder = "No interview history available."

// RenderTranscript flattens a transcript into Q/A text for feedback generation.
// The first turn is always dropped; it holds the seed prompt.
func RenderTranscript(transcript types.Transcript) string {
	if len(transcript) <= 1 {
		return NoHistoryPlaceholder
	}

	lines := make([]string, 0, len(transcript)-1)
	for _, turn := range transcript[1:] {
		switch turn.Role {
		case types.RoleModel:
			lines = append(lines, "Q: "+turn.Text())
		case types.RoleUser:
			lines = append(lines, "A: "+turn.Text())
		}
	}

	return strings.Join(lines, "\n\n")
}

// OpeningPrompt builds the seed prompt that asks for the first question.
// It is stored verbatim as the first transcript turn.
func OpeningPrompt(cfg types.InterviewConfig) string {
	resumeSection := ""
	if strings.TrimSpace(cfg.ResumeData) != "" {
		resumeSection = "- Resume Data: " + cfg.ResumeData + "\n"
	}

	template := prompts.MustGet(prompts.InterviewFile, prompts.KeyOpeningQuestion)
	return prompts.Format(template, map[string]string{
		"JobRole":       cfg.JobRole,
		"Experience":    cfg.Experience,
		"InterviewType": string(cfg.InterviewType),
		"TopicsToFocus": cfg.TopicsToFocus,
		"ResumeSection": resumeSection,
	})
}

// NextQuestionPrompt returns the trailing instruction sent after the transcript.
func NextQuestionPrompt() string {
	return prompts.MustGet(prompts.InterviewFile, prompts.KeyNextQuestion)
}

// FeedbackPrompt embeds the rendered transcript into the feedback request.
func FeedbackPrompt(cfg types.InterviewConfig, renderedTranscript string) string {
	template := prompts.MustGet(prompts.InterviewFile, prompts.KeyFeedback)
	return prompts.Format(template, map[string]string{
		"JobRole":       cfg.JobRole,
		"Experience":    cfg.Experience,
		"InterviewType": string(cfg.InterviewType),
		"TopicsToFocus": cfg.TopicsToFocus,
		"Transcript":    renderedTranscript,
	})
}
