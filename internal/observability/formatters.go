// Package observability provides formatted terminal output for the practice CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the interactive interview
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestion outputs one interviewer question. number is 1-based.
func (p *Printer) PrintQuestion(number, total int, question string) {
	title := fmt.Sprintf("QUESTION %d", number)
	if total > 0 {
		title = fmt.Sprintf("QUESTION %d OF %d", number, total)
	}
	p.printBox(title, strings.TrimSpace(question))
}

// PrintFeedback outputs the final assessment.
func (p *Printer) PrintFeedback(feedback *types.Feedback) {
	if feedback == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(feedback.Summary))
	sb.WriteString("\n")

	writeList(&sb, "Strengths", feedback.Strengths)
	writeList(&sb, "Areas for Improvement", feedback.AreasForImprovement)
	writeList(&sb, "Actionable Advice", feedback.ActionableAdvice)

	p.printBox("INTERVIEW FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterviewSummary outputs the interview configuration and progress.
func (p *Printer) PrintInterviewSummary(iv *types.Interview) {
	if iv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", iv.JobRole))
	sb.WriteString(fmt.Sprintf("Type:       %s\n", iv.InterviewType))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", iv.Experience))
	sb.WriteString(fmt.Sprintf("Topics:     %s\n", iv.TopicsToFocus))
	sb.WriteString(fmt.Sprintf("Answered:   %d of %d\n", iv.Transcript.CountRole(types.RoleUser)-seedTurns(iv), iv.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Status:     %s", iv.Status))
	if iv.EndedAt != nil {
		sb.WriteString(fmt.Sprintf(" (%s)", iv.EndedAt.Sub(iv.StartedAt).Round(time.Second)))
	}

	p.printBox("MOCK INTERVIEW", sb.String())
}

// seedTurns is 1 once the hidden opening prompt has been written.
func seedTurns(iv *types.Interview) int {
	if len(iv.Transcript) > 0 {
		return 1
	}
	return 0
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", heading))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// wrap splits s into lines of at most width runes, breaking on spaces where possible.
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	indent := s[:len(s)-len(strings.TrimLeft(s, " "))]
	if len(indent) >= width/2 {
		indent = ""
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		for utf8.RuneCountInString(word) > width-len(indent) {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			runes := []rune(word)
			cut := width - len(indent)
			lines = append(lines, indent+string(runes[:cut]))
			word = string(runes[cut:])
		}
		switch {
		case line == "":
			line = indent + word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = indent + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
