package types

import (
	"fmt"
	"strings"
)

// Turn is one role-tagged utterance in a transcript.
// Parts mirrors the generation API shape; this system always writes exactly one part.
type Turn struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

// Text joins all parts of the turn with a single space.
func (t Turn) Text() string {
	return strings.Join(t.Parts, " ")
}

// Transcript is the ordered turn sequence of one interview.
// Turn 0 is the hidden seed prompt, turn 1 the first question; afterwards
// answers and questions alternate.
type Transcript []Turn

// Append adds a single-part turn.
func (t *Transcript) Append(role Role, text string) {
	*t = append(*t, Turn{Role: role, Parts: []string{text}})
}

// Len returns the number of turns.
func (t Transcript) Len() int {
	return len(t)
}

// CountRole returns the number of turns with the given role.
func (t Transcript) CountRole(role Role) int {
	n := 0
	for _, turn := range t {
		if turn.Role == role {
			n++
		}
	}
	return n
}

// Last returns the final turn, or false if the transcript is empty.
func (t Transcript) Last() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

// Questions returns the number of questions asked so far.
func (t Transcript) Questions() int {
	return t.CountRole(RoleModel)
}

// Answers returns the number of candidate answers, excluding the seed turn.
func (t Transcript) Answers() int {
	n := t.CountRole(RoleUser)
	if n > 0 {
		n--
	}
	return n
}

// Validate checks that turns alternate user, model, user, model...
// and that every turn carries at least one part.
func (t Transcript) Validate() error {
	for i, turn := range t {
		want := RoleUser
		if i%2 == 1 {
			want = RoleModel
		}
		if turn.Role != want {
			return fmt.Errorf("turn %d: expected role %q, got %q", i, want, turn.Role)
		}
		if len(turn.Parts) == 0 {
			return fmt.Errorf("turn %d: no content", i)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	for i, turn := range t {
		out[i] = Turn{Role: turn.Role, Parts: append([]string(nil), turn.Parts...)}
	}
	return out
}
