package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededTranscript() Transcript {
	var tr Transcript
	tr.Append(RoleUser, "seed prompt")
	tr.Append(RoleModel, "question 1")
	return tr
}

func TestTranscript_AppendAndCount(t *testing.T) {
	tr := seededTranscript()
	tr.Append(RoleUser, "answer 1")

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 1, tr.Questions())
	assert.Equal(t, 1, tr.Answers())

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, RoleUser, last.Role)
	assert.Equal(t, "answer 1", last.Text())
}

func TestTranscript_Answers_Empty(t *testing.T) {
	var tr Transcript
	assert.Equal(t, 0, tr.Answers())
	_, ok := tr.Last()
	assert.False(t, ok)
}

func TestTranscript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() Transcript
		wantErr bool
	}{
		{
			name:  "empty",
			build: func() Transcript { return nil },
		},
		{
			name:  "seeded",
			build: seededTranscript,
		},
		{
			name: "dangling answer",
			build: func() Transcript {
				tr := seededTranscript()
				tr.Append(RoleUser, "answer")
				return tr
			},
		},
		{
			name: "starts with model",
			build: func() Transcript {
				var tr Transcript
				tr.Append(RoleModel, "question")
				return tr
			},
			wantErr: true,
		},
		{
			name: "two answers in a row",
			build: func() Transcript {
				tr := seededTranscript()
				tr.Append(RoleUser, "a")
				tr.Append(RoleUser, "b")
				return tr
			},
			wantErr: true,
		},
		{
			name: "turn without parts",
			build: func() Transcript {
				return Transcript{{Role: RoleUser}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTurn_TextJoinsParts(t *testing.T) {
	turn := Turn{Role: RoleModel, Parts: []string{"first", "second"}}
	assert.Equal(t, "first second", turn.Text())
}

func TestTranscript_CloneIsIndependent(t *testing.T) {
	tr := seededTranscript()
	clone := tr.Clone()
	clone[0].Parts[0] = "changed"
	clone.Append(RoleUser, "extra")

	assert.Equal(t, "seed prompt", tr[0].Parts[0])
	assert.Equal(t, 2, tr.Len())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusAborted.IsTerminal())
}

func TestCreateInterviewRequest_ConfigDefaults(t *testing.T) {
	req := CreateInterviewRequest{
		JobRole:       "Backend Engineer",
		Experience:    "3",
		TopicsToFocus: "Node.js",
		InterviewType: "technical",
	}
	cfg := req.Config()
	assert.Equal(t, DefaultTotalQuestions, cfg.TotalQuestions)
	assert.Equal(t, InterviewTypeTechnical, cfg.InterviewType)

	req.TotalQuestions = 5
	assert.Equal(t, 5, req.Config().TotalQuestions)
}
