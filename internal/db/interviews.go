package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/types"
)

// -----------------------------------------------------------------------------
// Interview Methods
// -----------------------------------------------------------------------------

const interviewColumns = `id, user_id, job_role, experience, topics_to_focus, interview_type,
	resume_data, total_questions, transcript, status, stage, feedback,
	started_at, ended_at, version, created_at, updated_at`

// CreateInterview inserts a new interview. A nil ID is replaced with a new UUID
// and the version starts at 1.
func (db *DB) CreateInterview(ctx context.Context, iv *types.Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	iv.Version = 1

	transcriptJSON, feedbackJSON, err := marshalDocuments(iv)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO interviews (id, user_id, job_role, experience, topics_to_focus, interview_type,
		        resume_data, total_questions, transcript, status, stage, feedback,
		        started_at, ended_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at, updated_at`,
		iv.ID, iv.UserID, iv.JobRole, iv.Experience, iv.TopicsToFocus, string(iv.InterviewType),
		iv.ResumeData, iv.TotalQuestions, transcriptJSON, string(iv.Status), string(iv.Stage), feedbackJSON,
		iv.StartedAt, iv.EndedAt, iv.Version,
	).Scan(&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview by ID; returns nil, nil when not found
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`,
		id,
	)
	iv, err := scanInterview(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// ListInterviewsByUser returns a user's interviews, newest first
func (db *DB) ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []types.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return interviews, nil
}

// UpdateInterview writes the mutable fields of an interview if the stored
// version still matches iv.Version. On success iv.Version is incremented;
// a mismatch returns types.ErrVersionConflict.
func (db *DB) UpdateInterview(ctx context.Context, iv *types.Interview) error {
	transcriptJSON, feedbackJSON, err := marshalDocuments(iv)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE interviews
		 SET transcript = $1, status = $2, stage = $3, feedback = $4, ended_at = $5,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $6 AND version = $7
		 RETURNING version, updated_at`,
		transcriptJSON, string(iv.Status), string(iv.Stage), feedbackJSON, iv.EndedAt,
		iv.ID, iv.Version,
	).Scan(&iv.Version, &iv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.ErrVersionConflict
		}
		return fmt.Errorf("failed to update interview: %w", err)
	}
	return nil
}

// DeleteInterview removes an interview; deleting a missing row is not an error
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	return nil
}

func marshalDocuments(iv *types.Interview) ([]byte, []byte, error) {
	transcript := iv.Transcript
	if transcript == nil {
		transcript = types.Transcript{}
	}
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}

	var feedbackJSON []byte
	if iv.Feedback != nil {
		feedbackJSON, err = json.Marshal(iv.Feedback)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal feedback: %w", err)
		}
	}
	return transcriptJSON, feedbackJSON, nil
}

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var (
		iv             types.Interview
		interviewType  string
		status         string
		stage          string
		transcriptJSON []byte
		feedbackJSON   []byte
	)

	err := row.Scan(&iv.ID, &iv.UserID, &iv.JobRole, &iv.Experience, &iv.TopicsToFocus, &interviewType,
		&iv.ResumeData, &iv.TotalQuestions, &transcriptJSON, &status, &stage, &feedbackJSON,
		&iv.StartedAt, &iv.EndedAt, &iv.Version, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}

	iv.InterviewType = types.InterviewType(interviewType)
	iv.Status = types.Status(status)
	iv.Stage = types.Stage(stage)

	if err := decodeDocuments(&iv, transcriptJSON, feedbackJSON); err != nil {
		return nil, err
	}
	return &iv, nil
}

func decodeDocuments(iv *types.Interview, transcriptJSON, feedbackJSON []byte) error {
	iv.Transcript = types.Transcript{}
	if len(transcriptJSON) > 0 {
		if err := json.Unmarshal(transcriptJSON, &iv.Transcript); err != nil {
			return fmt.Errorf("failed to decode transcript: %w", err)
		}
	}
	if len(feedbackJSON) > 0 {
		var fb types.Feedback
		if err := json.Unmarshal(feedbackJSON, &fb); err != nil {
			return fmt.Errorf("failed to decode feedback: %w", err)
		}
		iv.Feedback = &fb
	}
	return nil
}
