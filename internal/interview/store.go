package interview

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/types"
)

// Store persists interviews as whole documents.
//
// GetInterview returns (nil, nil) when the interview does not exist.
// UpdateInterview succeeds only if the stored version equals iv.Version; on
// success iv.Version is incremented, otherwise types.ErrVersionConflict is returned.
type Store interface {
	CreateInterview(ctx context.Context, iv *types.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error)
	ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Interview, error)
	UpdateInterview(ctx context.Context, iv *types.Interview) error
	DeleteInterview(ctx context.Context, id uuid.UUID) error
}

// MemoryStore is a Store held in process memory. It backs the practice
// command and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]types.Interview
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{interviews: make(map[uuid.UUID]types.Interview)}
}

func (m *MemoryStore) CreateInterview(_ context.Context, iv *types.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	if iv.Version == 0 {
		iv.Version = 1
	}
	m.interviews[iv.ID] = copyInterview(*iv)
	return nil
}

func (m *MemoryStore) GetInterview(_ context.Context, id uuid.UUID) (*types.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	iv, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	out := copyInterview(iv)
	return &out, nil
}

func (m *MemoryStore) ListInterviewsByUser(_ context.Context, userID uuid.UUID) ([]types.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.Interview
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			out = append(out, copyInterview(iv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) UpdateInterview(_ context.Context, iv *types.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.interviews[iv.ID]
	if !ok || current.Version != iv.Version {
		return types.ErrVersionConflict
	}
	iv.Version++
	m.interviews[iv.ID] = copyInterview(*iv)
	return nil
}

func (m *MemoryStore) DeleteInterview(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.interviews, id)
	return nil
}

func copyInterview(iv types.Interview) types.Interview {
	iv.Transcript = iv.Transcript.Clone()
	if iv.Feedback != nil {
		fb := *iv.Feedback
		fb.Strengths = append([]string(nil), fb.Strengths...)
		fb.AreasForImprovement = append([]string(nil), fb.AreasForImprovement...)
		fb.ActionableAdvice = append([]string(nil), fb.ActionableAdvice...)
		iv.Feedback = &fb
	}
	if iv.EndedAt != nil {
		ended := *iv.EndedAt
		iv.EndedAt = &ended
	}
	return iv
}
