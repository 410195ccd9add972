package quiz

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

// MemoryStore is an in-process Catalog, used for tests and for running
// without a database (QUIZ_STORE=memory).
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]*Quiz
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]*Quiz)}
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (*Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *MemoryStore) ListQuizzes(_ context.Context) ([]*Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ListSummaries(ctx context.Context) ([]types.QuizSummary, error) {
	quizzes, err := m.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.QuizSummary, len(quizzes))
	for i, q := range quizzes {
		summaries[i] = q.Summary()
	}
	return summaries, nil
}

func (m *MemoryStore) CreateQuiz(_ context.Context, q *Quiz) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	cp.ID = uuid.NewString()
	m.quizzes[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemoryStore) UpdateQuiz(_ context.Context, q *Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[q.ID]; !ok {
		return ErrNotFound
	}
	cp := *q
	m.quizzes[q.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(m.quizzes, id)
	return nil
}
