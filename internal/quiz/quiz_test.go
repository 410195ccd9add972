package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuiz() *Quiz {
	return &Quiz{
		Name: "Geography",
		Questions: []Question{
			{Text: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice"}, CorrectAnswer: 0},
			{Text: "Longest river?", Options: []string{"Nile", "Amazon"}, CorrectAnswer: 1},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Quiz)
		wantErr string
	}{
		{name: "valid", mutate: func(q *Quiz) {}},
		{
			name:    "missing name",
			mutate:  func(q *Quiz) { q.Name = "" },
			wantErr: "quiz name is required",
		},
		{
			name:    "no questions",
			mutate:  func(q *Quiz) { q.Questions = nil },
			wantErr: "quiz must have at least one question",
		},
		{
			name:    "empty question text",
			mutate:  func(q *Quiz) { q.Questions[1].Text = "" },
			wantErr: "invalid question structure in question 2",
		},
		{
			name:    "single option",
			mutate:  func(q *Quiz) { q.Questions[0].Options = []string{"Paris"} },
			wantErr: "question 1 must have at least two options",
		},
		{
			name:    "correct answer out of range",
			mutate:  func(q *Quiz) { q.Questions[0].CorrectAnswer = 3 },
			wantErr: "question 1 has an out-of-range correct answer",
		},
		{
			name:    "negative correct answer",
			mutate:  func(q *Quiz) { q.Questions[0].CorrectAnswer = -1 },
			wantErr: "question 1 has an out-of-range correct answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(q)
			err := q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestSummaryAndWireQuestions(t *testing.T) {
	q := validQuiz()
	q.ID = "abc"

	s := q.Summary()
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, "Geography", s.Name)
	assert.Equal(t, 2, s.QuestionCount)

	wire := q.WireQuestions()
	require.Len(t, wire, 2)
	assert.Equal(t, "Capital of France?", wire[0].Question)
	assert.Equal(t, []string{"Nile", "Amazon"}, wire[1].Options)
	assert.Equal(t, 1, wire[1].CorrectAnswer)
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateQuiz(ctx, validQuiz())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetQuiz(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Geography", got.Name)
	assert.Len(t, got.Questions, 2)

	got.Name = "Renamed"
	require.NoError(t, store.UpdateQuiz(ctx, got))
	updated, err := store.GetQuiz(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, store.DeleteQuiz(ctx, id))
	_, err = store.GetQuiz(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListSortedByName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, name := range []string{"Zoology", "Art", "Math"} {
		q := validQuiz()
		q.Name = name
		_, err := store.CreateQuiz(ctx, q)
		require.NoError(t, err)
	}

	summaries, err := store.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Art", summaries[0].Name)
	assert.Equal(t, "Math", summaries[1].Name)
	assert.Equal(t, "Zoology", summaries[2].Name)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.CreateQuiz(ctx, &Quiz{Name: ""})
	assert.Error(t, err)

	q := validQuiz()
	q.ID = "missing"
	assert.ErrorIs(t, store.UpdateQuiz(ctx, q), ErrNotFound)
	assert.ErrorIs(t, store.DeleteQuiz(ctx, "missing"), ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateQuiz(ctx, validQuiz())
	require.NoError(t, err)

	first, err := store.GetQuiz(ctx, id)
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := store.GetQuiz(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Geography", second.Name)
}
