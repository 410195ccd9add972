package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

var ErrNotFound = errors.New("quiz not found")

type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"data"`
}

// Validate checks the structural shape required of any stored quiz: a name,
// at least one question, and per question non-empty text, two or more
// options, and an in-range correct answer.
func (q *Quiz) Validate() error {
	if q.Name == "" {
		return errors.New("quiz name is required")
	}
	if len(q.Questions) == 0 {
		return errors.New("quiz must have at least one question")
	}
	for i, question := range q.Questions {
		if question.Text == "" {
			return fmt.Errorf("invalid question structure in question %d", i+1)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("question %d must have at least two options", i+1)
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return fmt.Errorf("question %d has an out-of-range correct answer", i+1)
		}
	}
	return nil
}

// Summary is the list-view projection served to lobbies and the REST API.
func (q *Quiz) Summary() types.QuizSummary {
	return types.QuizSummary{ID: q.ID, Name: q.Name, QuestionCount: len(q.Questions)}
}

// WireQuestions converts the question sequence to its client-facing shape,
// sent alongside the first question of a game.
func (q *Quiz) WireQuestions() []types.QuizQuestion {
	out := make([]types.QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		out[i] = types.QuizQuestion{
			Question:      question.Text,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
		}
	}
	return out
}

// Catalog is the quiz storage surface consumed by the game core and the
// REST API. Implementations must be safe for concurrent use.
type Catalog interface {
	GetQuiz(ctx context.Context, id string) (*Quiz, error)
	ListQuizzes(ctx context.Context) ([]*Quiz, error)
	ListSummaries(ctx context.Context) ([]types.QuizSummary, error)
	CreateQuiz(ctx context.Context, q *Quiz) (string, error)
	UpdateQuiz(ctx context.Context, q *Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
}
