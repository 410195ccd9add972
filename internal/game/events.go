package game

import (
	"time"

	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

// Event is emitted by a transition for the owning room to act on:
// broadcasting, timer arming and timer cancellation all key off these.
type Event interface{ isGameEvent() }

// StateChanged asks for a fresh sanitized snapshot broadcast.
type StateChanged struct{}

// QuestionShown carries a newly selected question. FullQuiz is populated
// only for the first question of a game.
type QuestionShown struct {
	Index    int
	Text     string
	Options  []string
	Duration time.Duration
	FullQuiz []types.QuizQuestion
}

// ResultsShown carries the per-player outcome of the question that just
// finished, after scores were awarded.
type ResultsShown struct {
	QuestionIndex int
	CorrectAnswer int
	Scores        map[string]types.PlayerResult
}

// GameEnded carries the final ranking, sorted by score descending.
type GameEnded struct {
	Scores []types.FinalScore
}

type GameReset struct{}

func (StateChanged) isGameEvent()  {}
func (QuestionShown) isGameEvent() {}
func (ResultsShown) isGameEvent()  {}
func (GameEnded) isGameEvent()     {}
func (GameReset) isGameEvent()     {}
