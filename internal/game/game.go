package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

const (
	// QuestionDuration is how long clients get to answer each question.
	QuestionDuration = 15 * time.Second
	// TimerGrace pads the server-side deadline so answers sent at the last
	// client-visible moment are not lost to network or clock skew.
	TimerGrace = 500 * time.Millisecond
	// PointsPerCorrect is awarded once per correct answer.
	PointsPerCorrect = 100

	MaxNicknameLen = 20
)

var ErrNotHost = errors.New("only the host can do that")
var ErrNotWaiting = errors.New("game is not in a waiting state")
var ErrQuizLocked = errors.New("cannot change quiz after the game has started")
var ErrNoQuizSelected = errors.New("please select a quiz before starting")
var ErrNoPlayers = errors.New("need at least one player to start")
var ErrNotResults = errors.New("can only advance to next question from results screen")
var ErrNotResettable = errors.New("can only reset the game when it is over or waiting for players")
var ErrGameStarted = errors.New("this game has already started or finished")
var ErrBadNickname = errors.New("nickname must be between 1 and 20 characters")
var ErrNameTaken = errors.New("nickname is already taken in this game")
var ErrNotInGame = errors.New("you are not a player in this game")
var ErrNoActiveQuestion = errors.New("no question is accepting answers")
var ErrInvalidAnswer = errors.New("invalid answer submitted")
var ErrInvalidVote = errors.New("invalid quiz voted for")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusQuestion Status = "question"
	StatusResults  Status = "results"
	StatusGameOver Status = "gameOver"
)

type Player struct {
	Name           string
	Score          int
	Answered       bool
	VotedForQuizID string // "" until the player votes; meaningful only pre-start
}

// Game holds one session's full state. It is not safe for concurrent use:
// the owning room serializes every mutation, including timer fires.
type Game struct {
	PIN                  string
	HostID               string
	Status               Status
	SelectedQuiz         *quiz.Quiz // nil until the host finalizes a choice
	Players              map[string]*Player
	QuizVotes            map[string]int
	CurrentQuestionIndex int // -1 before the first question
	PlayerAnswers        map[string]int
}

func New(pin, hostID string) *Game {
	return &Game{
		PIN:                  pin,
		HostID:               hostID,
		Status:               StatusWaiting,
		Players:              make(map[string]*Player),
		QuizVotes:            make(map[string]int),
		CurrentQuestionIndex: -1,
		PlayerAnswers:        make(map[string]int),
	}
}

type CommandType string

const (
	CmdSelectQuiz   CommandType = "SelectQuiz"
	CmdStartGame    CommandType = "StartGame"
	CmdNextQuestion CommandType = "NextQuestion"
	CmdResetGame    CommandType = "ResetGame"
	CmdVote         CommandType = "Vote"
	CmdAnswer       CommandType = "Answer"
)

type Command struct {
	Type        CommandType
	ConnID      string
	QuizID      string
	AnswerIndex int
}

// Apply dispatches a command that needs no data beyond the game's own
// state. CmdSelectQuiz is excluded: the caller resolves the quiz document
// first and calls SelectQuiz. CmdVote expects the caller to have verified
// the quiz id exists in the catalog.
func (g *Game) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdStartGame:
		return g.Start(cmd.ConnID)
	case CmdNextQuestion:
		return g.NextQuestion(cmd.ConnID)
	case CmdResetGame:
		return g.Reset(cmd.ConnID)
	case CmdVote:
		return g.Vote(cmd.ConnID, cmd.QuizID)
	case CmdAnswer:
		return g.SubmitAnswer(cmd.ConnID, cmd.AnswerIndex)
	default:
		return nil, ErrUnsupportedCommand
	}
}

// Join adds a player while the session is waiting. Nicknames are trimmed,
// limited to 1-20 characters and unique case-insensitively.
func (g *Game) Join(connID, nickname string) ([]Event, error) {
	if g.Status != StatusWaiting {
		return nil, ErrGameStarted
	}
	name := strings.TrimSpace(nickname)
	if len(name) == 0 || len(name) > MaxNicknameLen {
		return nil, ErrBadNickname
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("nickname %q: %w", name, ErrNameTaken)
		}
	}
	g.Players[connID] = &Player{Name: name}
	return []Event{StateChanged{}}, nil
}

func (g *Game) SelectQuiz(connID string, q *quiz.Quiz) ([]Event, error) {
	if connID != g.HostID {
		return nil, ErrNotHost
	}
	if g.Status != StatusWaiting {
		return nil, ErrQuizLocked
	}
	g.SelectedQuiz = q
	return []Event{StateChanged{}}, nil
}

// Vote records a player's quiz preference. Changing a vote moves one count
// from the old quiz to the new; re-voting the same quiz changes nothing but
// still yields a snapshot, matching what clients already rely on.
func (g *Game) Vote(connID, quizID string) ([]Event, error) {
	p, ok := g.Players[connID]
	if !ok {
		return nil, ErrNotInGame
	}
	if g.Status != StatusWaiting {
		return nil, ErrNotWaiting
	}
	prev := p.VotedForQuizID
	if prev != "" && prev != quizID && g.QuizVotes[prev] > 0 {
		g.QuizVotes[prev]--
	}
	if prev != quizID {
		g.QuizVotes[quizID]++
	}
	p.VotedForQuizID = quizID
	return []Event{StateChanged{}}, nil
}

func (g *Game) Start(connID string) ([]Event, error) {
	if connID != g.HostID {
		return nil, ErrNotHost
	}
	if g.Status != StatusWaiting {
		return nil, ErrNotWaiting
	}
	if g.SelectedQuiz == nil {
		return nil, ErrNoQuizSelected
	}
	if len(g.Players) == 0 {
		return nil, ErrNoPlayers
	}
	g.Status = StatusQuestion
	g.CurrentQuestionIndex = -1
	return g.advanceQuestion(), nil
}

func (g *Game) NextQuestion(connID string) ([]Event, error) {
	if connID != g.HostID {
		return nil, ErrNotHost
	}
	if g.Status != StatusResults {
		return nil, ErrNotResults
	}
	return g.advanceQuestion(), nil
}

// advanceQuestion selects the next question, or ends the game when the
// quiz is exhausted. A nil quiz mid-game is an internal inconsistency and
// forces the end-game transition rather than leaving the session stuck.
func (g *Game) advanceQuestion() []Event {
	if g.SelectedQuiz == nil {
		return g.endGame()
	}
	g.CurrentQuestionIndex++
	if g.CurrentQuestionIndex >= len(g.SelectedQuiz.Questions) {
		return g.endGame()
	}

	g.Status = StatusQuestion
	g.PlayerAnswers = make(map[string]int)
	for _, p := range g.Players {
		p.Answered = false
	}

	q := g.SelectedQuiz.Questions[g.CurrentQuestionIndex]
	shown := QuestionShown{
		Index:    g.CurrentQuestionIndex,
		Text:     q.Text,
		Options:  q.Options,
		Duration: QuestionDuration,
	}
	if g.CurrentQuestionIndex == 0 {
		shown.FullQuiz = g.SelectedQuiz.WireQuestions()
	}
	return []Event{shown, StateChanged{}}
}

// SubmitAnswer records a player's single answer for the current question.
// Resubmission is ignored. When every connected player has answered, the
// question finishes immediately.
func (g *Game) SubmitAnswer(connID string, answerIndex int) ([]Event, error) {
	p, ok := g.Players[connID]
	if !ok {
		return nil, ErrNotInGame
	}
	if g.Status != StatusQuestion {
		return nil, ErrNoActiveQuestion
	}
	if g.SelectedQuiz == nil || g.CurrentQuestionIndex < 0 || g.CurrentQuestionIndex >= len(g.SelectedQuiz.Questions) {
		return nil, ErrNoActiveQuestion
	}
	q := g.SelectedQuiz.Questions[g.CurrentQuestionIndex]
	if answerIndex < 0 || answerIndex >= len(q.Options) {
		return nil, ErrInvalidAnswer
	}
	if p.Answered {
		return nil, nil
	}

	p.Answered = true
	g.PlayerAnswers[connID] = answerIndex

	if g.allAnswered() {
		return g.finishQuestion(), nil
	}
	return []Event{StateChanged{}}, nil
}

// allAnswered is derived on demand from Players and PlayerAnswers rather
// than tracked in a flag that could drift.
func (g *Game) allAnswered() bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if !p.Answered {
			return false
		}
	}
	return true
}

// FinishQuestion is the timer-driven path to results. The index identifies
// the question the timer was armed for; a fire that arrives after the
// session moved on is stale and must change nothing.
func (g *Game) FinishQuestion(index int) []Event {
	if g.Status != StatusQuestion || g.CurrentQuestionIndex != index {
		return nil
	}
	return g.finishQuestion()
}

func (g *Game) finishQuestion() []Event {
	if g.Status != StatusQuestion {
		return nil
	}
	if g.SelectedQuiz == nil || g.CurrentQuestionIndex < 0 || g.CurrentQuestionIndex >= len(g.SelectedQuiz.Questions) {
		return g.endGame()
	}

	g.Status = StatusResults
	correct := g.SelectedQuiz.Questions[g.CurrentQuestionIndex].CorrectAnswer

	scores := make(map[string]types.PlayerResult, len(g.Players))
	for id, p := range g.Players {
		answer, answered := g.PlayerAnswers[id]
		isCorrect := answered && answer == correct
		if isCorrect {
			p.Score += PointsPerCorrect
		}
		result := types.PlayerResult{
			Name:      p.Name,
			Score:     p.Score,
			IsCorrect: isCorrect,
			Answered:  p.Answered,
		}
		if answered {
			a := answer
			result.Answer = &a
		}
		scores[id] = result
	}

	return []Event{
		ResultsShown{
			QuestionIndex: g.CurrentQuestionIndex,
			CorrectAnswer: correct,
			Scores:        scores,
		},
		StateChanged{},
	}
}

func (g *Game) endGame() []Event {
	if g.Status == StatusGameOver {
		return nil
	}
	g.Status = StatusGameOver

	final := make([]types.FinalScore, 0, len(g.Players))
	for _, p := range g.Players {
		final = append(final, types.FinalScore{Name: p.Name, Score: p.Score})
	}
	sort.SliceStable(final, func(i, j int) bool { return final[i].Score > final[j].Score })

	return []Event{GameEnded{Scores: final}, StateChanged{}}
}

// RemovePlayer handles a player disconnect: the player and their answer are
// dropped, a pending vote is rolled back, and if the departure leaves every
// remaining player answered mid-question the results come early, exactly as
// if the last answer had just arrived.
func (g *Game) RemovePlayer(connID string) []Event {
	p, ok := g.Players[connID]
	if !ok {
		return nil
	}
	wasAnswered := p.Answered
	if v := p.VotedForQuizID; v != "" && g.QuizVotes[v] > 0 {
		g.QuizVotes[v]--
	}
	delete(g.Players, connID)
	delete(g.PlayerAnswers, connID)

	events := []Event{StateChanged{}}
	if g.Status == StatusQuestion && !wasAnswered && g.allAnswered() {
		events = append(events, g.finishQuestion()...)
	}
	return events
}

// Reset returns a waiting or finished session to a clean waiting state,
// preserving player membership but clearing scores, votes, answers and the
// quiz selection. It is rejected mid-game.
func (g *Game) Reset(connID string) ([]Event, error) {
	if connID != g.HostID {
		return nil, ErrNotHost
	}
	if g.Status != StatusGameOver && g.Status != StatusWaiting {
		return nil, ErrNotResettable
	}
	g.Status = StatusWaiting
	g.CurrentQuestionIndex = -1
	g.PlayerAnswers = make(map[string]int)
	g.SelectedQuiz = nil
	g.QuizVotes = make(map[string]int)
	for _, p := range g.Players {
		p.Score = 0
		p.Answered = false
		p.VotedForQuizID = ""
	}
	return []Event{GameReset{}, StateChanged{}}, nil
}
