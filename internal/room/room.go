package room

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/game"
	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

// Room owns one game session: a single goroutine serializes every
// mutation, broadcasts the sanitized snapshot after state-affecting
// actions, and owns the per-question auto-advance timer.
type Room struct {
	inbox    chan Msg
	g        *game.Game
	clients  map[string]chan types.ServerMessage
	catalog  quiz.Catalog
	quizzes  []types.QuizSummary
	clock    clockwork.Clock
	timer    clockwork.Timer
	timerGen int
	log      *zap.Logger
	onClose  func(pin string)
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a session for the given host connection, registers the
// host's outbox and immediately sends it gameCreated plus the first
// snapshot. The room loop runs until the host leaves or Shutdown arrives.
func New(parent context.Context, pin, hostConnID string, hostOutbox chan types.ServerMessage, catalog quiz.Catalog, clock clockwork.Clock, log *zap.Logger, onClose func(pin string)) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:   make(chan Msg, 64),
		g:       game.New(pin, hostConnID),
		clients: map[string]chan types.ServerMessage{hostConnID: hostOutbox},
		catalog: catalog,
		clock:   clock,
		log:     log.With(zap.String("pin", pin)),
		onClose: onClose,
		ctx:     ctx,
		cancel:  cancel,
	}
	r.reloadQuizzes()

	r.send(hostConnID, types.ServerMessage{Type: types.MsgGameCreated, Data: types.GameCreated{
		GameID:           pin,
		HostID:           hostConnID,
		AvailableQuizzes: r.quizzes,
	}})
	r.send(hostConnID, r.snapshotMsg())

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down; senders select on it so a
// message to a dead room never blocks forever.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) PIN() string { return r.g.PIN }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case PlayerJoin:
				r.handleJoin(msg)

			case Leave:
				if msg.ConnID == r.g.HostID {
					r.log.Info("host disconnected, ending game")
					r.broadcast(types.ServerMessage{Type: types.MsgHostDisconnected})
					r.shutdown()
					return
				}
				r.handlePlayerLeave(msg.ConnID)

			case FromClient:
				r.applyCommand(msg.Cmd)

			case timerFired:
				if msg.gen != r.timerGen {
					// A newer question or an early advance superseded this
					// timer while its fire was already in flight.
					break
				}
				r.timer = nil
				r.handleEvents(r.g.FinishQuestion(msg.index))

			case RefreshQuizzes:
				r.reloadQuizzes()
				if r.g.Status == game.StatusWaiting {
					r.broadcast(r.snapshotMsg())
				}

			case GetState:
				msg.Reply <- View{
					Snapshot:   r.snapshot(),
					NumClients: len(r.clients),
					TimerArmed: r.timer != nil,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg PlayerJoin) {
	events, err := r.g.Join(msg.ConnID, msg.Nickname)
	if err != nil {
		msg.Reply <- err
		return
	}
	r.clients[msg.ConnID] = msg.Outbox
	msg.Reply <- nil
	r.log.Info("player joined", zap.String("conn_id", msg.ConnID), zap.String("name", r.g.Players[msg.ConnID].Name))

	r.send(msg.ConnID, types.ServerMessage{Type: types.MsgJoined, Data: types.Joined{
		PlayerID:         msg.ConnID,
		Name:             r.g.Players[msg.ConnID].Name,
		GameID:           r.g.PIN,
		SelectedQuizID:   r.selectedQuizID(),
		SelectedQuizName: r.selectedQuizName(),
		AvailableQuizzes: r.quizzes,
		QuizVotes:        copyVotes(r.g.QuizVotes),
		MyVote:           nil,
	}})
	r.handleEvents(events)
}

func (r *Room) handlePlayerLeave(connID string) {
	if ch, ok := r.clients[connID]; ok {
		close(ch)
		delete(r.clients, connID)
	}
	r.handleEvents(r.g.RemovePlayer(connID))
}

// applyCommand runs one client action through the state machine. Commands
// that reference a quiz id are resolved against the catalog first; every
// rejection goes back to the originating connection as an error event and
// touches nothing else.
func (r *Room) applyCommand(cmd game.Command) {
	var events []game.Event
	var err error

	switch cmd.Type {
	case game.CmdSelectQuiz:
		var q *quiz.Quiz
		q, err = r.catalog.GetQuiz(r.ctx, cmd.QuizID)
		if err != nil {
			err = fmt.Errorf("selected quiz (id: %s) not found", cmd.QuizID)
		} else {
			events, err = r.g.SelectQuiz(cmd.ConnID, q)
		}

	case game.CmdVote:
		if _, lookupErr := r.catalog.GetQuiz(r.ctx, cmd.QuizID); lookupErr != nil {
			err = game.ErrInvalidVote
		} else {
			events, err = r.g.Apply(cmd)
		}

	default:
		events, err = r.g.Apply(cmd)
	}

	if err != nil {
		r.log.Debug("command rejected", zap.String("conn_id", cmd.ConnID), zap.String("cmd", string(cmd.Type)), zap.Error(err))
		r.sendError(cmd.ConnID, err)
		return
	}
	r.handleEvents(events)
}

// handleEvents turns transition events into broadcasts and timer changes.
// Any transition out of the question state cancels the pending timer, so
// at most one advance ever occurs per question.
func (r *Room) handleEvents(events []game.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case game.QuestionShown:
			r.armTimer(e.Index, e.Duration+game.TimerGrace)
			r.broadcast(types.ServerMessage{Type: types.MsgShowQuestion, Data: types.ShowQuestion{
				GameID:       r.g.PIN,
				Index:        e.Index,
				Text:         e.Text,
				Options:      e.Options,
				Duration:     int(e.Duration.Seconds()),
				FullQuizData: e.FullQuiz,
			}})

		case game.ResultsShown:
			r.cancelTimer()
			r.broadcast(types.ServerMessage{Type: types.MsgShowResults, Data: types.ShowResults{
				GameID:        r.g.PIN,
				QuestionIndex: e.QuestionIndex,
				CorrectAnswer: e.CorrectAnswer,
				Scores:        e.Scores,
			}})

		case game.GameEnded:
			r.cancelTimer()
			r.broadcast(types.ServerMessage{Type: types.MsgGameOver, Data: types.GameOver{
				GameID: r.g.PIN,
				Scores: e.Scores,
			}})

		case game.GameReset:
			r.cancelTimer()
			r.broadcast(types.ServerMessage{Type: types.MsgGameReset})

		case game.StateChanged:
			r.broadcast(r.snapshotMsg())
		}
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			// Slow or wedged client; drop the channel and let its
			// connection unwind through the normal Leave path.
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) send(connID string, msg types.ServerMessage) {
	ch, ok := r.clients[connID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		close(ch)
		delete(r.clients, connID)
	}
}

func (r *Room) sendError(connID string, err error) {
	r.send(connID, types.ServerMessage{Type: types.MsgError, Data: err.Error()})
}

func (r *Room) reloadQuizzes() {
	summaries, err := r.catalog.ListSummaries(r.ctx)
	if err != nil {
		r.log.Warn("listing quizzes failed", zap.Error(err))
		return
	}
	r.quizzes = summaries
}

func (r *Room) shutdown() {
	r.cancelTimer()
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
	if r.onClose != nil {
		go r.onClose(r.g.PIN)
	}
}
