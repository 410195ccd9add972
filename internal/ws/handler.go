package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/game"
	"github.com/GodfreyDev/CahootKlone/internal/hub"
	"github.com/GodfreyDev/CahootKlone/internal/room"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and runs the event protocol. A
// connection binds to at most one game with one role: hosting starts with
// host:createGame, playing with player:join; every later message is routed
// to the bound room.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)
		log := log.With(zap.String("conn_id", connID))
		log.Info("client connected")

		// Writer goroutine: once bound, the room owns the outbox and is
		// its only writer; this goroutine just drains it onto the wire.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case msg, ok := <-out:
					if !ok {
						// Room closed the outbox (session over or slow
						// client drop); close so the reader unwinds too.
						conn.Close(websocket.StatusGoingAway, "session closed")
						return
					}
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				case <-writeCtx.Done():
					return
				}
			}
		}()

		var bound *room.Room
		defer func() {
			if bound != nil {
				select {
				case bound.Inbox() <- room.Leave{ConnID: connID}:
				case <-bound.Done():
				}
			}
			log.Info("client disconnected")
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			switch cm.Type {
			case "host:createGame":
				if bound != nil {
					writeError(r.Context(), conn, "You are already in a game.")
					continue
				}
				reply := make(chan *room.Room, 1)
				select {
				case h.Inbox() <- hub.CreateGame{HostConnID: connID, HostOutbox: out, Reply: reply}:
				case <-h.Done():
					return
				}
				if rm := <-reply; rm != nil {
					bound = rm
				} else {
					writeError(r.Context(), conn, "Failed to create game.")
				}

			case "player:join":
				if bound != nil {
					writeError(r.Context(), conn, "You are already in a game.")
					continue
				}
				if cm.Nickname == "" || cm.GameID == "" {
					writeError(r.Context(), conn, "Nickname and Game PIN are required.")
					continue
				}
				reply := make(chan *room.Room, 1)
				select {
				case h.Inbox() <- hub.GetRoom{PIN: cm.GameID, Reply: reply}:
				case <-h.Done():
					return
				}
				rm := <-reply
				if rm == nil {
					writeError(r.Context(), conn, fmt.Sprintf("Game with PIN %s not found.", cm.GameID))
					continue
				}
				joinReply := make(chan error, 1)
				select {
				case rm.Inbox() <- room.PlayerJoin{ConnID: connID, Nickname: cm.Nickname, Outbox: out, Reply: joinReply}:
				case <-rm.Done():
					writeError(r.Context(), conn, fmt.Sprintf("Game with PIN %s not found.", cm.GameID))
					continue
				}
				if err := <-joinReply; err != nil {
					writeError(r.Context(), conn, err.Error())
					continue
				}
				bound = rm

			default:
				if bound == nil {
					writeError(r.Context(), conn, "You are not in a game.")
					continue
				}
				cmd, ok := toGameCommand(cm, connID)
				if !ok {
					writeError(r.Context(), conn, "unknown message type")
					continue
				}
				select {
				case bound.Inbox() <- room.FromClient{Cmd: cmd}:
				case <-bound.Done():
					bound = nil
					writeError(r.Context(), conn, "The game has ended.")
				}
			}
		}
	}
}

func toGameCommand(m types.ClientMessage, connID string) (game.Command, bool) {
	switch m.Type {
	case "host:selectQuiz":
		return game.Command{Type: game.CmdSelectQuiz, ConnID: connID, QuizID: m.QuizID}, true
	case "host:startGame":
		return game.Command{Type: game.CmdStartGame, ConnID: connID}, true
	case "host:nextQuestion":
		return game.Command{Type: game.CmdNextQuestion, ConnID: connID}, true
	case "host:resetGame":
		return game.Command{Type: game.CmdResetGame, ConnID: connID}, true
	case "player:voteForQuiz":
		return game.Command{Type: game.CmdVote, ConnID: connID, QuizID: m.QuizID}, true
	case "player:answer":
		idx := -1 // fails answer validation when the index is absent
		if m.AnswerIndex != nil {
			idx = *m.AnswerIndex
		}
		return game.Command{Type: game.CmdAnswer, ConnID: connID, AnswerIndex: idx}, true
	default:
		return game.Command{}, false
	}
}

// writeError reports a rejection that happened before or outside the room;
// errors the room itself produces travel through the outbox instead.
func writeError(ctx context.Context, conn *websocket.Conn, message string) {
	payload, err := json.Marshal(types.ServerMessage{Type: types.MsgError, Data: message})
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
