package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/game"
	"github.com/GodfreyDev/CahootKlone/internal/hub"
	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

func intPtr(v int) *int { return &v }

func TestToGameCommand(t *testing.T) {
	tests := []struct {
		name string
		in   types.ClientMessage
		want game.Command
		ok   bool
	}{
		{
			name: "select quiz",
			in:   types.ClientMessage{Type: "host:selectQuiz", QuizID: "q1"},
			want: game.Command{Type: game.CmdSelectQuiz, ConnID: "c1", QuizID: "q1"},
			ok:   true,
		},
		{
			name: "start game",
			in:   types.ClientMessage{Type: "host:startGame"},
			want: game.Command{Type: game.CmdStartGame, ConnID: "c1"},
			ok:   true,
		},
		{
			name: "next question",
			in:   types.ClientMessage{Type: "host:nextQuestion"},
			want: game.Command{Type: game.CmdNextQuestion, ConnID: "c1"},
			ok:   true,
		},
		{
			name: "reset game",
			in:   types.ClientMessage{Type: "host:resetGame"},
			want: game.Command{Type: game.CmdResetGame, ConnID: "c1"},
			ok:   true,
		},
		{
			name: "vote",
			in:   types.ClientMessage{Type: "player:voteForQuiz", QuizID: "q2"},
			want: game.Command{Type: game.CmdVote, ConnID: "c1", QuizID: "q2"},
			ok:   true,
		},
		{
			name: "answer",
			in:   types.ClientMessage{Type: "player:answer", AnswerIndex: intPtr(2)},
			want: game.Command{Type: game.CmdAnswer, ConnID: "c1", AnswerIndex: 2},
			ok:   true,
		},
		{
			name: "answer without index is invalid",
			in:   types.ClientMessage{Type: "player:answer"},
			want: game.Command{Type: game.CmdAnswer, ConnID: "c1", AnswerIndex: -1},
			ok:   true,
		},
		{
			name: "unknown type",
			in:   types.ClientMessage{Type: "player:teleport"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toGameCommand(tt.in, "c1")
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

type wsClient struct {
	conn *websocket.Conn
	ctx  context.Context
}

func dial(t *testing.T, url string) *wsClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })
	return &wsClient{conn: conn, ctx: ctx}
}

func (c *wsClient) write(t *testing.T, msg types.ClientMessage) {
	t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.conn.Write(c.ctx, websocket.MessageText, payload))
}

type wireMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// read drains frames until one of the wanted type arrives.
func (c *wsClient) read(t *testing.T, msgType string) wireMessage {
	t.Helper()
	for {
		_, data, err := c.conn.Read(c.ctx)
		require.NoError(t, err, "waiting for %q", msgType)
		var msg wireMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	catalog := quiz.NewMemoryStore()
	_, err := catalog.CreateQuiz(context.Background(), &quiz.Quiz{
		Name:      "Warmup",
		Questions: []quiz.Question{{Text: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)

	h := hub.NewHub(ctx, catalog, clockwork.NewFakeClock(), zap.NewNop())
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_HostCreatesAndPlayerJoins(t *testing.T) {
	srv := newTestServer(t)

	host := dial(t, srv.URL)
	host.write(t, types.ClientMessage{Type: "host:createGame"})
	created := host.read(t, types.MsgGameCreated)

	var payload types.GameCreated
	require.NoError(t, json.Unmarshal(created.Data, &payload))
	assert.Regexp(t, `^\d{6}$`, payload.GameID)
	require.Len(t, payload.AvailableQuizzes, 1)

	player := dial(t, srv.URL)
	player.write(t, types.ClientMessage{Type: "player:join", Nickname: "Alice", GameID: payload.GameID})
	joined := player.read(t, types.MsgJoined)

	var joinData types.Joined
	require.NoError(t, json.Unmarshal(joined.Data, &joinData))
	assert.Equal(t, "Alice", joinData.Name)
	assert.Equal(t, payload.GameID, joinData.GameID)
}

func TestHandler_JoinErrors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unknown pin", func(t *testing.T) {
		c := dial(t, srv.URL)
		c.write(t, types.ClientMessage{Type: "player:join", Nickname: "Bob", GameID: "000000"})
		msg := c.read(t, types.MsgError)
		var text string
		require.NoError(t, json.Unmarshal(msg.Data, &text))
		assert.Contains(t, text, "000000")
	})

	t.Run("missing nickname", func(t *testing.T) {
		c := dial(t, srv.URL)
		c.write(t, types.ClientMessage{Type: "player:join", GameID: "123456"})
		c.read(t, types.MsgError)
	})

	t.Run("command before binding", func(t *testing.T) {
		c := dial(t, srv.URL)
		c.write(t, types.ClientMessage{Type: "host:startGame"})
		c.read(t, types.MsgError)
	})
}

func TestHandler_DuplicateNicknameRejectedOverWire(t *testing.T) {
	srv := newTestServer(t)

	host := dial(t, srv.URL)
	host.write(t, types.ClientMessage{Type: "host:createGame"})
	created := host.read(t, types.MsgGameCreated)
	var payload types.GameCreated
	require.NoError(t, json.Unmarshal(created.Data, &payload))

	first := dial(t, srv.URL)
	first.write(t, types.ClientMessage{Type: "player:join", Nickname: "Alice", GameID: payload.GameID})
	first.read(t, types.MsgJoined)

	second := dial(t, srv.URL)
	second.write(t, types.ClientMessage{Type: "player:join", Nickname: "alice", GameID: payload.GameID})
	msg := second.read(t, types.MsgError)
	var text string
	require.NoError(t, json.Unmarshal(msg.Data, &text))
	assert.Contains(t, text, "taken")
}
