package hub

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/internal/room"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

const waitFor = 2 * time.Second

var pinPattern = regexp.MustCompile(`^\d{6}$`)

func newTestHub(t *testing.T) (*Hub, *quiz.MemoryStore) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	catalog := quiz.NewMemoryStore()
	_, err := catalog.CreateQuiz(context.Background(), &quiz.Quiz{
		Name:      "Starter",
		Questions: []quiz.Question{{Text: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)

	return NewHub(ctx, catalog, clockwork.NewFakeClock(), zap.NewNop()), catalog
}

func createGame(t *testing.T, h *Hub, hostConnID string) (*room.Room, chan types.ServerMessage) {
	t.Helper()
	out := make(chan types.ServerMessage, 32)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateGame{HostConnID: hostConnID, HostOutbox: out, Reply: reply}
	select {
	case r := <-reply:
		require.NotNil(t, r)
		return r, out
	case <-time.After(waitFor):
		t.Fatal("timed out creating game")
		return nil, nil
	}
}

func getRoom(t *testing.T, h *Hub, pin string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{PIN: pin, Reply: reply}
	select {
	case r := <-reply:
		return r
	case <-time.After(waitFor):
		t.Fatal("timed out looking up room")
		return nil
	}
}

func TestHub_CreateGameAssignsSixDigitPIN(t *testing.T) {
	h, _ := newTestHub(t)

	r, out := createGame(t, h, "host-1")
	assert.Regexp(t, pinPattern, r.PIN())

	// The host's outbox was registered before the reply: gameCreated is
	// already waiting on it.
	select {
	case msg := <-out:
		assert.Equal(t, types.MsgGameCreated, msg.Type)
		assert.Equal(t, r.PIN(), msg.Data.(types.GameCreated).GameID)
	case <-time.After(waitFor):
		t.Fatal("host never received gameCreated")
	}
}

func TestHub_GetRoomReturnsSameRoom(t *testing.T) {
	h, _ := newTestHub(t)

	r, _ := createGame(t, h, "host-1")
	assert.Same(t, r, getRoom(t, h, r.PIN()))
	assert.Nil(t, getRoom(t, h, "000000"))
}

func TestHub_PINsAreUniqueAcrossLiveGames(t *testing.T) {
	h, _ := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		r, _ := createGame(t, h, "host")
		require.False(t, seen[r.PIN()], "pin %s issued twice", r.PIN())
		seen[r.PIN()] = true
	}
}

func TestHub_HostLeaveRemovesRoomFromRegistry(t *testing.T) {
	h, _ := newTestHub(t)

	r, _ := createGame(t, h, "host-1")
	pin := r.PIN()

	select {
	case r.Inbox() <- room.Leave{ConnID: "host-1"}:
	case <-time.After(waitFor):
		t.Fatal("timed out sending leave")
	}

	deadline := time.Now().Add(waitFor)
	for getRoom(t, h, pin) != nil {
		if time.Now().After(deadline) {
			t.Fatal("room never removed after host leave")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_QuizzesChangedReachesWaitingRooms(t *testing.T) {
	h, catalog := newTestHub(t)

	_, out := createGame(t, h, "host-1")

	// Drain the creation-time messages.
	<-out // gameCreated
	<-out // first snapshot

	_, err := catalog.CreateQuiz(context.Background(), &quiz.Quiz{
		Name:      "Second",
		Questions: []quiz.Question{{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)

	h.Inbox() <- QuizzesChanged{}

	select {
	case msg := <-out:
		require.Equal(t, types.MsgUpdateGameState, msg.Type)
		assert.Len(t, msg.Data.(types.GameState).AvailableQuizzes, 2)
	case <-time.After(waitFor):
		t.Fatal("waiting room never saw refreshed quiz list")
	}
}
