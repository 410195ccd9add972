package room

import (
	"github.com/GodfreyDev/CahootKlone/internal/game"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

type Msg interface{ isRoomMsg() }

// PlayerJoin registers a connection as a player. On success the outbox is
// adopted by the room and Reply receives nil; on failure the outbox stays
// with the caller and Reply receives the rejection.
type PlayerJoin struct {
	ConnID   string
	Nickname string
	Outbox   chan types.ServerMessage
	Reply    chan error
}

// Leave reports a disconnect. A departing host ends the session for
// everyone; a departing player is removed with vote rollback and
// early-advance re-evaluation.
type Leave struct{ ConnID string }

// FromClient carries a validated game command from a bound connection.
type FromClient struct{ Cmd game.Command }

// RefreshQuizzes reloads the catalog list; sessions still waiting get a
// fresh snapshot so lobby screens see catalog edits immediately.
type RefreshQuizzes struct{}

// GetState reflects room internals without data races; test-only.
type GetState struct{ Reply chan View }

type Shutdown struct{}

// timerFired is posted by the auto-advance timer goroutine back into the
// inbox so it is serialized like any other event.
type timerFired struct {
	gen   int
	index int
}

func (PlayerJoin) isRoomMsg()     {}
func (Leave) isRoomMsg()          {}
func (FromClient) isRoomMsg()     {}
func (RefreshQuizzes) isRoomMsg() {}
func (GetState) isRoomMsg()       {}
func (Shutdown) isRoomMsg()       {}
func (timerFired) isRoomMsg()     {}

type View struct {
	Snapshot   types.GameState
	NumClients int
	TimerArmed bool
}
