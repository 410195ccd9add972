package hub

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/internal/room"
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

type HubMsg interface{ isHubMsg() }

// CreateGame makes a new session owned by the given host connection; the
// reply carries the live room, already holding the host's outbox.
type CreateGame struct {
	HostConnID string
	HostOutbox chan types.ServerMessage
	Reply      chan *room.Room
}

type GetRoom struct {
	PIN   string
	Reply chan *room.Room
}

type RemoveRoom struct{ PIN string }

// QuizzesChanged fans a catalog-refresh out to every live room; rooms
// still in the waiting state rebroadcast their lobby snapshot.
type QuizzesChanged struct{}

type ShutdownHub struct{}

func (CreateGame) isHubMsg()    {}
func (GetRoom) isHubMsg()       {}
func (RemoveRoom) isHubMsg()    {}
func (QuizzesChanged) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the registry of live sessions: it maps each 6-digit PIN to
// exactly one room and owns session lifecycle.
type Hub struct {
	inbox   chan HubMsg
	rooms   map[string]*room.Room
	catalog quiz.Catalog
	clock   clockwork.Clock
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, catalog quiz.Catalog, clock clockwork.Clock, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		rooms:   make(map[string]*room.Room),
		catalog: catalog,
		clock:   clock,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateGame:
				pin, err := h.generatePIN()
				if err != nil {
					h.log.Error("pin generation failed", zap.Error(err))
					msg.Reply <- nil
					break
				}
				r := room.New(h.ctx, pin, msg.HostConnID, msg.HostOutbox, h.catalog, h.clock, h.log, h.removeLater)
				h.rooms[pin] = r
				h.log.Info("game created", zap.String("pin", pin), zap.String("host", msg.HostConnID))
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.PIN] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.PIN)
				h.log.Info("game removed", zap.String("pin", msg.PIN))

			case QuizzesChanged:
				for _, r := range h.rooms {
					select {
					case r.Inbox() <- room.RefreshQuizzes{}:
					case <-r.Done():
					}
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for pin, r := range h.rooms {
		select {
		case r.Inbox() <- room.Shutdown{}:
		case <-r.Done():
		}
		delete(h.rooms, pin)
	}
	h.cancel()
}

// removeLater is handed to each room as its close callback; it runs on the
// room's goroutine, so the registry entry is removed via a message rather
// than a direct map write.
func (h *Hub) removeLater(pin string) {
	select {
	case h.inbox <- RemoveRoom{PIN: pin}:
	case <-h.ctx.Done():
	}
}

// generatePIN draws 6-digit numeric PINs until one is free. PINs are only
// reused after their session is destroyed.
func (h *Hub) generatePIN() (string, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		pin := fmt.Sprintf("%06d", n.Int64()+100000)
		if _, taken := h.rooms[pin]; !taken {
			return pin, nil
		}
	}
}
