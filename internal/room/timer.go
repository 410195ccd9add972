package room

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// armTimer replaces any pending auto-advance timer with one keyed to the
// given question index. The generation counter lets the loop discard a
// fire that was already in flight when the timer was superseded; the game
// itself re-checks status and index as the second line of defense.
func (r *Room) armTimer(index int, d time.Duration) {
	r.cancelTimer()
	r.timerGen++
	gen := r.timerGen
	t := r.clock.NewTimer(d)
	r.timer = t

	go func() {
		select {
		case <-t.Chan():
			select {
			case r.inbox <- timerFired{gen: gen, index: index}:
			case <-r.ctx.Done():
			}
		case <-r.ctx.Done():
			stopAndDrainTimer(t)
		}
	}()
}

func (r *Room) cancelTimer() {
	r.timerGen++
	if r.timer != nil {
		stopAndDrainTimer(r.timer)
		r.timer = nil
	}
}

// stopAndDrainTimer stops a timer and drains its channel if it had already
// fired, per the time.Timer.Stop contract.
func stopAndDrainTimer(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
