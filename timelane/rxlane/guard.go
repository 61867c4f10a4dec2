package rxlane

import (
	"sync"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

// guard is the termination latch of one subscription.
// The zero EndState means pending; the first fire moves it to its terminal state for good.
type guard struct {
	mu    sync.Mutex
	state timelane.EndState
}

// fire runs report if the subscription is still pending and reports whether it did.
// report runs while the lock is held, so reports of one subscription never interleave.
func (g *guard) fire(state timelane.EndState, report func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.IsZero() {
		return false
	}

	g.state = state
	report()

	return true
}

// whilePending runs report unless the subscription already terminated.
func (g *guard) whilePending(report func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsZero() {
		report()
	}
}

func (g *guard) terminal() timelane.EndState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}
