package table

import (
	"sync"
	"time"
)

// guard admits one load-more at a time. The reset timer releases a
// guard whose load never reported back; a late release of an expired
// ticket is ignored.
type guard struct {
	mu     sync.Mutex
	busy   bool
	ticket uint64
	reset  time.Duration
	timer  *time.Timer
}

func (g *guard) acquire() (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return 0, false
	}
	g.busy = true
	g.ticket++
	t := g.ticket
	if g.reset > 0 {
		g.timer = time.AfterFunc(g.reset, func() { g.release(t) })
	}
	return t, true
}

func (g *guard) release(t uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t != g.ticket || !g.busy {
		return
	}
	g.busy = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
