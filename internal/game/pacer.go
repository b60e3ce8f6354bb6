package game

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// PauseGate lets a viewer hold the engine between steps. The engine only
// waits on the gate once a step has been fully applied.
type PauseGate struct {
	mu     sync.Mutex
	paused bool
	resume chan struct{}
}

// NewPauseGate creates an open gate
func NewPauseGate() *PauseGate {
	return &PauseGate{}
}

// Pause closes the gate
func (g *PauseGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		g.paused = true
		g.resume = make(chan struct{})
	}
}

// Resume opens the gate and releases any waiters
func (g *PauseGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		g.paused = false
		close(g.resume)
	}
}

// Toggle flips the gate and reports whether it is now paused
func (g *PauseGate) Toggle() bool {
	g.mu.Lock()
	paused := g.paused
	g.mu.Unlock()
	if paused {
		g.Resume()
		return false
	}
	g.Pause()
	return true
}

// Paused reports whether the gate is closed
func (g *PauseGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks while the gate is closed. A nil gate never blocks.
func (g *PauseGate) Wait(ctx context.Context) error {
	if g == nil {
		return ctx.Err()
	}
	for {
		g.mu.Lock()
		paused, resume := g.paused, g.resume
		g.mu.Unlock()
		if !paused {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resume:
		}
	}
}

// Pacer inserts the display delays between steps so viewers can render
// intermediate frames. Delays run on a quartz clock.
type Pacer struct {
	clock quartz.Clock
	gate  *PauseGate
}

// NewPacer creates a pacer; gate may be nil
func NewPacer(clock quartz.Clock, gate *PauseGate) *Pacer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Pacer{clock: clock, gate: gate}
}

// Wait sleeps for d, then holds while paused. It returns early with the
// context error on cancellation.
func (p *Pacer) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		timer := p.clock.NewTimer(d, "pacer", "wait")
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return p.gate.Wait(ctx)
}

// Gate returns the pause gate, which may be nil
func (p *Pacer) Gate() *PauseGate {
	return p.gate
}
