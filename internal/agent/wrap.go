package agent

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/game"
)

type fallback struct {
	primary  game.DecisionSource
	fallback game.DecisionSource
	logger   *log.Logger
}

// WithFallback uses fallback whenever primary fails. Context errors are
// returned as they are so cancellation still stops the engine.
func WithFallback(primary, secondary game.DecisionSource, logger *log.Logger) game.DecisionSource {
	return &fallback{primary: primary, fallback: secondary, logger: logger.WithPrefix("fallback")}
}

func (f *fallback) Decide(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	d, err := f.primary.Decide(ctx, seat, state)
	if err == nil {
		return d, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return game.Decision{}, ctxErr
	}

	f.logger.Warn("Decision source failed, using fallback", "player", seat.Name, "error", err)
	return f.fallback.Decide(ctx, seat, state)
}

type thinkTime struct {
	source game.DecisionSource
	clock  quartz.Clock
	delay  time.Duration
}

// WithThinkTime waits d on clock before asking source, so fast bots read at a
// human pace.
func WithThinkTime(source game.DecisionSource, clock quartz.Clock, d time.Duration) game.DecisionSource {
	if d <= 0 {
		return source
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &thinkTime{source: source, clock: clock, delay: d}
}

func (t *thinkTime) Decide(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	timer := t.clock.NewTimer(t.delay, "agent", "think")
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return game.Decision{}, ctx.Err()
	case <-timer.C:
	}
	return t.source.Decide(ctx, seat, state)
}
