package game

import (
	"context"
)

// Decision is what a decision source wants a seat to do. Only Action is
// required; the remaining fields are carried into the activity log.
type Decision struct {
	Action           Action  `json:"action"`
	BetAmount        int     `json:"betAmount,omitempty"`
	ChainOfThought   string  `json:"chainOfThought,omitempty"`
	ReasoningSummary string  `json:"reasoningSummary,omitempty"`
	Emotion          Emotion `json:"emotion,omitempty"`
	Description      string  `json:"description,omitempty"`
}

// DecisionSource chooses an action for the seat whose turn it is. The state is
// a snapshot the source may keep; it cannot affect the table.
type DecisionSource interface {
	Decide(ctx context.Context, seat Player, state GameState) (Decision, error)
}

// DecisionFunc adapts a function to DecisionSource
type DecisionFunc func(ctx context.Context, seat Player, state GameState) (Decision, error)

// Decide calls f
func (f DecisionFunc) Decide(ctx context.Context, seat Player, state GameState) (Decision, error) {
	return f(ctx, seat, state)
}

// SeatSources routes each seat to its own decision source, falling back to
// Default for seats without one.
type SeatSources struct {
	Seats   map[int]DecisionSource
	Default DecisionSource
}

// Decide delegates to the seat's source
func (s SeatSources) Decide(ctx context.Context, seat Player, state GameState) (Decision, error) {
	if src, ok := s.Seats[seat.ID]; ok && src != nil {
		return src.Decide(ctx, seat, state)
	}
	if s.Default == nil {
		return Decision{}, nil
	}
	return s.Default.Decide(ctx, seat, state)
}

// StateSink receives a snapshot after every atomic change. Publish must not
// block the engine.
type StateSink interface {
	Publish(state GameState)
}

// SinkFunc adapts a function to StateSink
type SinkFunc func(state GameState)

// Publish calls f
func (f SinkFunc) Publish(state GameState) {
	f(state)
}

// MultiSink fans snapshots out to every sink in order
type MultiSink []StateSink

// Publish forwards state to each sink
func (m MultiSink) Publish(state GameState) {
	for _, s := range m {
		if s != nil {
			s.Publish(state)
		}
	}
}
