package game

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/equity"
	"github.com/lox/pokerarena/internal/randutil"
)

// newTestEngine returns an engine with no pacing delays and a fixed seed
func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	base := []Option{
		WithLogger(logger),
		WithRand(randutil.New(42)),
		WithEquity(equity.New(randutil.New(43), equity.WithTrials(50), equity.WithWorkers(2))),
	}
	return NewEngine(cfg, append(base, opts...)...)
}

func testConfig() Config {
	return Config{MinBet: 10, SidePots: true}
}

func seats(names ...string) []Seat {
	out := make([]Seat, len(names))
	for i, n := range names {
		out[i] = Seat{Name: n}
	}
	return out
}

// always returns the same action for every seat
func always(action Action) DecisionSource {
	return DecisionFunc(func(context.Context, Player, GameState) (Decision, error) {
		return Decision{Action: action}, nil
	})
}

// script replays decisions per seat in order, then checks or folds
type script struct {
	mu    sync.Mutex
	moves map[int][]Decision
	asked []int
}

func newScript(moves map[int][]Decision) *script {
	return &script{moves: moves}
}

func (s *script) Decide(_ context.Context, seat Player, _ GameState) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, seat.ID)
	queue := s.moves[seat.ID]
	if len(queue) == 0 {
		return Decision{}, nil
	}
	s.moves[seat.ID] = queue[1:]
	return queue[0], nil
}

// recorder collects published snapshots
type recorder struct {
	mu     sync.Mutex
	states []GameState
}

func (r *recorder) Publish(s GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) snapshots() []GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GameState(nil), r.states...)
}

// tableAt builds a state mid-hand with given stacks and street bets
func tableAt(phase Phase, chips, bets []int) GameState {
	s := NewGameState(seats(names(len(chips))...), 0, 10)
	for i := range s.Players {
		s.Players[i].Chips = chips[i]
		s.Players[i].CurrentBet = bets[i]
		s.Players[i].TotalBet = bets[i]
		s.Pot += bets[i]
	}
	s.Phase = phase
	s.Deck = deck.New(randutil.New(1))
	return s
}

func names(n int) []string {
	all := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	return all[:n]
}

func totalChips(s GameState) int {
	return s.TotalChips()
}
