package game

import (
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/equity"
	"github.com/lox/pokerarena/internal/randutil"
)

// Config holds the table rules and pacing for an engine
type Config struct {
	MinBet        int           // Small blind; the big blind is twice this
	PhaseDelay    time.Duration // Pause after each deal
	ActionDelay   time.Duration // Pause after each seat acts
	ShowdownDelay time.Duration // Pause after the pot is awarded
	SidePots      bool          // Split all-in contributions into side pots
	MaxHands      int           // Stop a tournament after this many hands; 0 means no limit
}

// DefaultConfig returns the standard table: 10/20 blinds, two second phase
// delay, side pots enabled.
func DefaultConfig() Config {
	return Config{
		MinBet:        10,
		PhaseDelay:    2 * time.Second,
		ActionDelay:   time.Second,
		ShowdownDelay: 6 * time.Second,
		SidePots:      true,
	}
}

// Engine runs hands and tournaments. It owns the state it is given for the
// duration of a call and publishes a snapshot after every atomic step.
// An Engine is not safe for concurrent use; run one per table.
type Engine struct {
	cfg     Config
	logger  *log.Logger
	clock   quartz.Clock
	rng     *rand.Rand
	equity  *equity.Calculator
	sinks   MultiSink
	pacer   *Pacer
	gate    *PauseGate
	version int64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used for pacing and log timestamps
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithRand sets the random source used to shuffle decks
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithEquity sets the equity calculator
func WithEquity(calc *equity.Calculator) Option {
	return func(e *Engine) {
		e.equity = calc
	}
}

// WithSinks adds sinks that state snapshots are published to. It may be
// given more than once.
func WithSinks(sinks ...StateSink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

// WithPauseGate lets a viewer pause the engine between steps
func WithPauseGate(gate *PauseGate) Option {
	return func(e *Engine) {
		e.gate = gate
	}
}

// NewEngine creates an engine
func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.MinBet <= 0 {
		cfg.MinBet = DefaultConfig().MinBet
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.rng == nil {
		e.rng = randutil.New(randutil.Seed(0))
	}
	if e.equity == nil {
		e.equity = equity.New(randutil.New(e.rng.Int64()))
	}
	e.pacer = NewPacer(e.clock, e.gate)
	return e
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// NewGame seats players using the engine's blinds
func (e *Engine) NewGame(seats []Seat, startingChips int) GameState {
	return NewGameState(seats, startingChips, e.cfg.MinBet)
}

// publish stamps a new version on s and hands a clone to the sinks
func (e *Engine) publish(s *GameState) {
	e.version++
	s.Version = e.version
	e.sinks.Publish(s.Clone())
}

// appendLog records an entry for seat. Equity is the seat's current estimate.
func (e *Engine) appendLog(s *GameState, seat int, action Action, description string, amount *int, d *Decision) {
	if seat < 0 || seat >= len(s.Players) {
		return
	}
	p := s.Players[seat]

	entry := LogEntry{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Action:      action,
		Description: description,
		Timestamp:   e.clock.Now(),
		Phase:       s.Phase,
		Amount:      amount,
		Emotion:     p.Emotion,
	}
	if p.Equity != nil {
		eq := *p.Equity
		entry.Equity = &eq
	}
	if d != nil {
		entry.ChainOfThought = d.ChainOfThought
		entry.ReasoningSummary = d.ReasoningSummary
	}
	if entry.Emotion == "" {
		entry.Emotion = Neutral
	}
	s.ActivityLog = s.ActivityLog.Append(entry)
}

// logPhase records a table event against the dealer seat
func (e *Engine) logPhase(s *GameState, description string) {
	e.appendLog(s, s.DealerIndex, PhaseEvent, description, nil, nil)
}

// annotateEquity sets every seat's equity for the current board. Seats out of
// the hand get 0; a lone live hand gets 100.
func (e *Engine) annotateEquity(s *GameState) {
	hands := make([][]deck.Card, len(s.Players))
	live := 0
	for i, p := range s.Players {
		if p.IsActive && p.HasHand() {
			hands[i] = p.Hand
			live++
		}
	}

	values := make([]float64, len(s.Players))
	switch {
	case live <= 1:
		for i := range s.Players {
			if hands[i] != nil {
				values[i] = 100
			}
		}
	case s.Phase == PhaseDealing || s.Phase == PhasePreFlop || s.Phase == PhaseIdle:
		for i := range s.Players {
			if hands[i] != nil {
				values[i] = equity.Preflop(hands[i], live)
			}
		}
	default:
		values = e.equity.MonteCarlo(hands, s.CommunityCards)
	}

	for i := range s.Players {
		v := values[i]
		s.Players[i].Equity = &v
	}
}

func intPtr(v int) *int {
	return &v
}
