package agent

import (
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/config"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/randutil"
)

// Deps are the shared resources seats are built from
type Deps struct {
	Logger        *log.Logger
	Clock         quartz.Clock
	Source        *randutil.Source  // Each seat gets its own child generator
	Personalities *PersonalityTable // Shared by heuristic seats
	Remote        config.Remote
	HTTPClient    *http.Client
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if d.Clock == nil {
		d.Clock = quartz.NewReal()
	}
	if d.Source == nil {
		d.Source = randutil.NewSource(randutil.Seed(0))
	}
	if d.Personalities == nil {
		d.Personalities = NewPersonalityTable(d.Source.Child())
	}
}

// Build creates the decision source for one seat. Remote seats fall back to
// the heuristic agent when the model fails.
func Build(seat config.Seat, deps Deps) (game.DecisionSource, error) {
	deps.defaults()
	logger := deps.Logger.With("seat", seat.Name)

	var src game.DecisionSource
	switch seat.Agent {
	case config.AgentHeuristic, "":
		src = NewHeuristic(deps.Personalities, deps.Source.Child(), logger)
	case config.AgentCalling:
		src = CallingStation{}
	case config.AgentFolder:
		src = Folder{}
	case config.AgentRandom:
		src = NewRandom(deps.Source.Child())
	case config.AgentRemote:
		model := seat.Model
		if model == "" {
			model = deps.Remote.Model
		}
		remote := NewRemote(RemoteConfig{
			BaseURL:     deps.Remote.BaseURL,
			APIKey:      deps.Remote.APIKey(),
			Model:       model,
			Temperature: deps.Remote.Temperature,
			MaxTokens:   deps.Remote.MaxTokens,
			Timeout:     deps.Remote.TimeoutDuration(),
		}, WithHTTPClient(deps.HTTPClient), WithRemoteLogger(logger))
		src = WithFallback(remote, NewHeuristic(deps.Personalities, deps.Source.Child(), logger), logger)
	default:
		return nil, fmt.Errorf("seat %q: %w %q", seat.Name, config.ErrUnknownAgent, seat.Agent)
	}

	return WithThinkTime(src, deps.Clock, seat.ThinkDuration()), nil
}

// BuildAll creates a source per configured seat, keyed by seat index, and
// draws a fresh personality for every seat.
func BuildAll(cfg *config.Config, deps Deps) (game.SeatSources, error) {
	deps.defaults()
	if cfg.Remote != nil {
		deps.Remote = *cfg.Remote
	}
	deps.Personalities.Assign(len(cfg.Seats))

	sources := game.SeatSources{
		Seats:   make(map[int]game.DecisionSource, len(cfg.Seats)),
		Default: Folder{},
	}
	for i, seat := range cfg.Seats {
		src, err := Build(seat, deps)
		if err != nil {
			return game.SeatSources{}, err
		}
		sources.Seats[i] = src
	}
	return sources, nil
}

// Seats returns the engine seats for cfg, giving each seat without a
// configured personality one from the cyclic name list.
func Seats(cfg *config.Config) []game.Seat {
	seats := cfg.GameSeats()
	for i := range seats {
		if seats[i].Personality == "" {
			seats[i].Personality = PersonalityName(i)
		}
	}
	return seats
}
