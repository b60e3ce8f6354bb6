package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/agent"
	"github.com/lox/pokerarena/internal/config"
	"github.com/lox/pokerarena/internal/equity"
	"github.com/lox/pokerarena/internal/fileutil"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/gameid"
	"github.com/lox/pokerarena/internal/phh"
	"github.com/lox/pokerarena/internal/randutil"
)

// TableFlags select and override the tournament configuration
type TableFlags struct {
	Config   string `short:"c" default:"pokerarena.hcl" type:"path" help:"HCL tournament configuration; built-in defaults when missing"`
	Seed     int64  `help:"Deterministic seed, overriding the config (0 picks one from the clock)"`
	MaxHands int    `name:"max-hands" help:"Stop after this many hands, overriding the config"`
	Fast     bool   `help:"Skip pacing delays and think times"`
	History  string `type:"path" help:"Write every hand to this file in PHH format when the tournament ends"`
}

// load reads, overrides and validates the configuration
func (f TableFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.Seed != 0 {
		cfg.Table.Seed = f.Seed
	}
	if f.MaxHands > 0 {
		cfg.Table.MaxHands = f.MaxHands
	}
	if f.Fast {
		cfg.Table.PhaseDelay = "0s"
		cfg.Table.ActionDelay = "0s"
		cfg.Table.ShowdownDelay = "0s"
		for i := range cfg.Seats {
			cfg.Seats[i].ThinkTime = ""
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", f.Config, err)
	}
	return cfg, nil
}

// tournament is a seated table ready to run
type tournament struct {
	id      string
	seed    int64
	engine  *game.Engine
	sources game.SeatSources
	state   game.GameState
	history *phh.Recorder
	logger  *log.Logger
}

// newTournament wires the engine, equity and agents for cfg. Every random
// stream descends from one seed, which is logged so a run can be replayed.
func newTournament(cfg *config.Config, logger *log.Logger, opts ...game.Option) (*tournament, error) {
	seed := randutil.Seed(cfg.Table.Seed)
	source := randutil.NewSource(seed)
	id := gameid.New(nil, source.Child()).Generate()
	logger = logger.With("tournament", id)
	logger.Info("Seating table", "seed", seed, "seats", len(cfg.Seats), "small_blind", cfg.Table.SmallBlind, "starting_chips", cfg.Table.StartingChips)

	history := phh.NewRecorder(id)
	engineOpts := append([]game.Option{
		game.WithLogger(logger.WithPrefix("engine")),
		game.WithRand(source.Child()),
		game.WithEquity(equity.New(source.Child(), equity.WithTrials(cfg.Table.EquityTrials))),
		game.WithSinks(history),
	}, opts...)
	engine := game.NewEngine(cfg.Engine(), engineOpts...)

	sources, err := agent.BuildAll(cfg, agent.Deps{Logger: logger.WithPrefix("agent"), Source: source})
	if err != nil {
		return nil, err
	}

	return &tournament{
		id:      id,
		seed:    seed,
		engine:  engine,
		sources: sources,
		state:   engine.NewGame(agent.Seats(cfg), cfg.Table.StartingChips),
		history: history,
		logger:  logger,
	}, nil
}

// run plays until a winner emerges, the hand limit is hit or ctx ends
func (t *tournament) run(ctx context.Context) (game.TournamentResult, error) {
	start := time.Now()
	res, err := t.engine.RunTournament(ctx, t.state, t.sources, nil)
	winner := "none"
	if res.Winner != nil {
		winner = res.Winner.Name
	}
	t.logger.Info("Tournament finished", "hands", res.Hands, "winner", winner, "elapsed", time.Since(start).Round(time.Millisecond))
	return res, err
}

// exportDoc is the JSON written by --export
type exportDoc struct {
	ID          string           `json:"id"`
	Seed        int64            `json:"seed"`
	Hands       int              `json:"hands"`
	Winner      string           `json:"winner,omitempty"`
	Players     []game.Player    `json:"players"`
	ActivityLog game.ActivityLog `json:"activityLog"`
}

func (t *tournament) export(filename string, res game.TournamentResult) error {
	doc := exportDoc{
		ID:          t.id,
		Seed:        t.seed,
		Hands:       res.Hands,
		Players:     res.FinalState.Players,
		ActivityLog: res.FinalState.ActivityLog,
	}
	if res.Winner != nil {
		doc.Winner = res.Winner.Name
	}
	if err := fileutil.WriteJSON(filename, doc); err != nil {
		return fmt.Errorf("failed to export activity log: %w", err)
	}
	t.logger.Info("Exported activity log", "file", filename, "entries", doc.ActivityLog.Len())
	return nil
}

// saveHistory writes the recorded hands as a PHHS file
func (t *tournament) saveHistory(filename string) error {
	if filename == "" {
		return nil
	}
	if err := t.history.Save(filename); err != nil {
		return fmt.Errorf("failed to write hand history: %w", err)
	}
	t.logger.Info("Wrote hand history", "file", filename, "hands", len(t.history.Hands()))
	return nil
}

// newLogger writes to w at info level, or debug with --debug
func newLogger(w io.Writer, g *Globals) *log.Logger {
	level := log.InfoLevel
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

// signalContext is cancelled on interrupt or SIGTERM
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// stopped reports whether err only means the run was interrupted
func stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
