package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/agent"
	"github.com/lox/pokerarena/internal/config"
	"github.com/lox/pokerarena/internal/equity"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/randutil"
	"github.com/lox/pokerarena/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Tournaments int            // Number of tournaments to play
	Seed        int64          // Tournament i is played with Seed+i
	Parallel    int            // Tournaments run at once; 0 means one per CPU
	Timeout     time.Duration  // Per tournament; 0 means no limit
	Table       *config.Config // Seats and rules; pacing delays are ignored
	Logger      *log.Logger
}

// Simulator plays headless tournaments and aggregates their results
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(cfg Config) *Simulator {
	if cfg.Table == nil {
		cfg.Table = config.Default()
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: cfg}
}

type outcome struct {
	hands  []statistics.HandResult
	result statistics.TournamentResult
}

// Run plays every tournament and returns the aggregated statistics. Results
// are folded in tournament order, so a seed always gives the same numbers
// regardless of parallelism.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	table := headless(s.config.Table)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}

	outcomes := make([]outcome, s.config.Tournaments)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)
	for i := range outcomes {
		g.Go(func() error {
			o, err := s.playTournament(ctx, table, i)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(table.Seats))
	for i, seat := range table.Seats {
		names[i] = seat.Name
	}
	stats := statistics.New(names)
	for _, o := range outcomes {
		for _, h := range o.hands {
			stats.AddHand(h)
		}
		stats.AddTournament(o.result)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playTournament runs one tournament with its own engine, agents and seed
func (s *Simulator) playTournament(ctx context.Context, table *config.Config, index int) (outcome, error) {
	seed := s.config.Seed + int64(index)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	logger := s.config.Logger.With("tournament", index+1, "seed", seed)
	source := randutil.NewSource(seed)

	engineCfg := table.Engine()
	rec := newTracker(2 * engineCfg.MinBet)
	engine := game.NewEngine(engineCfg,
		game.WithLogger(logger),
		game.WithRand(source.Child()),
		game.WithEquity(equity.New(source.Child(),
			equity.WithTrials(table.Table.EquityTrials),
			equity.WithWorkers(1))),
		game.WithSinks(rec),
	)

	sources, err := agent.BuildAll(table, agent.Deps{Logger: logger, Source: source})
	if err != nil {
		return outcome{}, err
	}

	state := engine.NewGame(agent.Seats(table), table.Table.StartingChips)
	start := time.Now()
	res, err := engine.RunTournament(ctx, state, sources, nil)
	if err != nil {
		return outcome{}, fmt.Errorf("tournament %d (seed %d) after %d hands: %w", index+1, seed, res.Hands, err)
	}

	want := len(table.Seats) * table.Table.StartingChips
	if got := res.FinalState.TotalChips(); got != want {
		return outcome{}, fmt.Errorf("tournament %d (seed %d): chip ledger mismatch, %d chips on the table, want %d", index+1, seed, got, want)
	}

	winner := "none"
	if res.Winner != nil {
		winner = res.Winner.Name
	}
	logger.Debug("Tournament finished", "hands", res.Hands, "winner", winner, "elapsed", time.Since(start))

	return outcome{hands: rec.hands, result: rec.result(seed, res)}, nil
}

// headless copies cfg with every pacing delay and think time removed
func headless(cfg *config.Config) *config.Config {
	out := *cfg
	if cfg.Table != nil {
		t := *cfg.Table
		out.Table = &t
	} else {
		out.Table = config.Default().Table
	}
	out.Table.PhaseDelay = "0s"
	out.Table.ActionDelay = "0s"
	out.Table.ShowdownDelay = "0s"

	out.Seats = slices.Clone(cfg.Seats)
	for i := range out.Seats {
		out.Seats[i].ThinkTime = ""
	}
	return &out
}

// WriteSummary prints a summary of simulation results
func WriteSummary(w io.Writer, stats *statistics.Statistics) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Tournaments played: %d (%d with a winner)\n", stats.Tournaments, stats.Completed)
	fmt.Fprintf(w, "Hands played: %d\n", stats.Hands)

	fmt.Fprintf(w, "\n=== TOURNAMENT LENGTH ===\n")
	fmt.Fprintf(w, "Mean: %.2f hands\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.1f hands\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f hands\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] hands\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== POT SIZE ANALYSIS ===\n")
	fmt.Fprintf(w, "Showdowns: %d of %d hands (%.1f%%)\n", stats.Showdowns, stats.Hands, stats.ShowdownRate()*100)
	fmt.Fprintf(w, "Max pot observed: %d chips (%.1f bb)\n", stats.MaxPotChips, stats.MaxPotBB)
	if stats.Hands > 0 {
		fmt.Fprintf(w, "Big pots (>=%dbb): %d hands (%.1f%%)\n",
			statistics.BigPotBB, stats.BigPots, float64(stats.BigPots)/float64(stats.Hands)*100)
	}

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for i, seat := range stats.Seats {
		fmt.Fprintf(w, "%-12s wins %3d (%5.1f%%)  avg place %.2f  hands won %d (%d showdown, %d uncontested)\n",
			seat.Name, seat.Wins, stats.WinRate(i)*100, stats.AveragePlace(i),
			seat.HandsWon, seat.ShowdownWins, seat.NonShowdownWins)
	}
}
