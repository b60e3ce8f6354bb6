package main

import (
	"os"
	"time"

	"github.com/lox/pokerarena/internal/fileutil"
	"github.com/lox/pokerarena/internal/randutil"
	"github.com/lox/pokerarena/internal/simulator"
)

// SimulateCmd plays many tournaments without delays and reports statistics
type SimulateCmd struct {
	Config      string        `short:"c" default:"pokerarena.hcl" type:"path" help:"HCL tournament configuration; built-in defaults when missing"`
	Tournaments int           `short:"n" default:"100" help:"Number of tournaments to play"`
	Seed        int64         `help:"Base seed; tournament i uses seed+i (0 picks one from the clock)"`
	Parallel    int           `short:"p" help:"Tournaments to run at once (0 for one per CPU)"`
	MaxHands    int           `name:"max-hands" default:"2000" help:"Hand limit per tournament"`
	Timeout     time.Duration `default:"1m" help:"Time limit per tournament"`
	JSON        string        `name:"json" type:"path" help:"Also write the statistics as JSON to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g)

	flags := TableFlags{Config: c.Config, MaxHands: c.MaxHands, Fast: true}
	cfg, err := flags.load()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	if c.Seed == 0 && cfg.Table.Seed != 0 {
		seed = cfg.Table.Seed
	}
	logger.Info("Starting simulation", "tournaments", c.Tournaments, "seed", seed, "seats", len(cfg.Seats))

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	stats, err := simulator.New(simulator.Config{
		Tournaments: c.Tournaments,
		Seed:        seed,
		Parallel:    c.Parallel,
		Timeout:     c.Timeout,
		Table:       cfg,
		Logger:      logger.WithPrefix("simulator"),
	}).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "elapsed", time.Since(start).Round(time.Millisecond))

	simulator.WriteSummary(os.Stdout, stats)

	if c.JSON != "" {
		if err := fileutil.WriteJSON(c.JSON, stats); err != nil {
			return err
		}
		logger.Info("Wrote statistics", "file", c.JSON)
	}
	return nil
}
