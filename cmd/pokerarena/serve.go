package main

import (
	"os"

	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/spectator"
	"github.com/lox/pokerarena/internal/tui"
	"golang.org/x/sync/errgroup"
)

// ServeCmd plays a tournament while spectators watch over HTTP and WebSocket
type ServeCmd struct {
	TableFlags

	Addr      string `default:":8080" help:"Spectator server address"`
	HideCards bool   `name:"hide-cards" help:"Hide hole cards until showdown"`
	RecentLog int    `name:"recent-log" default:"50" help:"Log entries included with each snapshot"`
	Linger    bool   `help:"Keep serving the final table after the tournament ends, until interrupted"`
	Export    string `type:"path" help:"Write the activity log as JSON to this file when the tournament ends"`
	Quiet     bool   `help:"Do not print the play-by-play to stdout"`
}

func (c *ServeCmd) Run(g *Globals) error {
	logger := newLogger(os.Stderr, g)
	cfg, err := c.load()
	if err != nil {
		return err
	}

	opts := []spectator.Option{
		spectator.WithLogger(logger),
		spectator.WithRecentLog(c.RecentLog),
	}
	if c.HideCards {
		opts = append(opts, spectator.WithHiddenCards())
	}
	hub := spectator.NewHub(opts...)

	sinks := []game.StateSink{hub}
	var console *tui.Console
	if !c.Quiet {
		console = tui.NewConsole(os.Stdout, game.FormattingOptions{ShowEquity: true, ShowEmotion: true})
		sinks = append(sinks, console)
	}

	t, err := newTournament(cfg, logger, game.WithSinks(sinks...))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	var res game.TournamentResult
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return hub.ListenAndServe(egCtx, c.Addr)
	})
	eg.Go(func() error {
		var err error
		res, err = t.run(egCtx)
		if err != nil && !stopped(err) {
			cancel()
			return err
		}
		if console != nil {
			console.Summary(res)
		}
		if c.Export != "" {
			if err := t.export(c.Export, res); err != nil {
				return err
			}
		}
		if err := t.saveHistory(c.History); err != nil {
			return err
		}
		if !c.Linger {
			cancel()
		} else {
			logger.Info("Tournament over; still serving the final table", "addr", c.Addr)
		}
		return nil
	})

	return eg.Wait()
}
