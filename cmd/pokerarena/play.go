package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/tui"
)

// PlayCmd runs a single tournament with a terminal sink
type PlayCmd struct {
	TableFlags

	TUI       bool   `name:"tui" help:"Watch in a full-screen viewer (space pauses, q quits)"`
	Export    string `type:"path" help:"Write the activity log as JSON to this file when the tournament ends"`
	LogFile   string `name:"log-file" type:"path" help:"Write engine logs here while the viewer owns the terminal"`
	Reasoning bool   `help:"Show each decision's reasoning summary"`
	Thoughts  bool   `help:"Show each decision's full chain of thought"`
}

func (c *PlayCmd) formatting() game.FormattingOptions {
	return game.FormattingOptions{
		ShowReasoning: c.Reasoning,
		ShowThoughts:  c.Thoughts,
		ShowEquity:    true,
		ShowEmotion:   true,
	}
}

func (c *PlayCmd) Run(g *Globals) error {
	if c.TUI {
		return c.runViewer(g)
	}

	logger := newLogger(os.Stderr, g)
	cfg, err := c.load()
	if err != nil {
		return err
	}

	console := tui.NewConsole(os.Stdout, c.formatting())
	t, err := newTournament(cfg, logger, game.WithSinks(console))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	res, err := t.run(ctx)
	if err != nil && !stopped(err) {
		return err
	}
	console.Summary(res)
	return c.save(t, res)
}

func (c *PlayCmd) runViewer(g *Globals) error {
	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, g)

	cfg, err := c.load()
	if err != nil {
		return err
	}

	sink := tui.NewSink()
	defer sink.Close()
	gate := game.NewPauseGate()
	t, err := newTournament(cfg, logger, game.WithSinks(sink), game.WithPauseGate(gate))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewer := tui.NewViewer(sink,
		tui.WithViewerLogger(logger),
		tui.WithPauseGate(gate),
		tui.WithFormatting(c.formatting()),
		tui.WithQuit(cancel),
	)
	p := tea.NewProgram(viewer, tea.WithAltScreen())

	type outcome struct {
		res game.TournamentResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := t.run(ctx)
		done <- outcome{res, err}
		p.Send(tui.DoneMsg{Result: res, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return fmt.Errorf("viewer failed: %w", err)
	}

	cancel()
	out := <-done
	if out.err != nil && !stopped(out.err) {
		return out.err
	}
	return c.save(t, out.res)
}

// save writes the optional activity log export and hand history
func (c *PlayCmd) save(t *tournament, res game.TournamentResult) error {
	if c.Export != "" {
		if err := t.export(c.Export, res); err != nil {
			return err
		}
	}
	return t.saveHistory(c.History)
}
