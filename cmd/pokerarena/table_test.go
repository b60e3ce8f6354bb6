package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/config"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/gameid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `
table {
  small_blind    = 10
  starting_chips = 200
  phase_delay    = "2s"
  action_delay   = "1s"
  equity_trials  = 30
  seed           = 11
}

seat "Ada" {
  agent      = "heuristic"
  think_time = "3s"
}

seat "Bo" {
  agent = "calling"
}

seat "Cy" {
  agent = "random"
}
`

func writeTable(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestTableFlagsLoad(t *testing.T) {
	path := writeTable(t, testTable)

	cfg, err := TableFlags{Config: path}.load()
	require.NoError(t, err)
	assert.Equal(t, int64(11), cfg.Table.Seed)
	assert.Equal(t, "2s", cfg.Table.PhaseDelay)
	assert.Equal(t, "3s", cfg.Seats[0].ThinkTime)

	cfg, err = TableFlags{Config: path, Seed: 99, MaxHands: 5, Fast: true}.load()
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Table.Seed)
	assert.Equal(t, 5, cfg.Table.MaxHands)
	assert.Equal(t, "0s", cfg.Table.PhaseDelay)
	assert.Empty(t, cfg.Seats[0].ThinkTime)
}

func TestTableFlagsLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := TableFlags{Config: filepath.Join(t.TempDir(), "missing.hcl")}.load()
	require.NoError(t, err)
	assert.Len(t, cfg.Seats, 4)
}

func TestTableFlagsLoadRejectsInvalid(t *testing.T) {
	path := writeTable(t, `seat "Solo" {}`)
	_, err := TableFlags{Config: path}.load()
	require.ErrorIs(t, err, config.ErrNoSeats)
}

func TestTournamentRunAndExport(t *testing.T) {
	cfg, err := TableFlags{Config: writeTable(t, testTable), Fast: true, MaxHands: 300}.load()
	require.NoError(t, err)

	var published int
	tour, err := newTournament(cfg, quietLogger(), game.WithSinks(game.SinkFunc(func(game.GameState) { published++ })))
	require.NoError(t, err)
	assert.Equal(t, int64(11), tour.seed)
	assert.Len(t, tour.state.Players, 3)
	require.NoError(t, gameid.Validate(tour.id))

	res, err := tour.run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, res.Hands)
	assert.Positive(t, published)
	assert.Equal(t, 600, res.FinalState.TotalChips())

	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, tour.export(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		ID          string          `json:"id"`
		Seed        int64           `json:"seed"`
		Hands       int             `json:"hands"`
		Players     []game.Player   `json:"players"`
		ActivityLog []game.LogEntry `json:"activityLog"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, tour.id, doc.ID)
	assert.Equal(t, int64(11), doc.Seed)
	assert.Equal(t, res.Hands, doc.Hands)
	assert.Len(t, doc.Players, 3)
	assert.Len(t, doc.ActivityLog, res.FinalState.ActivityLog.Len())

	hands := tour.history.Hands()
	require.Len(t, hands, res.Hands)
	assert.Equal(t, tour.id+"-1", hands[0].HandID)

	historyPath := filepath.Join(t.TempDir(), "hands.phhs")
	require.NoError(t, tour.saveHistory(historyPath))
	history, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(history), "[1]\nvariant = \"NT\"")

	require.NoError(t, tour.saveHistory(""))
}

func TestTournamentReplaysFromSeed(t *testing.T) {
	cfg, err := TableFlags{Config: writeTable(t, testTable), Fast: true, MaxHands: 40}.load()
	require.NoError(t, err)

	play := func() game.TournamentResult {
		tour, err := newTournament(cfg, quietLogger())
		require.NoError(t, err)
		res, err := tour.run(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := play(), play()
	assert.Equal(t, a.Hands, b.Hands)
	require.Equal(t, len(a.FinalState.Players), len(b.FinalState.Players))
	for i := range a.FinalState.Players {
		assert.Equal(t, a.FinalState.Players[i].Chips, b.FinalState.Players[i].Chips)
	}
	assert.Equal(t, a.FinalState.ActivityLog.Len(), b.FinalState.ActivityLog.Len())
}

func TestTournamentCancelled(t *testing.T) {
	cfg, err := TableFlags{Config: writeTable(t, testTable), Fast: true}.load()
	require.NoError(t, err)
	tour, err := newTournament(cfg, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tour.run(ctx)
	require.Error(t, err)
	assert.True(t, stopped(err))
}

func TestCLIParsing(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"odds", "AsKs", "-b", "Ah7d2c", "-o", "3", "--seed", "4"})
	require.NoError(t, err)
	assert.Equal(t, "odds <hands>", ctx.Command())
	assert.Equal(t, []string{"AsKs"}, cli.Odds.Hands)
	assert.Equal(t, "Ah7d2c", cli.Odds.Board)
	assert.Equal(t, 3, cli.Odds.Opponents)
	assert.Equal(t, 100000, cli.Odds.Trials)

	ctx, err = parser.Parse([]string{"simulate", "-n", "20", "--parallel", "2", "--no-color"})
	require.NoError(t, err)
	assert.Equal(t, "simulate", ctx.Command())
	assert.Equal(t, 20, cli.Simulate.Tournaments)
	assert.Equal(t, 2, cli.Simulate.Parallel)
	assert.True(t, cli.NoColor)

	ctx, err = parser.Parse([]string{"serve", "--addr", ":9999", "--hide-cards", "--fast", "--history", "out.phhs"})
	require.NoError(t, err)
	assert.Equal(t, "serve", ctx.Command())
	assert.True(t, filepath.IsAbs(cli.Serve.History))
	assert.Equal(t, ":9999", cli.Serve.Addr)
	assert.True(t, cli.Serve.HideCards)
	assert.True(t, cli.Serve.Fast)
}
