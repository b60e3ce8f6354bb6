package phh

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard(t *testing.T) {
	assert.Equal(t, "Th", Card(deck.NewCard(deck.Hearts, deck.Ten)))
	assert.Equal(t, "As", Card(deck.NewCard(deck.Spades, deck.Ace)))
	assert.Equal(t, "2c", Card(deck.NewCard(deck.Clubs, deck.Two)))
	assert.Equal(t, "??", Card(deck.Card{}))

	assert.Equal(t, "AsKd", Cards(deck.MustParseCards("AsKd"), 2))
	assert.Equal(t, "????", Cards(nil, 2))
	assert.Equal(t, "??????", Cards(deck.MustParseCards("As"), 3))
}

func TestFormatAction(t *testing.T) {
	tests := []struct {
		name      string
		seat      int
		action    game.Action
		total     int
		want      string
		shouldUse bool
	}{
		{"fold", 0, game.Fold, 0, "p1 f", true},
		{"check", 1, game.Check, 0, "p2 cc", true},
		{"call", 3, game.Call, 50, "p4 cc", true},
		{"raise", 0, game.Raise, 120, "p1 cbr 120", true},
		{"bet", 1, game.Bet, 40, "p2 cbr 40", true},
		{"zero bet", 2, game.Raise, 0, "", false},
		{"allin", 0, game.AllIn, 350, "p1 cbr 350", true},
		{"blind", 0, game.Blind, 5, "", false},
		{"other", 2, game.Win, 10, "# p3 win 10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatAction(tt.seat, tt.action, tt.total)
			assert.Equal(t, tt.shouldUse, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeHandHistory(t *testing.T) {
	hand := &HandHistory{
		Variant:           "NT",
		Table:             "default",
		SeatCount:         3,
		Seats:             []int{1, 2, 3},
		Antes:             []int{0, 0, 0},
		BlindsOrStraddles: []int{1, 2, 0},
		MinBet:            2,
		StartingStacks:    []int{200, 200, 200},
		FinishingStacks:   []int{200, 200, 200},
		Winnings:          []int{0, 0, 0},
		Actions:           []string{"d dh p1 AhKh", "d dh p2 7c2d", "d dh p3 QsJs", "p1 cbr 6", "p2 f", "p3 cc"},
		Players:           []string{"Ada", "Bo", "Cy"},
		HandID:            "hand-42",
		Timestamp:         time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC),
	}
	hand.setTime()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"default\"\n" +
		"seat_count = 3\n" +
		"seats = [1, 2, 3]\n" +
		"antes = [0, 0, 0]\n" +
		"blinds_or_straddles = [1, 2, 0]\n" +
		"min_bet = 2\n" +
		"starting_stacks = [200, 200, 200]\n" +
		"finishing_stacks = [200, 200, 200]\n" +
		"winnings = [0, 0, 0]\n" +
		"actions = [\"d dh p1 AhKh\", \"d dh p2 7c2d\", \"d dh p3 QsJs\", \"p1 cbr 6\", \"p2 f\", \"p3 cc\"]\n" +
		"players = [\"Ada\", \"Bo\", \"Cy\"]\n" +
		"hand = \"hand-42\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"
	assert.Equal(t, want, buf.String())

	require.Error(t, Encode(&buf, nil))
}

func playHand(t *testing.T, rec *Recorder, d game.DecisionFunc) game.GameState {
	t.Helper()
	engine := game.NewEngine(game.Config{MinBet: 10, SidePots: true},
		game.WithRand(randutil.New(3)),
		game.WithSinks(rec))
	s := engine.NewGame([]game.Seat{{Name: "Ada"}, {Name: "Bo"}, {Name: "Cy"}}, 200)
	final, err := engine.PlayHand(context.Background(), s, d)
	require.NoError(t, err)
	return final
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestRecorderShowdownHand(t *testing.T) {
	mock := quartz.NewMock(t)
	rec := NewRecorder("table-1", WithClock(mock))

	final := playHand(t, rec, func(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
		return game.Decision{Action: game.Call}, nil
	})

	hands := rec.Hands()
	require.Len(t, hands, 1)
	h := hands[0]

	// The button moves to seat 1 for the first hand, so Cy posts the small blind
	assert.Equal(t, "table-1-1", h.HandID)
	assert.Equal(t, []string{"Cy", "Ada", "Bo"}, h.Players)
	assert.Equal(t, []int{3, 1, 2}, h.Seats)
	assert.Equal(t, []int{10, 20, 0}, h.BlindsOrStraddles)
	assert.Equal(t, []int{200, 200, 200}, h.StartingStacks)
	assert.Equal(t, 20, h.MinBet)

	assert.Equal(t, sum(h.StartingStacks), sum(h.FinishingStacks))
	assert.Equal(t, 60, sum(h.Winnings))
	assert.Equal(t, final.Players[2].Chips, h.FinishingStacks[0])

	require.GreaterOrEqual(t, len(h.Actions), 6)
	assert.True(t, strings.HasPrefix(h.Actions[0], "d dh p1 "))
	assert.True(t, strings.HasPrefix(h.Actions[2], "d dh p3 "))

	var boards, shows int
	for _, a := range h.Actions {
		switch {
		case strings.HasPrefix(a, "d db "):
			boards++
		case strings.Contains(a, " sm "):
			shows++
		}
	}
	assert.Equal(t, 3, boards)
	assert.Equal(t, 3, shows)
	assert.Len(t, h.Board, 5)
	assert.Equal(t, mock.Now().UTC().Year(), h.Year)
}

func TestRecorderFoldedHand(t *testing.T) {
	rec := NewRecorder("t")
	playHand(t, rec, func(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
		return game.Decision{Action: game.Fold}, nil
	})

	hands := rec.Hands()
	require.Len(t, hands, 1)
	h := hands[0]

	assert.Equal(t, []string{"p3 f", "p1 f"}, h.Actions[3:])
	assert.Equal(t, []int{0, 30, 0}, h.Winnings)
	assert.Equal(t, []int{190, 210, 200}, h.FinishingStacks)
	assert.Empty(t, h.Board)
}

func TestRecorderSave(t *testing.T) {
	rec := NewRecorder("t")
	folds := game.DecisionFunc(func(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
		return game.Decision{Action: game.Fold}, nil
	})
	engine := game.NewEngine(game.Config{MinBet: 10, SidePots: true},
		game.WithRand(randutil.New(8)),
		game.WithSinks(rec))
	s := engine.NewGame([]game.Seat{{Name: "Ada"}, {Name: "Bo"}}, 100)
	for range 2 {
		var err error
		s, err = engine.PlayHand(context.Background(), s, folds)
		require.NoError(t, err)
	}
	require.Len(t, rec.Hands(), 2)

	path := filepath.Join(t.TempDir(), "hands.phhs")
	require.NoError(t, rec.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[1]\nvariant = \"NT\"\n"))
	assert.Contains(t, out, "\n\n[2]\n")
	assert.Contains(t, out, "hand = \"t-2\"")
}

func TestRecorderShortRaiseIsCall(t *testing.T) {
	rec := NewRecorder("t")
	engine := game.NewEngine(game.Config{MinBet: 10, SidePots: true},
		game.WithRand(randutil.New(3)),
		game.WithSinks(rec))
	s := engine.NewGame([]game.Seat{{Name: "Ada"}, {Name: "Bo"}, {Name: "Cy"}}, 200)
	s.Players[1].Chips = 15

	// Bo is first to act and cannot cover the big blind
	final, err := engine.PlayHand(context.Background(), s, game.DecisionFunc(
		func(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
			if seat.ID == 1 {
				return game.Decision{Action: game.Raise, BetAmount: 100}, nil
			}
			return game.Decision{Action: game.Call}, nil
		}))
	require.NoError(t, err)

	var bo *game.LogEntry
	for _, e := range final.ActivityLog.Entries() {
		if e.PlayerID == 1 && e.Action.IsPlayerAction() {
			bo = &e
			break
		}
	}
	require.NotNil(t, bo)
	assert.Equal(t, game.AllIn, bo.Action)
	require.NotNil(t, bo.Amount)
	assert.Equal(t, 15, *bo.Amount)

	hands := rec.Hands()
	require.Len(t, hands, 1)
	h := hands[0]
	assert.Equal(t, []string{"Cy", "Ada", "Bo"}, h.Players)
	assert.Equal(t, 15, h.StartingStacks[2])
	assert.Equal(t, "p3 cc", h.Actions[3])
	for _, a := range h.Actions {
		assert.NotContains(t, a, "cbr", "nobody raised: %v", h.Actions)
	}
}
