package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableState(version int64, entries ...game.LogEntry) game.GameState {
	s := game.NewGameState([]game.Seat{{Name: "Ada"}, {Name: "Bo"}, {Name: "Cy"}}, 100, 10)
	s.Version = version
	s.Round = 1
	s.Phase = game.PhaseFlop
	s.Pot = 30
	s.CommunityCards = deck.MustParseCards("Ah7d2c")
	s.Players[0].Hand = deck.MustParseCards("AsKs")
	s.Players[2].IsActive = false
	s.ActivityLog = game.NewActivityLog(entries...)
	return s
}

var (
	blinds = game.LogEntry{PlayerName: "Bo", Action: game.Blind, Description: "Posts small blind of $10"}
	folds  = game.LogEntry{PlayerName: "Cy", Action: game.Fold, Description: "Folds"}
	bets   = game.LogEntry{PlayerName: "Ada", Action: game.Bet, Description: "Bets $20"}
)

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sizedViewer(t *testing.T, opts ...ViewerOption) *Viewer {
	t.Helper()
	v := NewViewer(NewSink(), opts...)
	v.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return v
}

func TestViewerLoadingBeforeSize(t *testing.T) {
	v := NewViewer(NewSink())
	assert.Equal(t, "Loading...", v.View())
}

func TestViewerRendersState(t *testing.T) {
	v := sizedViewer(t)
	assert.Contains(t, v.View(), "Waiting for the first hand")

	_, cmd := v.Update(StateMsg{State: tableState(1, blinds, folds)})
	assert.NotNil(t, cmd, "keeps listening for snapshots")

	view := v.View()
	assert.Contains(t, view, "Hand 1")
	assert.Contains(t, view, "Pot $30")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "folded")
	assert.Contains(t, view, "Posts small blind of $10")
	assert.Contains(t, view, "A♥")
}

func TestViewerAppendsOnlyNewEntries(t *testing.T) {
	v := sizedViewer(t)

	v.Update(StateMsg{State: tableState(1, blinds)})
	v.Update(StateMsg{State: tableState(2, blinds, folds)})
	v.Update(StateMsg{State: tableState(3, blinds, folds, bets)})
	require.Len(t, v.lines, 3)
	assert.Contains(t, v.lines[2], "Ada: Bets $20")

	// A shorter log means a new table; start over
	v.Update(StateMsg{State: tableState(1, bets)})
	require.Len(t, v.lines, 1)
}

func TestViewerPauseToggle(t *testing.T) {
	gate := game.NewPauseGate()
	v := sizedViewer(t, WithPauseGate(gate))
	v.Update(StateMsg{State: tableState(1, blinds)})

	v.Update(key(" "))
	assert.True(t, gate.Paused())
	assert.Contains(t, v.View(), "PAUSED")

	v.Update(key(" "))
	assert.False(t, gate.Paused())
	assert.NotContains(t, v.View(), "PAUSED")
}

func TestViewerQuit(t *testing.T) {
	cancelled := false
	v := sizedViewer(t, WithQuit(func() { cancelled = true }))

	_, cmd := v.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, cancelled)
	assert.Empty(t, v.View())
}

func TestViewerDone(t *testing.T) {
	v := sizedViewer(t)

	final := tableState(9, blinds, folds)
	winner := final.Players[0]
	v.Update(DoneMsg{Result: game.TournamentResult{Winner: &winner, Hands: 12, FinalState: final}})

	res, ok := v.Done()
	require.True(t, ok)
	assert.Equal(t, 12, res.Result.Hands)
	assert.Contains(t, v.View(), "Ada wins after 12 hands")

	v = sizedViewer(t)
	v.Update(StateMsg{State: tableState(1, blinds)})
	v.Update(DoneMsg{Err: errors.New("model unreachable")})
	assert.Contains(t, v.View(), "Stopped: model unreachable")
}

func TestSinkCoalesces(t *testing.T) {
	sink := NewSink()
	for i := range 3 {
		sink.Publish(tableState(int64(i + 1)))
	}

	msg := sink.wait()()
	require.IsType(t, StateMsg{}, msg)
	assert.Equal(t, int64(3), msg.(StateMsg).State.Version)

	_, ok := sink.take()
	assert.False(t, ok, "nothing pending after delivery")
}

func TestSinkCloseReleasesWait(t *testing.T) {
	sink := NewSink()
	got := make(chan tea.Msg, 1)
	go func() { got <- sink.wait()() }()

	sink.Close()
	sink.Close()

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("wait still blocked after Close")
	}
}

func TestConsolePrintsEachEntryOnce(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf, game.FormattingOptions{})

	console.Publish(tableState(1, blinds))
	console.Publish(tableState(2, blinds, folds))
	console.Publish(tableState(2, blinds, folds))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Posts small blind"))
	assert.Equal(t, 1, strings.Count(out, "Cy: Folds"))
	assert.Equal(t, 1, strings.Count(out, "Hand 1"))

	final := tableState(3, blinds, folds)
	winner := final.Players[0]
	console.Summary(game.TournamentResult{Winner: &winner, Hands: 4, FinalState: final})
	assert.Contains(t, buf.String(), "Ada wins the tournament after 4 hands")
}

func TestFormatCards(t *testing.T) {
	assert.Contains(t, FormatCards(nil), "--")
	out := FormatCards(deck.MustParseCards("AsKh"))
	assert.Contains(t, out, "A♠")
	assert.Contains(t, out, "K♥")
}
