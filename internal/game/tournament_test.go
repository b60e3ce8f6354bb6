package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentEndsWithSingleWinner(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHands = 500
	e := newTestEngine(t, cfg)
	s := e.NewGame(seats(names(4)...), 100)

	result, err := e.RunTournament(context.Background(), s, always(AllIn), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Winner)
	assert.Greater(t, result.Hands, 0)

	final := result.FinalState
	assert.Equal(t, 400, totalChips(final))
	assert.Equal(t, 400, result.Winner.Chips)
	assert.Equal(t, []int{result.Winner.ID}, final.WinningPlayers)
	assert.Len(t, final.PlayersWithChips(), 1)

	last := final.ActivityLog.Last(1)[0]
	assert.Equal(t, Win, last.Action)
	assert.True(t, strings.HasPrefix(last.Description, "Game over! "+result.Winner.Name+" wins the tournament"))
	assert.Equal(t, last.Description, final.HandResults[result.Winner.ID])
}

func TestTournamentSidePotsOff(t *testing.T) {
	cfg := testConfig()
	cfg.SidePots = false
	cfg.MaxHands = 500
	e := newTestEngine(t, cfg)
	s := e.NewGame(seats(names(3)...), 100)

	result, err := e.RunTournament(context.Background(), s, always(AllIn), nil)
	require.NoError(t, err)
	if result.Winner != nil {
		assert.Equal(t, 300, result.Winner.Chips)
	}
	assert.Equal(t, 300, totalChips(result.FinalState))
}

func TestTournamentStopFunc(t *testing.T) {
	e := newTestEngine(t, testConfig())
	s := e.NewGame(seats(names(4)...), 1000)

	polls := 0
	stop := func() bool {
		polls++
		return polls > 2
	}
	result, err := e.RunTournament(context.Background(), s, always(Check), stop)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Hands)
	assert.Nil(t, result.Winner)
	assert.Equal(t, 2, result.FinalState.Round)
	assert.Equal(t, 4000, totalChips(result.FinalState))
}

func TestTournamentMaxHands(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHands = 3
	e := newTestEngine(t, cfg)
	s := e.NewGame(seats(names(3)...), 1000)

	result, err := e.RunTournament(context.Background(), s, always(Call), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Hands)
	assert.Nil(t, result.Winner)
}

func TestTournamentCancelled(t *testing.T) {
	e := newTestEngine(t, testConfig())
	s := e.NewGame(seats(names(3)...), 1000)

	ctx, cancel := context.WithCancel(context.Background())
	decisions := 0
	src := DecisionFunc(func(ctx context.Context, _ Player, _ GameState) (Decision, error) {
		decisions++
		if decisions == 5 {
			cancel()
			return Decision{}, ctx.Err()
		}
		return Decision{Action: Call}, nil
	})

	_, err := e.RunTournament(ctx, s, src, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTournamentSkipsEliminatedSeats(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHands = 2
	e := newTestEngine(t, cfg)
	s := e.NewGame(seats(names(3)...), 500)
	s.Players[1].Chips = 0

	src := newScript(nil)
	result, err := e.RunTournament(context.Background(), s, src, nil)
	require.NoError(t, err)

	assert.NotContains(t, src.asked, 1)
	assert.False(t, result.FinalState.Players[1].IsActive)
	assert.Empty(t, result.FinalState.Players[1].Hand)
}

func TestTournamentAlreadyDecided(t *testing.T) {
	e := newTestEngine(t, testConfig())
	s := e.NewGame(seats(names(2)...), 100)
	s.Players[0].Chips = 0
	s.Players[1].Chips = 200

	result, err := e.RunTournament(context.Background(), s, always(Fold), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Winner)
	assert.Equal(t, "Bob", result.Winner.Name)
	assert.Zero(t, result.Hands)
}
