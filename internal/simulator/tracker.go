package simulator

import (
	"slices"

	"github.com/lox/pokerarena/internal/game"
	"github.com/lox/pokerarena/internal/statistics"
)

// tracker is a state sink that turns published snapshots into hand results
// and finishing places for one tournament. It is driven by the engine's
// goroutine only.
type tracker struct {
	bigBlind int

	hands  []statistics.HandResult
	places map[int]int

	pendingRound int
	pendingPot   int
	pendingLive  int
	lastRound    int
}

func newTracker(bigBlind int) *tracker {
	return &tracker{bigBlind: bigBlind, places: make(map[int]int)}
}

// Publish implements game.StateSink. Each hand publishes a showdown snapshot
// with the pot still in the middle, then one after the pot is paid.
func (t *tracker) Publish(s game.GameState) {
	if s.Phase != game.PhaseShowdown || s.Round == t.lastRound {
		return
	}

	if s.Pot > 0 && len(s.WinningPlayers) == 0 {
		t.pendingRound = s.Round
		t.pendingPot = s.Pot
		t.pendingLive = 0
		for _, p := range s.Players {
			if p.IsActive && p.HasHand() {
				t.pendingLive++
			}
		}
		return
	}
	if s.Round != t.pendingRound {
		return
	}

	t.lastRound = s.Round
	t.hands = append(t.hands, statistics.HandResult{
		Round:          s.Round,
		Pot:            t.pendingPot,
		BigBlind:       t.bigBlind,
		WentToShowdown: t.pendingLive >= 2,
		Winners:        slices.Clone(s.WinningPlayers),
	})

	// Seats busted on the same hand share a place
	alive := len(s.PlayersWithChips())
	for i, p := range s.Players {
		if _, out := t.places[i]; !out && p.Chips <= 0 {
			t.places[i] = alive + 1
		}
	}
}

// result builds the tournament summary once RunTournament has returned
func (t *tracker) result(seed int64, res game.TournamentResult) statistics.TournamentResult {
	out := statistics.TournamentResult{
		Seed:   seed,
		Hands:  res.Hands,
		Winner: -1,
		Places: t.places,
	}
	if res.Winner != nil {
		out.Winner = res.Winner.ID
		t.places[res.Winner.ID] = 1
	}
	return out
}
